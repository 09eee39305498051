package guard

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mkamau56/tutorhub/auth"
	"github.com/mkamau56/tutorhub/models"
)

func signedIn(role models.Role) auth.State {
	id := uuid.New()
	return auth.State{
		IdentityID: id,
		Profile:    &models.User{ID: id, Email: "u@test.test", Role: role},
	}
}

func TestEvaluateAuthorizedSameRole(t *testing.T) {
	for _, role := range []models.Role{models.RoleStudent, models.RoleTutor, models.RoleAdmin} {
		d := Evaluate(signedIn(role), role, "")
		if d.Outcome != OutcomeAuthorized {
			t.Fatalf("role %s guarding itself: got outcome %d, want authorized", role, d.Outcome)
		}
		if d.Redirect != "" {
			t.Fatalf("role %s guarding itself: unexpected redirect %q", role, d.Redirect)
		}
	}
}

func TestEvaluateWrongRoleRedirectsToActualRoleHome(t *testing.T) {
	homes := map[models.Role]string{
		models.RoleStudent: "/find-tutors",
		models.RoleTutor:   "/tutor/dashboard",
		models.RoleAdmin:   "/admin",
	}

	roles := []models.Role{models.RoleStudent, models.RoleTutor, models.RoleAdmin}
	for _, required := range roles {
		for _, actual := range roles {
			if required == actual {
				continue
			}
			d := Evaluate(signedIn(actual), required, "")
			if d.Outcome != OutcomeWrongRole {
				t.Fatalf("required=%s actual=%s: got outcome %d, want wrong role", required, actual, d.Outcome)
			}
			if d.Redirect != homes[actual] {
				t.Fatalf("required=%s actual=%s: redirect %q, want %q", required, actual, d.Redirect, homes[actual])
			}
		}
	}
}

func TestEvaluateUnknownRoleRedirectsToRoot(t *testing.T) {
	d := Evaluate(signedIn(models.Role("superuser")), models.RoleAdmin, "")
	if d.Outcome != OutcomeWrongRole || d.Redirect != "/" {
		t.Fatalf("unknown role: got (%d, %q), want wrong role redirecting to /", d.Outcome, d.Redirect)
	}
}

func TestEvaluateUnauthenticated(t *testing.T) {
	tests := []struct {
		name       string
		state      auth.State
		redirectTo string
		want       string
	}{
		{name: "no identity", state: auth.State{}, want: DefaultLoginPath},
		{name: "identity without profile", state: auth.State{IdentityID: uuid.New()}, want: DefaultLoginPath},
		{name: "custom login destination", state: auth.State{}, redirectTo: "/signin", want: "/signin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, required := range []models.Role{"", models.RoleStudent, models.RoleTutor, models.RoleAdmin} {
				d := Evaluate(tt.state, required, tt.redirectTo)
				if d.Outcome != OutcomeUnauthenticated {
					t.Fatalf("required=%q: got outcome %d, want unauthenticated", required, d.Outcome)
				}
				if d.Redirect != tt.want {
					t.Fatalf("required=%q: redirect %q, want %q", required, d.Redirect, tt.want)
				}
			}
		})
	}
}

func TestEvaluateLoadingNeverRedirects(t *testing.T) {
	st := auth.State{Loading: true}
	d := Evaluate(st, models.RoleAdmin, "")
	if d.Outcome != OutcomeLoading {
		t.Fatalf("loading state: got outcome %d, want loading", d.Outcome)
	}
	if d.Redirect != "" {
		t.Fatalf("loading state: unexpected redirect %q", d.Redirect)
	}
}

func TestEvaluateNoRequiredRoleOnlyNeedsSignIn(t *testing.T) {
	d := Evaluate(signedIn(models.RoleStudent), "", "")
	if d.Outcome != OutcomeAuthorized {
		t.Fatalf("signed in with no required role: got outcome %d, want authorized", d.Outcome)
	}
}
