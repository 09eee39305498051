package guard

import (
	"github.com/mkamau56/tutorhub/auth"
	"github.com/mkamau56/tutorhub/models"
)

// Outcome is the route-boundary decision for one session snapshot.
type Outcome int

const (
	// OutcomeLoading: session resolution in flight, render a neutral
	// placeholder and do not redirect.
	OutcomeLoading Outcome = iota
	// OutcomeUnauthenticated: no identity or no profile, go to login.
	OutcomeUnauthenticated
	// OutcomeWrongRole: signed in, but not in the required role; go to
	// the home of the user's actual role.
	OutcomeWrongRole
	// OutcomeAuthorized: render the guarded content.
	OutcomeAuthorized
)

type Decision struct {
	Outcome  Outcome
	Redirect string // empty unless the outcome redirects
}

const (
	DefaultLoginPath = "/login"
	siteRoot         = "/"
)

// RoleHome is the fixed destination for each role.
func RoleHome(role models.Role) string {
	switch role {
	case models.RoleStudent:
		return "/find-tutors"
	case models.RoleTutor:
		return "/tutor/dashboard"
	case models.RoleAdmin:
		return "/admin"
	default:
		return siteRoot
	}
}

// Evaluate is the pure transition function: given the session state
// and the role a destination requires, it decides render or redirect.
// An empty requiredRole only requires being signed in. redirectTo
// overrides the login destination; empty means DefaultLoginPath.
func Evaluate(st auth.State, requiredRole models.Role, redirectTo string) Decision {
	if st.Loading {
		return Decision{Outcome: OutcomeLoading}
	}

	if !st.Authenticated() {
		if redirectTo == "" {
			redirectTo = DefaultLoginPath
		}
		return Decision{Outcome: OutcomeUnauthenticated, Redirect: redirectTo}
	}

	if requiredRole != "" && st.Profile.Role != requiredRole {
		return Decision{Outcome: OutcomeWrongRole, Redirect: RoleHome(st.Profile.Role)}
	}

	return Decision{Outcome: OutcomeAuthorized}
}
