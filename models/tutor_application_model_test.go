package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func newApplication(status ApplicationStatus) *TutorApplication {
	return &TutorApplication{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Status: status,
	}
}

func TestBeginReviewOnlyFromPending(t *testing.T) {
	tests := []struct {
		from    ApplicationStatus
		wantErr bool
	}{
		{ApplicationPending, false},
		{ApplicationUnderReview, true},
		{ApplicationApproved, true},
		{ApplicationRejected, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			app := newApplication(tt.from)
			err := app.BeginReview()
			if tt.wantErr {
				var invalid *InvalidTransitionError
				if !errors.As(err, &invalid) {
					t.Fatalf("got %v, want InvalidTransitionError", err)
				}
				if app.Status != tt.from {
					t.Fatalf("rejected review mutated status to %s", app.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("begin review from pending: %v", err)
			}
			if app.Status != ApplicationUnderReview {
				t.Fatalf("status %s, want under_review", app.Status)
			}
		})
	}
}

func TestDecisionFromOpenStatuses(t *testing.T) {
	for _, from := range []ApplicationStatus{ApplicationPending, ApplicationUnderReview} {
		app := newApplication(from)
		if err := app.Approve(); err != nil {
			t.Fatalf("approve from %s: %v", from, err)
		}
		if app.Status != ApplicationApproved {
			t.Fatalf("status %s, want approved", app.Status)
		}

		app = newApplication(from)
		if err := app.Reject(); err != nil {
			t.Fatalf("reject from %s: %v", from, err)
		}
		if app.Status != ApplicationRejected {
			t.Fatalf("status %s, want rejected", app.Status)
		}
	}
}

func TestDecisionsAreFinal(t *testing.T) {
	for _, terminal := range []ApplicationStatus{ApplicationApproved, ApplicationRejected} {
		app := newApplication(terminal)
		if !app.Decided() {
			t.Fatalf("%s should be decided", terminal)
		}
		for name, attempt := range map[string]func() error{
			"approve": app.Approve,
			"reject":  app.Reject,
		} {
			err := attempt()
			var invalid *InvalidTransitionError
			if !errors.As(err, &invalid) {
				t.Fatalf("%s on %s: got %v, want InvalidTransitionError", name, terminal, err)
			}
			if app.Status != terminal {
				t.Fatalf("%s on %s mutated status to %s", name, terminal, app.Status)
			}
		}
	}
}
