package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationUnderReview ApplicationStatus = "under_review"
	ApplicationApproved    ApplicationStatus = "approved"
	ApplicationRejected    ApplicationStatus = "rejected"
)

// TutorApplication is the moderation record gating a tutor's
// eligibility to accept sessions. Only an admin moves its status.
type TutorApplication struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID         `gorm:"not null;unique" json:"user_id"`
	Status       ApplicationStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	Bio          *string           `gorm:"type:text" json:"bio"`
	HourlyRate   float64           `gorm:"type:numeric(10,2);default:0.00" json:"hourly_rate"`
	Currency     string            `gorm:"size:3;default:'USD'" json:"currency"`
	Availability JSONMap           `gorm:"type:jsonb" json:"availability"`
	DocumentURL  *string           `gorm:"size:255" json:"document_url"`

	Subjects []*Subject `gorm:"many2many:application_subjects;" json:"subjects"`
	User     User       `gorm:"foreignkey:UserID" json:"user"`

	SubmittedAt time.Time `json:"submitted_at"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (a *TutorApplication) Decided() bool {
	return a.Status == ApplicationApproved || a.Status == ApplicationRejected
}

// BeginReview marks a pending application as picked up by an admin.
func (a *TutorApplication) BeginReview() error {
	if a.Status != ApplicationPending {
		return &InvalidTransitionError{Entity: "application", From: string(a.Status), To: string(ApplicationUnderReview)}
	}
	a.Status = ApplicationUnderReview
	return nil
}

func (a *TutorApplication) Approve() error {
	return a.decide(ApplicationApproved)
}

func (a *TutorApplication) Reject() error {
	return a.decide(ApplicationRejected)
}

func (a *TutorApplication) decide(to ApplicationStatus) error {
	if a.Decided() {
		return &InvalidTransitionError{Entity: "application", From: string(a.Status), To: string(to)}
	}
	a.Status = to
	return nil
}
