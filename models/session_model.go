package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCancelled SessionStatus = "cancelled"
	SessionCompleted SessionStatus = "completed"
)

// Session is a tutoring appointment between one student and one tutor.
// It starts out scheduled; cancelled and completed are terminal.
type Session struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID uuid.UUID     `gorm:"not null" json:"student_id"`
	TutorID   uuid.UUID     `gorm:"not null" json:"tutor_id"`
	SubjectID uuid.UUID     `gorm:"not null" json:"subject_id"`
	DateTime  time.Time     `gorm:"not null" json:"date_time"`
	Price     float64       `gorm:"type:numeric(10,2);not null" json:"price"`
	Currency  string        `gorm:"size:3;default:'USD'" json:"currency"`
	Status    SessionStatus `gorm:"size:20;not null;default:'scheduled'" json:"status"`

	MeetingLink *string `gorm:"size:255" json:"meeting_link"`

	Student User    `gorm:"foreignkey:StudentID" json:"student,omitempty"`
	Tutor   User    `gorm:"foreignkey:TutorID" json:"tutor,omitempty"`
	Subject Subject `gorm:"foreignkey:SubjectID" json:"subject,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Session) Terminal() bool {
	return s.Status == SessionCancelled || s.Status == SessionCompleted
}

func (s *Session) transition(to SessionStatus) error {
	if s.Status != SessionScheduled {
		return &InvalidTransitionError{Entity: "session", From: string(s.Status), To: string(to)}
	}
	s.Status = to
	return nil
}

// Accept confirms a scheduled session. The status stays scheduled, so
// a repeated accept is a no-op rather than an error.
func (s *Session) Accept() error {
	return s.transition(SessionScheduled)
}

// Decline cancels a scheduled session.
func (s *Session) Decline() error {
	return s.transition(SessionCancelled)
}

// Cancel is the admin-side cancellation. Same rule as Decline.
func (s *Session) Cancel() error {
	return s.transition(SessionCancelled)
}

// Complete marks an elapsed scheduled session as completed. A session
// whose start time has not passed yet cannot be completed.
func (s *Session) Complete(now time.Time) error {
	if s.Status == SessionScheduled && s.DateTime.After(now) {
		return &InvalidTransitionError{Entity: "session", From: string(s.Status), To: string(SessionCompleted)}
	}
	return s.transition(SessionCompleted)
}

// Upcoming reports whether the session belongs in an "upcoming" listing.
func (s *Session) Upcoming(now time.Time) bool {
	return s.Status == SessionScheduled && !s.DateTime.Before(now)
}

// ScopeUpcoming filters to upcoming sessions, soonest first.
func ScopeUpcoming(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ? AND date_time >= ?", SessionScheduled, now).
			Order("date_time asc")
	}
}
