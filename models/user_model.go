package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTutor, RoleAdmin:
		return true
	}
	return false
}

// User is the profile row backing an identity. Role is assigned at
// registration and never changes afterwards.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email       string    `gorm:"size:255;not null;unique" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	Role        Role      `gorm:"size:20;not null;default:'student'" json:"role"`
	ProfileData JSONMap   `gorm:"type:jsonb" json:"profile_data"`

	EmailVerified               bool       `gorm:"default:false" json:"email_verified"`
	VerificationToken           *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordToken          *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`
	IsActive                    bool       `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName pulls a human name out of the profile data, falling back
// to the mailbox part of the email.
func (u *User) DisplayName() string {
	if first, ok := u.ProfileData["first_name"].(string); ok && first != "" {
		if last, ok := u.ProfileData["last_name"].(string); ok && last != "" {
			return first + " " + last
		}
		return first
	}
	for i, ch := range u.Email {
		if ch == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}
