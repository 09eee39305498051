package models

import (
	"time"

	"github.com/google/uuid"
)

type Subject struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name     string    `gorm:"size:100;not null;unique" json:"name"`
	Category string    `gorm:"size:100" json:"category"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
