package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a firm staff member. Attorneys carry a bar number; support
// staff do not.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	Name         string    `json:"name"`
	FirmName     *string   `json:"firm_name,omitempty"`
	BarNumber    *string   `json:"bar_number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
