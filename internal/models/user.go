package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a row in the users table. The Password field always holds
// the bcrypt hash, never the plaintext, and is hidden from JSON responses.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
