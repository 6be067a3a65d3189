package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an administrative identity. The secret is stored as a bcrypt
// hash, never plaintext.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
