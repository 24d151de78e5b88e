// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered trainer account.
//
// Email is the login identifier and is UNIQUE in the database, compared
// exactly as stored (case-sensitive).
//
// WHY PasswordHash WITH json:"-"?
// The stored value is a bcrypt digest, never the plaintext password — but
// even the digest must never leave the server. The `json:"-"` tag tells
// encoding/json to skip the field entirely, so no handler can leak it by
// accident when encoding a User into a response.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"` // bcrypt digest, never serialized
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
