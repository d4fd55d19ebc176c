package models

import "time"

// User is a registered account. Accounts exist so that computed splits
// can be filed into per-user history; split participants themselves stay
// plain names and need no account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the login identifier (unique).
	Email string

	// Name is the display name.
	Name string

	// PasswordHash is the bcrypt hash of the password. Never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser builds a User with the creation time set. The ID is filled in
// by the store on insert.
func NewUser(email, name, passwordHash string) *User {
	return &User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
