// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the stored account record. It is created once at registration; the ID is
// immutable and Email is unique across all users.
type User struct {
	ID           uuid.UUID // Random (v4) identifier, never derived from the email.
	Email        string    // Normalized login identifier, unique in storage.
	Name         string    // The user's display name.
	PasswordHash string    // Encoded salted hash produced by a PasswordHasher; never the plaintext.
	CreatedAt    time.Time // Timestamp of when this user account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this user's data.
}

// NewUser builds a user from a credential and a display name. The ID is left
// zero so the repository assigns it on create.
func NewUser(cred Credential, name string) *User {
	return &User{
		Email:        cred.Email,
		Name:         name,
		PasswordHash: cred.PasswordHash,
	}
}

// Public returns the read-only projection handed to callers.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}

// PublicUser is the user projection without any credential material.
type PublicUser struct {
	ID    uuid.UUID `json:"userId"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}
