package entity

import "strings"

// Credential pairs a login email with the hash of its password.
// PasswordHash is only ever produced by a PasswordHasher.
type Credential struct {
	Email        string
	PasswordHash string
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address so the
// storage uniqueness constraint cannot be bypassed with case variants.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
