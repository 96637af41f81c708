package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenSubject is the identity a token is issued for. It is a closed set of
// fields so nothing else (e.g. a password hash) can leak into a token.
type TokenSubject struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

// Claims defines the claim set carried by a session token.
// sub always equals userId.
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	jwt.RegisteredClaims
}

// Identity returns the identity part of the claim set.
func (c *Claims) Identity() TokenSubject {
	return TokenSubject{
		UserID: c.UserID,
		Email:  c.Email,
		Name:   c.Name,
	}
}

// TokenService defines the interface for issuing and validating signed session tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Issue stamps iat = nbf = now and exp = now + TTL on the subject and signs it.
	Issue(subject TokenSubject) (string, error)

	// Validate verifies signature, algorithm and validity window. Every failure is
	// returned as an error matching domainerrors.ErrInvalidToken.
	Validate(token string) (*Claims, error)

	// TTL returns the configured token lifetime.
	TTL() time.Duration
}
