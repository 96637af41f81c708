// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"authcore/internal/domain/service"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,max=255"`
}

// AuthenticateInput defines the data required for a user to log in.
type AuthenticateInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// AuthResult is returned by a successful registration or login. It never carries
// credential material.
type AuthResult struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Token  string    `json:"token"`
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Register creates the user and issues a token. A taken email yields a
	// *domainerrors.ValidationError on the "email" field.
	Register(ctx context.Context, input *RegisterInput) (*AuthResult, error)

	// Authenticate verifies credentials and issues a token. Every rejected login
	// returns domainerrors.ErrInvalidCredentials.
	Authenticate(ctx context.Context, input *AuthenticateInput) (*AuthResult, error)

	// ValidateToken returns the claims of a valid token, or an error matching
	// domainerrors.ErrInvalidToken.
	ValidateToken(ctx context.Context, token string) (*service.Claims, error)
}
