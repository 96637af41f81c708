// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"authcore/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when no user matches a lookup. It is an expected
// outcome, distinct from storage failures.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the storage operations the authentication core consumes.
// Implementations must be safe for concurrent use.
type UserRepository interface {
	// Create persists a new user and fills in its ID and timestamps.
	// Email uniqueness must be enforced atomically by the store itself: when the email
	// is taken, Create returns an error matching domainerrors.ErrEmailAlreadyExists and
	// nothing is written.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves a user by normalized email, or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID retrieves a user by ID, or ErrUserNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}
