// Package memory provides an in-process user store for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"authcore/internal/domain/entity"
	domainerrors "authcore/internal/domain/errors"
	"authcore/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// userRepository keeps users in maps guarded by a single mutex. The email check and
// the insert happen under the same lock, so duplicate registrations cannot interleave.
type userRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*entity.User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		byID:    make(map[uuid.UUID]*entity.User),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

// Create stores a copy of the user.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(domainerrors.ErrStorageUnavailable, err.Error())
	}

	email := entity.NormalizeEmail(user.Email)

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.byEmail[email]; exists {
		return errors.WithStack(domainerrors.ErrEmailAlreadyExists)
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if _, exists := repo.byID[user.ID]; exists {
		return domainerrors.NewDatabaseExecuteError(errors.New("duplicate primary key"), "failed to create user")
	}

	now := repo.now()
	user.Email = email
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	repo.byID[stored.ID] = &stored
	repo.byEmail[email] = stored.ID

	return nil
}

// FindByEmail returns a copy of the user with the normalized email.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(domainerrors.ErrStorageUnavailable, err.Error())
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	id, ok := repo.byEmail[entity.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	found := *repo.byID[id]

	return &found, nil
}

// FindByID returns a copy of the user with the given ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(domainerrors.ErrStorageUnavailable, err.Error())
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	user, ok := repo.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	found := *user

	return &found, nil
}
