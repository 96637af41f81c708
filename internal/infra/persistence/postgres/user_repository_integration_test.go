//go:build integration

package postgres

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"authcore/internal/domain/entity"
	domainerrors "authcore/internal/domain/errors"
	"authcore/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupUserRepository(t *testing.T) repository.UserRepository {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("authcore_test"),
		tcpostgres.WithUsername("authcore"),
		tcpostgres.WithPassword("authcore"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(connStr), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(ctx, db))

	return NewUserRepository(db)
}

func TestUserRepository_Postgres(t *testing.T) {
	repo := setupUserRepository(t)
	ctx := context.Background()

	user := entity.NewUser(entity.Credential{Email: "Alice@Example.com", PasswordHash: "$2a$04$hash"}, "Alice")
	require.NoError(t, repo.Create(ctx, user))
	require.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())

	t.Run("find by email is case-insensitive", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "ALICE@example.com ")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "$2a$04$hash", found.PasswordHash)
	})

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", found.Name)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.True(t, errors.Is(err, repository.ErrUserNotFound))

		_, err = repo.FindByID(ctx, uuid.New())
		assert.True(t, errors.Is(err, repository.ErrUserNotFound))
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := entity.NewUser(entity.Credential{Email: "alice@EXAMPLE.com", PasswordHash: "$2a$04$other"}, "Mallory")
		err := repo.Create(ctx, dup)
		assert.True(t, errors.Is(err, domainerrors.ErrEmailAlreadyExists))

		found, err := repo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "Alice", found.Name)
	})
}

func TestUserRepository_PostgresConcurrentCreate(t *testing.T) {
	repo := setupUserRepository(t)
	ctx := context.Background()

	const attempts = 16
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			user := entity.NewUser(entity.Credential{Email: "race@example.com", PasswordHash: "$2a$04$hash"}, "Racer")
			err := repo.Create(ctx, user)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, domainerrors.ErrEmailAlreadyExists):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(attempts-1), conflicts.Load())
}
