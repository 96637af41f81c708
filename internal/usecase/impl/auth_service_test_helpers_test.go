package impl

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"authcore/config"
	"authcore/internal/domain/repository"
	"authcore/internal/domain/service"
	"authcore/internal/infra/auth"
	"authcore/internal/infra/persistence/memory"
	"authcore/internal/usecase"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testTokenSecret = "usecase_test_token_secret_key_long_enough"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Token: &config.TokenConfig{
			Secret:    testTokenSecret,
			Algorithm: "HS256",
			TTL:       time.Hour,
		},
		Auth: &config.AuthConfig{
			Hasher:     config.HasherBcrypt,
			BcryptCost: bcrypt.MinCost,
		},
		PasswordPolicy: &config.PasswordPolicyConfig{
			MinLength: 8,
			MaxLength: 72,
		},
	}
}

type testAuthFixture struct {
	service usecase.AuthUsecase
	repo    repository.UserRepository
	tokens  service.TokenService
}

// newTestAuthService wires the service with the in-memory store, a cheap bcrypt
// cost and a fixed clock.
func newTestAuthService(t *testing.T) *testAuthFixture {
	t.Helper()

	cfg := newTestConfig()
	clock := service.ClockFunc(func() time.Time { return time.Unix(1_700_000_000, 0) })

	hasher, err := auth.NewPasswordHasher(cfg)
	require.NoError(t, err)

	tokens, err := auth.NewJWTService(cfg, clock, newDiscardLogger())
	require.NoError(t, err)

	repo := memory.NewUserRepository()

	return &testAuthFixture{
		service: NewAuthService(AuthServiceParams{
			UserRepo:     repo,
			Hasher:       hasher,
			TokenService: tokens,
			Config:       cfg,
			Logger:       newDiscardLogger(),
		}),
		repo:   repo,
		tokens: tokens,
	}
}
