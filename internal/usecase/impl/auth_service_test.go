package impl

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	domainerrors "authcore/internal/domain/errors"
	"authcore/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAuthService_RegisterThenAuthenticate(t *testing.T) {
	tests := []struct {
		email    string
		password string
		name     string
	}{
		{email: "graphacademy@neo4j.com", password: "letmein123", name: "Graph Academy"},
		{email: "Mixed.Case@Example.COM", password: "correct horse battery staple", name: "Mixed"},
		{email: "unicode@example.com", password: "pässwörd-üñí", name: "Zoë"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			fx := newTestAuthService(t)
			ctx := context.Background()

			registered, err := fx.service.Register(ctx, &usecase.RegisterInput{
				Email:    tt.email,
				Password: tt.password,
				Name:     tt.name,
			})
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, registered.UserID)
			assert.Equal(t, strings.ToLower(tt.email), registered.Email)
			assert.Equal(t, tt.name, registered.Name)
			assert.NotEmpty(t, registered.Token)

			authenticated, err := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{
				Email:    tt.email,
				Password: tt.password,
			})
			require.NoError(t, err)
			assert.Equal(t, registered.UserID, authenticated.UserID)
			assert.Equal(t, registered.Email, authenticated.Email)
			assert.Equal(t, registered.Name, authenticated.Name)

			claims, err := fx.service.ValidateToken(ctx, authenticated.Token)
			require.NoError(t, err)
			assert.Equal(t, registered.UserID, claims.UserID)
			assert.Equal(t, registered.UserID.String(), claims.Subject)
			assert.Equal(t, registered.Email, claims.Email)
			assert.Equal(t, registered.Name, claims.Name)
		})
	}
}

func TestAuthService_RegisterStoresHashNotPlaintext(t *testing.T) {
	fx := newTestAuthService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "hash@example.com", Password: "plaintext-secret", Name: "Hash"})
	require.NoError(t, err)

	stored, err := fx.repo.FindByEmail(ctx, "hash@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "plaintext-secret", stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "plaintext-secret")
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	fx := newTestAuthService(t)
	ctx := context.Background()

	first, err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "dup@example.com", Password: "first-password", Name: "First"})
	require.NoError(t, err)

	second, err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "DUP@example.com", Password: "second-password", Name: "Second"})
	assert.Nil(t, second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.False(t, domainerrors.IsInfrastructure(err))

	var verr *domainerrors.ValidationError
	require.True(t, errors.As(err, &verr))
	_, ok := verr.Field("email")
	assert.True(t, ok)

	stored, err := fx.repo.FindByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.UserID, stored.ID)
	assert.Equal(t, "First", stored.Name)

	_, err = fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Email: "dup@example.com", Password: "first-password"})
	require.NoError(t, err)

	_, err = fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Email: "dup@example.com", Password: "second-password"})
	assert.Equal(t, domainerrors.ErrInvalidCredentials, err)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		input  usecase.RegisterInput
		fields []string
	}{
		{
			name:   "invalid email",
			input:  usecase.RegisterInput{Email: "not-an-email", Password: "long-enough", Name: "Bad"},
			fields: []string{"email"},
		},
		{
			name:   "empty name",
			input:  usecase.RegisterInput{Email: "ok@example.com", Password: "long-enough", Name: "   "},
			fields: []string{"name"},
		},
		{
			name:   "short password",
			input:  usecase.RegisterInput{Email: "ok@example.com", Password: "short", Name: "Short"},
			fields: []string{"password"},
		},
		{
			name:   "empty password",
			input:  usecase.RegisterInput{Email: "ok@example.com", Password: "", Name: "Empty"},
			fields: []string{"password"},
		},
		{
			name:   "oversized password",
			input:  usecase.RegisterInput{Email: "ok@example.com", Password: strings.Repeat("p", 73), Name: "Long"},
			fields: []string{"password"},
		},
		{
			name:   "everything wrong",
			input:  usecase.RegisterInput{Email: "", Password: "", Name: ""},
			fields: []string{"email", "name", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newTestAuthService(t)
			ctx := context.Background()

			input := tt.input
			result, err := fx.service.Register(ctx, &input)
			assert.Nil(t, result)

			var verr *domainerrors.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Len(t, verr.Fields(), len(tt.fields))
			for _, field := range tt.fields {
				_, ok := verr.Field(field)
				assert.True(t, ok, field)
			}

			if input.Email != "" {
				_, findErr := fx.repo.FindByEmail(ctx, input.Email)
				assert.Error(t, findErr, "no user must be created")
			}
		})
	}
}

func TestAuthService_AuthenticateFailuresAreIndistinguishable(t *testing.T) {
	fx := newTestAuthService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "known@example.com", Password: "right-password", Name: "Known"})
	require.NoError(t, err)

	wrongPassword, errWrong := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Email: "known@example.com", Password: "wrong-password"})
	unknownEmail, errUnknown := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Email: "unknown@example.com", Password: "right-password"})
	emptyPassword, errEmpty := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Email: "known@example.com", Password: ""})

	assert.Nil(t, wrongPassword)
	assert.Nil(t, unknownEmail)
	assert.Nil(t, emptyPassword)

	assert.Equal(t, domainerrors.ErrInvalidCredentials, errWrong)
	assert.Equal(t, errWrong, errUnknown)
	assert.Equal(t, errWrong, errEmpty)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
}

func TestAuthService_ValidateTokenRejectsGarbage(t *testing.T) {
	fx := newTestAuthService(t)

	claims, err := fx.service.ValidateToken(context.Background(), "garbage")
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
	assert.Equal(t, domainerrors.ErrInvalidToken.Error(), err.Error())
}

func TestAuthService_ConcurrentRegisterSameEmail(t *testing.T) {
	fx := newTestAuthService(t)
	ctx := context.Background()

	const callers = 32
	var (
		wg          sync.WaitGroup
		successes   atomic.Int32
		validations atomic.Int32
		others      atomic.Int32
	)

	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			_, err := fx.service.Register(ctx, &usecase.RegisterInput{
				Email:    "race@example.com",
				Password: "race-password",
				Name:     fmt.Sprintf("Racer %d", i),
			})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, domainerrors.ErrValidationFailed):
				validations.Add(1)
			default:
				others.Add(1)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(callers-1), validations.Load())
	assert.Zero(t, others.Load())
}

func TestAuthService_ConcurrentAuthenticate(t *testing.T) {
	fx := newTestAuthService(t)
	ctx := context.Background()

	registered, err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "busy@example.com", Password: "busy-password", Name: "Busy"})
	require.NoError(t, err)

	const callers = 16
	var wg sync.WaitGroup
	results := make([]*usecase.AuthResult, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Email: "busy@example.com", Password: "busy-password"})
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, registered.UserID, results[i].UserID)
	}
}
