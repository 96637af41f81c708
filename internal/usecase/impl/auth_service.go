// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"authcore/config"
	deliverycontext "authcore/internal/delivery/context"
	"authcore/internal/domain/entity"
	domainerrors "authcore/internal/domain/errors"
	"authcore/internal/domain/repository"
	"authcore/internal/domain/service"
	"authcore/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// dummyPassword is hashed once and verified against when the email is unknown,
// so both rejection paths pay for a hash comparison.
const dummyPassword = "authcore-timing-equalizer"

const maxNameLength = 255

// authService implements the AuthUsecase interface. It holds no per-request
// state and is safe for concurrent use.
type authService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	validate     *validator.Validate
	minPassword  int
	maxPassword  int
	logger       *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	minPassword, maxPassword := 0, 0
	if params.Config != nil && params.Config.PasswordPolicy != nil {
		minPassword = params.Config.PasswordPolicy.MinLength
		maxPassword = params.Config.PasswordPolicy.MaxLength
	}

	return &authService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		minPassword:  minPassword,
		maxPassword:  maxPassword,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register hashes the password, creates the user and issues a token for it.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthResult, error) {
	email := entity.NormalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)

	if verr := srv.validateRegistration(email, input.Password, name); verr != nil {
		srv.log(ctx).Debug("Registration input rejected", slog.Any("fields", verr.Fields()))

		return nil, verr
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	switch {
	case errors.Is(err, domainerrors.ErrEmptyPassword):
		return nil, domainerrors.NewValidationError("password", domainerrors.ErrEmptyPassword.Message())
	case errors.Is(err, domainerrors.ErrPasswordTooLong):
		return nil, domainerrors.NewValidationError("password", domainerrors.ErrPasswordTooLong.Message())
	case err != nil:
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	user := entity.NewUser(entity.Credential{Email: email, PasswordHash: hashedPassword}, name)
	if err := srv.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrEmailAlreadyExists) {
			srv.log(ctx).Info("Registration rejected: email already registered")

			return nil, domainerrors.NewValidationError("email", domainerrors.ErrEmailAlreadyExists.Message())
		}

		srv.log(ctx).Error("Failed to create user during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	result, err := srv.issue(user)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token after registration", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("User registered", slog.Any("userID", user.ID))

	return result, nil
}

// Authenticate looks the user up by email and verifies the password. Unknown email
// and wrong password return the same error after a comparable amount of work.
func (srv *authService) Authenticate(ctx context.Context, input *usecase.AuthenticateInput) (*usecase.AuthResult, error) {
	email := entity.NormalizeEmail(input.Email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.hasher.Check(input.Password, srv.getDummyHash())
		srv.log(ctx).Info("Authentication failed")

		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		srv.log(ctx).Error("Failed to look up user during authentication", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find user during authentication")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Info("Authentication failed")

		return nil, domainerrors.ErrInvalidCredentials
	}

	result, err := srv.issue(user)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token after authentication", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("User authenticated", slog.Any("userID", user.ID))

	return result, nil
}

// ValidateToken checks a session token and returns its claims.
func (srv *authService) ValidateToken(ctx context.Context, token string) (*service.Claims, error) {
	claims, err := srv.tokenService.Validate(token)
	if err != nil {
		var tokenErr *domainerrors.TokenError
		if errors.As(err, &tokenErr) {
			srv.log(ctx).Debug("Token validation failed", slog.String("reason", string(tokenErr.Reason())))
		}

		return nil, err
	}

	return claims, nil
}

// issue builds the claim set from the stored record, never from caller input.
func (srv *authService) issue(user *entity.User) (*usecase.AuthResult, error) {
	public := user.Public()

	token, err := srv.tokenService.Issue(service.TokenSubject{
		UserID: public.ID,
		Email:  public.Email,
		Name:   public.Name,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token")
	}

	return &usecase.AuthResult{
		UserID: public.ID,
		Email:  public.Email,
		Name:   public.Name,
		Token:  token,
	}, nil
}

func (srv *authService) validateRegistration(email, password, name string) *domainerrors.ValidationError {
	var verr *domainerrors.ValidationError
	add := func(field, reason string) {
		if verr == nil {
			verr = domainerrors.NewValidationError(field, reason)

			return
		}
		verr = verr.With(field, reason)
	}

	if err := srv.validate.Var(email, "required,email,max=320"); err != nil {
		add("email", "must be a valid email address")
	}

	switch {
	case name == "":
		add("name", "is required")
	case utf8.RuneCountInString(name) > maxNameLength:
		add("name", "must be at most "+strconv.Itoa(maxNameLength)+" characters")
	}

	passwordLen := utf8.RuneCountInString(password)
	switch {
	case password == "":
		add("password", "is required")
	case srv.minPassword > 0 && passwordLen < srv.minPassword:
		add("password", "must be at least "+strconv.Itoa(srv.minPassword)+" characters")
	case srv.maxPassword > 0 && passwordLen > srv.maxPassword:
		add("password", "must be at most "+strconv.Itoa(srv.maxPassword)+" characters")
	}

	return verr
}

func (srv *authService) getDummyHash() string {
	srv.dummyOnce.Do(func() {
		hash, err := srv.hasher.Hash(dummyPassword)
		if err != nil {
			if srv.logger != nil {
				srv.logger.Warn("Failed to prepare dummy password hash", slog.Any("error", err))
			}

			return
		}
		srv.dummyHash = hash
	})

	return srv.dummyHash
}
