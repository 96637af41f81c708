// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"time"

	"authcore/internal/delivery/api/middleware"
	"authcore/internal/delivery/api/response"
	"authcore/internal/domain/service"
	"authcore/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const tokenTypeBearer = "Bearer"

// AuthResponse is the body returned by register and login.
type AuthResponse struct {
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresIn int64     `json:"expiresIn"`
}

// MeResponse is the identity carried by the caller's token.
type MeResponse struct {
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	uc  usecase.AuthUsecase
	ttl time.Duration
}

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	Usecase      usecase.AuthUsecase
	TokenService service.TokenService
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		uc:  params.Usecase,
		ttl: params.TokenService.TTL(),
	}
}

// Register handles the user registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, h.toAuthResponse(output))
}

// Login handles the login request. Input is not validated here so that every
// rejected login is answered with the same credential error.
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.AuthenticateInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	output, err := h.uc.Authenticate(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, h.toAuthResponse(output))
}

// Me returns the identity of the authenticated caller.
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
	}

	me := MeResponse{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
	}
	if claims.ExpiresAt != nil {
		me.ExpiresAt = claims.ExpiresAt.UTC()
	}

	return response.Success(c, http.StatusOK, me)
}

func (h *AuthHandler) toAuthResponse(output *usecase.AuthResult) AuthResponse {
	return AuthResponse{
		UserID:    output.UserID,
		Email:     output.Email,
		Name:      output.Name,
		Token:     output.Token,
		TokenType: tokenTypeBearer,
		ExpiresIn: int64(h.ttl / time.Second),
	}
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
