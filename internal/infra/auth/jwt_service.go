package auth

import (
	"log/slog"
	"time"

	"authcore/config"
	domainerrors "authcore/internal/domain/errors"
	"authcore/internal/domain/service"
	"authcore/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// minSecretBytes is the smallest HMAC key NewJWTService accepts.
const minSecretBytes = 32

var errAlgorithmMismatch = errors.New("token algorithm does not match the configured algorithm")

// jwtService is a concrete implementation of the TokenService interface using HMAC-signed JWTs.
type jwtService struct {
	secret []byte            // Signing key, never logged.
	method jwt.SigningMethod // The only algorithm issued and accepted.
	ttl    time.Duration     // Lifetime of issued tokens.
	issuer string            // Optional iss claim, enforced on validation when set.
	clock  service.Clock
	logger *slog.Logger
	parser *jwt.Parser
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config, clock service.Clock, logger *slog.Logger) (service.TokenService, error) {
	if cfg.Token == nil {
		return nil, errors.New("token configuration must be provided")
	}
	if len(cfg.Token.Secret) < minSecretBytes {
		return nil, errors.Errorf("token secret must be at least %d bytes", minSecretBytes)
	}
	if cfg.Token.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	method, ok := jwt.GetSigningMethod(cfg.Token.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, errors.Errorf("unsupported token algorithm %q", cfg.Token.Algorithm)
	}

	if clock == nil {
		clock = service.SystemClock()
	}

	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(clock.Now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if cfg.Token.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Token.Issuer))
	}

	return &jwtService{
		secret: []byte(cfg.Token.Secret),
		method: method,
		ttl:    cfg.Token.TTL,
		issuer: cfg.Token.Issuer,
		clock:  clock,
		logger: logger,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Issue signs a claim set for the subject valid from now until now + TTL.
func (s *jwtService) Issue(subject service.TokenSubject) (string, error) {
	if subject.UserID == uuid.Nil {
		return "", errors.Wrap(domainerrors.ErrTokenIssueFailed, "subject has no user id")
	}

	now := s.clock.Now()
	claims := &service.Claims{
		UserID: subject.UserID,
		Email:  subject.Email,
		Name:   subject.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.UserID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	return signed, nil
}

// Validate parses the token and checks its signature, algorithm and validity window.
func (s *jwtService) Validate(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}

	_, err := s.parser.ParseWithClaims(tokenString, claims, s.keyFunc)
	if err != nil {
		return nil, s.reject(classifyTokenError(err), err)
	}

	if claims.UserID == uuid.Nil || claims.Subject != claims.UserID.String() {
		return nil, s.reject(domainerrors.TokenClaimsInvalid, errors.New("subject does not match userId"))
	}

	return claims, nil
}

// TTL returns the configured token lifetime.
func (s *jwtService) TTL() time.Duration {
	return s.ttl
}

// keyFunc pins the algorithm to the configured one, so "none" and asymmetric
// algorithms never reach signature verification.
func (s *jwtService) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok || token.Method.Alg() != s.method.Alg() {
		return nil, errAlgorithmMismatch
	}

	return s.secret, nil
}

func (s *jwtService) reject(reason domainerrors.TokenFailure, cause error) error {
	if s.logger != nil {
		s.logger.Debug("Token rejected", slog.String("reason", string(reason)))
	}

	return domainerrors.NewTokenError(reason, cause)
}

func classifyTokenError(err error) domainerrors.TokenFailure {
	switch {
	case errors.IsAny(err, errAlgorithmMismatch, jwt.ErrTokenUnverifiable):
		return domainerrors.TokenAlgorithmMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domainerrors.TokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domainerrors.TokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return domainerrors.TokenExpired
	case errors.IsAny(err, jwt.ErrTokenNotValidYet, jwt.ErrTokenUsedBeforeIssued):
		return domainerrors.TokenNotYetValid
	default:
		return domainerrors.TokenClaimsInvalid
	}
}
