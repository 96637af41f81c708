package errors

// TokenFailure names the check a token failed. It is kept for logs and tests
// and never rendered to the caller.
type TokenFailure string

const (
	TokenMalformed         TokenFailure = "malformed"
	TokenSignatureInvalid  TokenFailure = "signature"
	TokenAlgorithmMismatch TokenFailure = "algorithm"
	TokenExpired           TokenFailure = "expired"
	TokenNotYetValid       TokenFailure = "not_yet_valid"
	TokenClaimsInvalid     TokenFailure = "claims"
)

// TokenError is returned for every rejected token. Its message and HTTP shape
// are those of ErrInvalidToken regardless of the failure reason.
type TokenError struct {
	reason TokenFailure
	cause  error
}

// NewTokenError creates a TokenError for the given reason.
func NewTokenError(reason TokenFailure, cause error) *TokenError {
	return &TokenError{reason: reason, cause: cause}
}

// Error implements the error interface
func (e *TokenError) Error() string {
	return ErrInvalidToken.Error()
}

// Unwrap exposes the library error for diagnostics.
func (e *TokenError) Unwrap() error {
	return e.cause
}

// Is makes every TokenError match ErrInvalidToken.
func (e *TokenError) Is(target error) bool {
	return target == ErrInvalidToken
}

// Reason returns the internal failure reason.
func (e *TokenError) Reason() TokenFailure {
	return e.reason
}

func (e *TokenError) HTTPCode() int     { return ErrInvalidToken.HTTPCode() }
func (e *TokenError) ErrorCode() string { return ErrInvalidToken.ErrorCode() }
func (e *TokenError) Message() string   { return ErrInvalidToken.Message() }
func (e *TokenError) Details() any      { return nil }
