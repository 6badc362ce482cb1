package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. HTTP handlers translate these
// into the matching OAuth2 error responses with errors.Is.
var (
	ErrInvalidClient           = errors.New("service: client authentication failed")
	ErrInvalidGrant            = errors.New("service: invalid grant")
	ErrInvalidScope            = errors.New("service: requested scope exceeds grant")
	ErrInvalidTarget           = errors.New("service: invalid target resource")
	ErrInvalidToken            = errors.New("service: invalid token")
	ErrTokenExpired            = errors.New("service: token expired")
	ErrInvalidRedirect         = errors.New("service: redirect uri not registered")
	ErrUnsupportedResponseType = errors.New("service: unsupported response type")
	ErrUnsupportedGrantType    = errors.New("service: unsupported grant type")
)

// ValidationError reports a malformed field in a registration or
// authorization request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
