// Package common defines shared constants and sentinel errors used across
// client and server layers of taskboard. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors. Use ValidationError to attach a message.
	ErrorValidation  = errors.New("validation error")
	ErrInvalidStatus = errors.New("invalid status")

	// Credential errors.
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenUserGone means the token verified but its user no longer exists.
	ErrTokenUserGone = errors.New("token user not found")

	// Feature switches.
	ErrAttachmentsDisabled = errors.New("attachments are not configured")
)

// ValidationError carries a user-facing message and matches ErrorValidation.
// Err optionally names a more specific sentinel such as ErrInvalidStatus.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrorValidation }

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError returns a *ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

// NotFoundError names the missing resource and matches ErrorNotFound.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrorNotFound }

// NewNotFoundError returns a *NotFoundError for the given resource name.
func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}
