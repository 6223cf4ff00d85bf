package errors

import (
	"errors"
	"fmt"
)

// Common error types for the gateway
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrStoreClosed     = errors.New("session store closed")

	// OAuth errors
	ErrStateMismatch    = errors.New("state parameter does not match session state")
	ErrMissingCode      = errors.New("authorization code not provided")
	ErrProviderRejected = errors.New("provider rejected the token exchange")
	ErrMissingToken     = errors.New("no access token bound to session")
	ErrTokenInvalid     = errors.New("access token is no longer valid")

	// Dispatcher errors
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrMissingField         = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field value")
)

// Kind tags an error with the category surfaced to callers.
type Kind string

const (
	KindCSRF           Kind = "csrf"
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindPermission     Kind = "permission"
	KindRateLimited    Kind = "rate_limited"
	KindTransport      Kind = "transport"
)

// Error carries a Kind and, for validation failures, the offending field.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a tagged error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags cause with kind.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Validation reports a missing or malformed field.
func Validation(field string, cause error, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// FieldOf returns the field recorded on a validation error.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
