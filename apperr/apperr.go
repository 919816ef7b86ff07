// Package apperr defines the domain error taxonomy. Handlers convert
// these into HTTP responses exactly once, at the API boundary.
package apperr

import "fmt"

// Kind classifies a domain error.
type Kind int

const (
	KindValidation Kind = iota
	KindAuthentication
	KindForbidden
	KindNotFound
	KindInvalidCode
	KindExpiredCode
)

// Error is a domain error. Fields carries field-keyed validation
// messages for KindValidation errors.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	// ErrInvalidCode is returned when no redeemable login code matches,
	// including when a concurrent verification won the redemption.
	ErrInvalidCode = &Error{Kind: KindInvalidCode, Message: "invalid verification code"}

	// ErrExpiredCode is returned when the matched login code is older
	// than the validity window.
	ErrExpiredCode = &Error{Kind: KindExpiredCode, Message: "verification code has expired"}
)

// Validation returns a validation error with a single field message.
func Validation(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
		Fields:  map[string][]string{field: {message}},
	}
}

// ValidationFields returns a validation error carrying several
// field-keyed messages.
func ValidationFields(message string, fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// AuthenticationFailed returns a 401-class credentials error.
func AuthenticationFailed(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// Forbidden returns a 403-class authorization error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound returns a 404-class error for a missing entity.
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", entity)}
}
