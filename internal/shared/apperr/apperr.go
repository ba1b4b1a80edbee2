package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error for callers that map errors to responses.
type Kind string

const (
	KindValidation Kind = "validation"
	KindEmail      Kind = "email"
	KindUnexpected Kind = "unexpected"
)

// FieldIssue describes a single field-level validation problem.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// Error carries a kind, a user-facing message and optional field details.
type Error struct {
	Kind    Kind
	Message string
	Details []FieldIssue
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a user-correctable error.
func Validation(message string, details []FieldIssue) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// Email wraps a failure reported by the email delivery capability.
func Email(message string, cause error) *Error {
	return &Error{Kind: KindEmail, Message: message, Err: cause}
}

// Unexpected wraps anything that was not anticipated.
func Unexpected(cause error) *Error {
	return &Error{Kind: KindUnexpected, Message: "unexpected error", Err: cause}
}

// KindOf returns the kind of err, or KindUnexpected when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// DetailsOf returns the field issues attached to err, if any.
func DetailsOf(err error) []FieldIssue {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}
