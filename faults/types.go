package faults

import "errors"

type ErrorCategory string

const (
	// ValidationError means desired state violates a declared field
	// constraint. Raised before any remote call is made.
	ValidationError ErrorCategory = "ValidationError"

	// ReferenceError means a cross-reference target is missing remotely.
	// Fails the dependent resource and anything that references it.
	ReferenceError ErrorCategory = "ReferenceError"

	// RemoteOperationError means a single create/update/delete call failed.
	// Recorded per record; siblings keep processing.
	RemoteOperationError ErrorCategory = "RemoteOperationError"

	// ConnectivityError means the remote instance is unreachable. Fatal for
	// the whole run.
	ConnectivityError ErrorCategory = "ConnectivityError"

	NotFoundError ErrorCategory = "NotFoundError"
	AuthError     ErrorCategory = "AuthError"
	InternalError ErrorCategory = "InternalError"
)

type TypedError struct {
	Category ErrorCategory
	Message  string
	Cause    error
}

func (e *TypedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Category)
}

func (e *TypedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewTypedError(category ErrorCategory, message string, cause error) *TypedError {
	return &TypedError{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}

func IsCategory(err error, category ErrorCategory) bool {
	if err == nil {
		return false
	}

	var typedErr *TypedError
	if !errors.As(err, &typedErr) {
		return false
	}
	return typedErr.Category == category
}

// Category reports the error's category, or InternalError for untyped errors.
func Category(err error) ErrorCategory {
	var typedErr *TypedError
	if errors.As(err, &typedErr) {
		return typedErr.Category
	}
	return InternalError
}
