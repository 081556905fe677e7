// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrDatabaseCorrupted = errors.New("database corrupted")

	// Input errors. These mark a rejected submission, not a system failure.
	ErrEmptyText          = errors.New("empty submission text")
	ErrNoProjectDetected  = errors.New("no sector-worthy project detected")
	ErrMissingCoordinates = errors.New("missing coordinates")

	// Consistency errors.
	ErrClusterConflict = errors.New("conflicting nearby clusters")

	// Fund ledger errors.
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrSuspiciousAmount   = errors.New("amount exceeds market rate threshold")
	ErrUnknownProjectType = errors.New("unknown project type")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsInputError reports whether err marks a rejected request rather than a
// failure of the system itself.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyText) ||
		errors.Is(err, ErrNoProjectDetected) ||
		errors.Is(err, ErrMissingCoordinates) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrSuspiciousAmount)
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
