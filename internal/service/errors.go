package service

import (
	"errors"
	"fmt"
)

// Common sentinel errors returned by services.
var (
	// ErrAlbumNotFound indicates that the album does not exist.
	ErrAlbumNotFound = errors.New("album not found")

	// ErrChallengeNotFound indicates that the challenge does not exist.
	ErrChallengeNotFound = errors.New("challenge not found")

	// ErrNotAlbumOwner indicates the acting user does not own the album.
	ErrNotAlbumOwner = errors.New("user does not own album")
)

// ServiceError wraps errors from a service with operation context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_album")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
// Known sentinel errors pass through unchanged so callers can match on them.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrAlbumNotFound) ||
		errors.Is(err, ErrChallengeNotFound) ||
		errors.Is(err, ErrNotAlbumOwner) {
		return err
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
