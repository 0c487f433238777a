// Package errors provides the error taxonomy shared by the honor sync pipeline.
//
// Sentinels support errors.Is checks; the typed errors carry context and
// match their sentinel through an Is method.
package errors

import (
	"errors"
	"fmt"
)

// Aliases for the standard library helpers so callers need one import.
var (
	New    = errors.New
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

var (
	// ErrNotFound indicates that a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a malformed entry or argument.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransient marks a failure worth retrying.
	ErrTransient = errors.New("transient failure")

	// ErrInputUnavailable indicates the input collection could not be read at all.
	ErrInputUnavailable = errors.New("input unavailable")
)

// NotFoundError represents a missing record.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a rejected input field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// StoreError wraps a record store failure for one game. Transient is set by
// the store when the driver reports a condition worth retrying.
type StoreError struct {
	Op        string
	GameID    string
	Err       error
	Transient bool
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s for game %s: %v", e.Op, e.GameID, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StoreError) Is(target error) bool {
	return target == ErrTransient && e.Transient
}
