// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidDateRange = errors.New("invalid date range")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrAlreadyProcessed = errors.New("already processed")

	// Store errors
	ErrStoreFailure = errors.New("store failure")

	// ErrCacheMiss indicates the requested key is not in the cache.
	ErrCacheMiss = errors.New("cache miss")

	// Analysis errors
	ErrInsufficientData = errors.New("insufficient data")
	ErrDetectorFailed   = errors.New("detector failed")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "task", "workload", "burnout"
	Op      string // Operation that failed, e.g., "Create", "Detect"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Student domain errors
var (
	ErrStudentNotFound      = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrStudentAlreadyExists = NewDomainError("student", "Create", ErrAlreadyExists, "student already exists")
	ErrStudentNotActive     = NewDomainError("student", "CheckStatus", ErrInvalidState, "student is not active")
)

// Task domain errors
var (
	ErrTaskNotFound      = NewDomainError("task", "Find", ErrNotFound, "task not found")
	ErrInvalidTaskType   = NewDomainError("task", "Validate", ErrInvalidInput, "invalid task type")
	ErrInvalidEffort     = NewDomainError("task", "Validate", ErrValueOutOfRange, "estimated effort must be positive")
	ErrMissingDeadline   = NewDomainError("task", "Validate", ErrEmptyValue, "task deadline is required")
	ErrTaskNotOwned      = NewDomainError("task", "CheckOwner", ErrInvalidState, "task belongs to another student")
)

// Calendar domain errors
var (
	ErrEventNotFound     = NewDomainError("calendar", "Find", ErrNotFound, "calendar event not found")
	ErrInvalidEventDates = NewDomainError("calendar", "Validate", ErrInvalidDateRange, "event end date precedes start date")
	ErrInvalidDuration   = NewDomainError("calendar", "Validate", ErrValueOutOfRange, "event duration cannot be negative")
)

// Grade domain errors
var (
	ErrGradeNotFound   = NewDomainError("grade", "Find", ErrNotFound, "grade not found")
	ErrInvalidMarks    = NewDomainError("grade", "Validate", ErrValueOutOfRange, "marks exceed maximum marks")
	ErrInvalidMaxMarks = NewDomainError("grade", "Validate", ErrValueOutOfRange, "maximum marks must be positive")
)

// Workload domain errors
var (
	ErrScoreNotFound    = NewDomainError("workload", "Find", ErrNotFound, "workload score not found")
	ErrInvalidRange     = NewDomainError("workload", "Compute", ErrInvalidDateRange, "end date precedes start date")
)

// Signal domain errors
var (
	ErrSignalNotFound = NewDomainError("signal", "Find", ErrNotFound, "signal not found")
)
