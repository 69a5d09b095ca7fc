package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a project, item or precedent was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input or an edit that cannot apply
	ValidationError struct {
		Message string
	}

	// DependencyError indicates an external collaborator failed
	// (completion service, place lookup, link check).
	DependencyError struct {
		Message string
	}

	// PersistenceError indicates the storage engine failed unexpectedly
	PersistenceError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *DependencyError) Error() string   { return e.Message }
func (e *PersistenceError) Error() string  { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *DependencyError) StatusCode() int   { return http.StatusBadGateway }
func (e *PersistenceError) StatusCode() int  { return http.StatusInternalServerError }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Is implementations so typed errors match their sentinels with errors.Is()
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *DependencyError) Is(target error) bool   { return target == ErrDependency }
func (e *PersistenceError) Is(target error) bool  { return target == ErrPersistence }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrDependency   = errors.New("dependency failed")
	ErrPersistence  = errors.New("persistence failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (itinerary, meal_plan)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ErrorKind is the discriminant carried alongside a failure message so callers
// can tell "nothing was found" from "the input was invalid" from "a dependency failed".
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindValidation   ErrorKind = "validation"
	KindDependency   ErrorKind = "dependency"
	KindPersistence  ErrorKind = "persistence"
	KindConflict     ErrorKind = "conflict"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindUnknown      ErrorKind = "unknown"
)

// KindOf classifies err. Wrapped and joined errors are inspected with errors.Is,
// so the first matching kind in the order below wins.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDependency):
		return KindDependency
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	default:
		return KindUnknown
	}
}

// NewNotFound returns a NotFoundError with the given message.
func NewNotFound(msg string) error { return &NotFoundError{Message: msg} }

// NewValidation returns a ValidationError with the given message.
func NewValidation(msg string) error { return &ValidationError{Message: msg} }

// NewDependency returns a DependencyError with the given message.
func NewDependency(msg string) error { return &DependencyError{Message: msg} }

// NewPersistence returns a PersistenceError with the given message.
func NewPersistence(msg string) error { return &PersistenceError{Message: msg} }
