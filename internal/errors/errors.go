// Package errors provides a lightweight structured error type (Error)
// for category-based classification in the CLI and watch mode.
package errors

import (
	"fmt"
)

// Category classifies an error for reporting and metrics.
type Category string

const (
	// User-facing configuration and input errors
	CategoryConfig   Category = "config"
	CategoryManifest Category = "manifest"

	// External system integration errors
	CategoryGit Category = "git"
	CategoryIO  Category = "io"

	// Rendering and migration errors
	CategoryRender  Category = "render"
	CategoryMigrate Category = "migrate"

	// Runtime and infrastructure errors
	CategoryInternal Category = "internal"
)

// Severity indicates how critical an error is.
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // Stops execution
	SeverityError   Severity = "error"   // Error, but not fatal
	SeverityWarning Severity = "warning" // Continues with degraded functionality
)

// Error is a structured error with category, severity, and context.
type Error struct {
	Category Category      `json:"category"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for Error.
type ContextFields map[string]any

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new Error.
func New(category Category, severity Severity, message string) *Error {
	return &Error{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new Error that wraps an existing error.
func Wrap(err error, category Category, severity Severity, message string) *Error {
	return &Error{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category Category) bool {
	if e, ok := err.(*Error); ok {
		return e.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns
// CategoryInternal if not an Error.
func GetCategory(err error) Category {
	if e, ok := err.(*Error); ok {
		return e.Category
	}
	return CategoryInternal
}
