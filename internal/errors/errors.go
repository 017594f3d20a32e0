// Package errors provides a lightweight structured error type (StyleExtError)
// for category-based classification of configuration, mutation and lifecycle
// failures, shared by the plugin and the CLI.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of an error for classification.
type ErrorCategory string

const (
	// Raised while constructing the plugin, before any build work starts.
	CategoryConfig ErrorCategory = "config"

	// Per-build errors attached to the compilation error log.
	CategoryMutation  ErrorCategory = "mutation"
	CategoryLifecycle ErrorCategory = "lifecycle"
	CategoryDeletion  ErrorCategory = "deletion"

	// Host and CLI side.
	CategoryInput    ErrorCategory = "input"
	CategoryOutput   ErrorCategory = "output"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// StyleExtError is a structured error with category, severity and context
type StyleExtError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for StyleExtError
type ContextFields map[string]any

// Error implements the error interface
func (e *StyleExtError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *StyleExtError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *StyleExtError) WithContext(key string, value any) *StyleExtError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithSeverity overrides the severity of the error.
func (e *StyleExtError) WithSeverity(severity ErrorSeverity) *StyleExtError {
	e.Severity = severity
	return e
}

// New creates a new StyleExtError
func New(category ErrorCategory, severity ErrorSeverity, message string) *StyleExtError {
	return &StyleExtError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new StyleExtError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *StyleExtError {
	return &StyleExtError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As finds the first StyleExtError in err's chain.
func As(err error) (*StyleExtError, bool) {
	var se *StyleExtError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if se, ok := As(err); ok {
		return se.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a StyleExtError
func GetCategory(err error) ErrorCategory {
	if se, ok := As(err); ok {
		return se.Category
	}
	return CategoryInternal
}
