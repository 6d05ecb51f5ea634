// Package errors provides standardized error handling patterns for the
// omero-rdf exporter. It includes error classification, standard error
// variables, and helper functions for consistent error wrapping across the
// system.
package errors

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of errors for handling purposes.
type ErrorClass int

const (
	// ErrorInvalid represents errors due to malformed input or configuration.
	ErrorInvalid ErrorClass = iota
	// ErrorNotFound represents lookups of objects absent on the server.
	ErrorNotFound
	// ErrorUnsupported represents programming-contract violations, such as
	// calling a buffering-only method on a streaming format.
	ErrorUnsupported
	// ErrorFatal represents unrecoverable errors that stop the export.
	ErrorFatal
)

// String returns the string representation of ErrorClass.
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorInvalid:
		return "invalid"
	case ErrorNotFound:
		return "not_found"
	case ErrorUnsupported:
		return "unsupported"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Exit statuses reported by the CLI. Not-found and unknown-target conditions
// carry distinct codes so callers can tell them apart.
const (
	StatusGeneral       = 1
	StatusInvalid       = 2
	StatusNotFound      = 110
	StatusUnknownTarget = 111
)

// Standard error variables for common conditions.
var (
	// Malformed-input errors
	ErrMissingID       = errors.New("encoded object is missing @id")
	ErrUnknownListItem = errors.New("unknown list item shape")
	ErrNoEncoder       = errors.New("no encoder for domain type")

	// Target resolution errors
	ErrNotFound      = errors.New("object not found")
	ErrUnknownTarget = errors.New("unknown target type")
	ErrInvalidTarget = errors.New("invalid target reference")

	// Format contract errors
	ErrUnsupportedOperation = errors.New("operation not supported by this format")

	// Handler registry errors
	ErrNoHandlers = errors.New("no annotation handlers registered")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingConfig = errors.New("missing required configuration")

	// User interaction errors
	ErrAborted = errors.New("aborted by user")
)

// ClassifiedError wraps an error with its classification.
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface.
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error.
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsInvalid checks whether an error stems from malformed input.
func IsInvalid(err error) bool {
	return classOf(err) == ErrorInvalid ||
		errors.Is(err, ErrMissingID) ||
		errors.Is(err, ErrUnknownListItem) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInvalidTarget)
}

// IsNotFound checks whether an error reports a missing server-side object.
func IsNotFound(err error) bool {
	return classOf(err) == ErrorNotFound || errors.Is(err, ErrNotFound)
}

// IsUnsupported checks whether an error reports a format-contract violation.
func IsUnsupported(err error) bool {
	return classOf(err) == ErrorUnsupported || errors.Is(err, ErrUnsupportedOperation)
}

func classOf(err error) ErrorClass {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class
	}
	return ErrorClass(-1)
}

// ExitStatus maps an error to the process exit status the CLI reports.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrUnknownTarget) {
		return StatusUnknownTarget
	}
	if IsNotFound(err) {
		return StatusNotFound
	}
	if IsInvalid(err) {
		return StatusInvalid
	}
	return StatusGeneral
}

// newClassified creates a new classified error.
// This is an internal helper - use the Wrap* functions instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapInvalid wraps an error as a malformed-input error with context.
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInvalid, wrappedErr, component, method, wrappedErr.Error())
}

// WrapNotFound wraps an error as a not-found error with context.
func WrapNotFound(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorNotFound, wrappedErr, component, method, wrappedErr.Error())
}

// WrapUnsupported wraps an error as an unsupported-operation error with context.
func WrapUnsupported(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorUnsupported, wrappedErr, component, method, wrappedErr.Error())
}

// WrapFatal wraps an error as fatal with context.
func WrapFatal(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorFatal, wrappedErr, component, method, wrappedErr.Error())
}

// Is reports whether any error in err's chain matches target.
// Re-exported so callers don't need to import both error packages.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}
