package invoice

import (
	"errors"
	"fmt"
)

// Common invoice generation errors
var (
	// ErrInvalidInput is returned when the request cannot be turned into an
	// invoice. Every *InputError matches it.
	ErrInvalidInput = errors.New("invalid invoice input")

	// ErrMissingRequiredField is returned when a required identifier such as
	// the invoice number is absent.
	ErrMissingRequiredField = errors.New("missing required invoice field")

	// ErrLayoutFailed is returned when the drawing surface reports an error
	// during layout.
	ErrLayoutFailed = errors.New("invoice layout failed")

	// ErrSinkWrite is returned when the finished document cannot be written.
	ErrSinkWrite = errors.New("writing invoice document failed")
)

// GenerationError wraps errors with the operation and invoice that failed.
type GenerationError struct {
	// Op is the operation that failed (e.g., "Render", "Save").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string

	// InvoiceNumber identifies the document being generated (if available).
	InvoiceNumber string
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("invoice: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	if e.InvoiceNumber != "" {
		return fmt.Sprintf("invoice: %s failed (number: %s): %v", e.Op, e.InvoiceNumber, e.Err)
	}
	return fmt.Sprintf("invoice: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *GenerationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewGenerationError creates a new GenerationError with the specified operation and underlying error.
func NewGenerationError(op string, err error, details string) *GenerationError {
	return &GenerationError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapGenerationError wraps an error as a GenerationError if it isn't already one.
func WrapGenerationError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err // Already wrapped
	}

	return NewGenerationError(op, err, details)
}

// InputError reports a request field that could not be converted. Field is
// the JSON path of the offending value, e.g. "items[2].quantity".
type InputError struct {
	Field string
	Value interface{}
	Err   error
}

// Error implements the error interface.
func (e *InputError) Error() string {
	if e.Value == nil || e.Value == "" {
		return fmt.Sprintf("invalid input for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid input for field '%s': %v (value: %v)", e.Field, e.Err, e.Value)
}

// Unwrap returns the underlying error.
func (e *InputError) Unwrap() error {
	return e.Err
}

// Is reports ErrInvalidInput for every input error.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInputError creates a new InputError.
func NewInputError(field string, value interface{}, err error) *InputError {
	return &InputError{
		Field: field,
		Value: value,
		Err:   err,
	}
}
