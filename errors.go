package docmap

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConversion ErrorType = "conversion"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConnection ErrorType = "connection"
	ErrorTypeInternal   ErrorType = "internal"
)

// Error codes surfaced by the mapping layer.
const (
	ErrCodeDescriptorNotFound = "DESCRIPTOR_NOT_FOUND"
	ErrCodeDocumentNotFound   = "DOCUMENT_NOT_FOUND"
	ErrCodeConversionFailed   = "CONVERSION_FAILED"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeConnectionFailed   = "CONNECTION_FAILED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DocmapError represents errors from the mapping layer. The layer adds
// no recovery or retry; errors carry context and propagate to the caller.
type DocmapError struct {
	Type       ErrorType      `json:"type"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Collection string         `json:"collection,omitempty"`
	Field      string         `json:"field,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *DocmapError) Error() string {
	switch {
	case e.Collection != "" && e.Field != "":
		return fmt.Sprintf("[%s:%s] collection %s, field '%s': %s", e.Type, e.Code, e.Collection, e.Field, e.Message)
	case e.Collection != "":
		return fmt.Sprintf("[%s:%s] collection %s: %s", e.Type, e.Code, e.Collection, e.Message)
	case e.Field != "":
		return fmt.Sprintf("[%s:%s] field '%s': %s", e.Type, e.Code, e.Field, e.Message)
	default:
		return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
	}
}

func (e *DocmapError) Unwrap() error {
	return e.Cause
}

// WithCause adds a cause to the error.
func (e *DocmapError) WithCause(cause error) *DocmapError {
	e.Cause = cause
	return e
}

// WithField adds field context to the error.
func (e *DocmapError) WithField(field string) *DocmapError {
	e.Field = field
	return e
}

// WithCollection adds collection context to the error.
func (e *DocmapError) WithCollection(name string) *DocmapError {
	e.Collection = name
	return e
}

// WithDetail adds a single detail to the error.
func (e *DocmapError) WithDetail(key string, value any) *DocmapError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewDocmapError creates a new DocmapError.
func NewDocmapError(errorType ErrorType, code, message string) *DocmapError {
	return &DocmapError{
		Type:    errorType,
		Code:    code,
		Message: message,
	}
}

// NewConversionError creates a coercion failure for a declared key.
func NewConversionError(field, message string, cause error) *DocmapError {
	return &DocmapError{
		Type:    ErrorTypeConversion,
		Code:    ErrCodeConversionFailed,
		Message: message,
		Field:   field,
		Cause:   cause,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(field, message string) *DocmapError {
	return &DocmapError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeValidationFailed,
		Message: message,
		Field:   field,
	}
}

// NewDocumentNotFoundError creates a document not found error.
func NewDocumentNotFoundError(collection string, id string) *DocmapError {
	return &DocmapError{
		Type:       ErrorTypeNotFound,
		Code:       ErrCodeDocumentNotFound,
		Message:    "document not found",
		Collection: collection,
		Details:    map[string]any{"id": id},
	}
}

// NewConnectionError creates a connection error.
func NewConnectionError(message string, cause error) *DocmapError {
	return &DocmapError{
		Type:    ErrorTypeConnection,
		Code:    ErrCodeConnectionFailed,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(message string, cause error) *DocmapError {
	return &DocmapError{
		Type:    ErrorTypeInternal,
		Code:    ErrCodeInternalError,
		Message: message,
		Cause:   cause,
	}
}

// IsNotFoundError checks if an error is a document not found error.
func IsNotFoundError(err error) bool {
	var de *DocmapError
	if errors.As(err, &de) {
		return de.Type == ErrorTypeNotFound
	}
	return false
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var de *DocmapError
	if errors.As(err, &de) {
		return de.Type == ErrorTypeValidation
	}
	return false
}

// IsConversionError checks if an error is a coercion error.
func IsConversionError(err error) bool {
	var de *DocmapError
	if errors.As(err, &de) {
		return de.Type == ErrorTypeConversion
	}
	return false
}
