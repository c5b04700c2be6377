package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies errors by how callers should react to them.
type ErrorType string

const (
	ErrorTypeValidation        ErrorType = "validation"
	ErrorTypeFormat            ErrorType = "format"
	ErrorTypeUnsupportedRegion ErrorType = "unsupported_region"
	ErrorTypeNotFound          ErrorType = "not_found"
	ErrorTypeExternal          ErrorType = "external"
	ErrorTypeSerialization     ErrorType = "serialization"
	ErrorTypeCache             ErrorType = "cache"
	ErrorTypeConfiguration     ErrorType = "configuration"
	ErrorTypeInternal          ErrorType = "internal"
)

// AppError is the structured error carried across service boundaries.
// Data-level failures are converted into validation outcomes close to
// their source; only configuration-class errors propagate as hard
// failures.
type AppError struct {
	Type      ErrorType              `json:"type"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Retryable bool                   `json:"retryable"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// Error constructors

func NewFormatError(code, message string) *AppError {
	return &AppError{
		Type:      ErrorTypeFormat,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

func NewValidationError(code, message string) *AppError {
	return &AppError{
		Type:      ErrorTypeValidation,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// NewUnsupportedRegionError indicates a deployment gap rather than a
// per-request condition and should be surfaced loudly.
func NewUnsupportedRegionError(region string, supported []string) *AppError {
	return &AppError{
		Type:      ErrorTypeUnsupportedRegion,
		Code:      "UNSUPPORTED_REGION",
		Message:   fmt.Sprintf("unsupported region: %s", region),
		Retryable: false,
		Details: map[string]interface{}{
			"region":    region,
			"supported": supported,
		},
	}
}

func NewNotFoundError(resource, identifier string) *AppError {
	return &AppError{
		Type:      ErrorTypeNotFound,
		Code:      "NOT_FOUND",
		Message:   fmt.Sprintf("%s %s not found", resource, identifier),
		Retryable: false,
	}
}

func NewExternalError(service, message string) *AppError {
	return &AppError{
		Type:      ErrorTypeExternal,
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("%s: %s", service, message),
		Retryable: true,
		Details:   map[string]interface{}{"service": service},
	}
}

func NewSerializationError(message string) *AppError {
	return &AppError{
		Type:      ErrorTypeSerialization,
		Code:      "SERIALIZATION_ERROR",
		Message:   message,
		Retryable: false,
	}
}

func NewCacheError(message string) *AppError {
	return &AppError{
		Type:      ErrorTypeCache,
		Code:      "CACHE_ERROR",
		Message:   message,
		Retryable: true,
	}
}

func NewConfigurationError(code, message string) *AppError {
	return &AppError{
		Type:      ErrorTypeConfiguration,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

func NewInternalError(message string) *AppError {
	return &AppError{
		Type:      ErrorTypeInternal,
		Code:      "INTERNAL_ERROR",
		Message:   message,
		Retryable: true,
	}
}

// Wrap wraps an error with a message using %w so errors.Is/As keep working.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// IsRetryable reports whether err is worth retrying. Unknown errors are
// treated as non-retryable so retry loops stay bounded by default.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}
