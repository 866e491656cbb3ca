package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeConfig            ErrorType = "CONFIG"
	ErrTypeNotFound          ErrorType = "NOT_FOUND"
	ErrTypeSchema            ErrorType = "SCHEMA"
	ErrTypeStorage           ErrorType = "STORAGE"
	ErrTypeValidation        ErrorType = "VALIDATION"
	ErrTypeDivisionUndefined ErrorType = "DIVISION_UNDEFINED"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err wraps an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errType
}

// NewConfigError creates a configuration error, e.g. empty reference tables
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewInputNotFoundError reports a missing or unreadable input table
func NewInputNotFoundError(path string, cause error) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("input %s not found", path), cause).
		WithContext("path", path)
}

// NewSchemaError reports a missing column or an unparseable required field
func NewSchemaError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchema, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewDivisionUndefinedError marks a per-group ratio with a zero denominator
func NewDivisionUndefinedError(group, metric string) *AppError {
	return NewAppError(ErrTypeDivisionUndefined, fmt.Sprintf("%s undefined for %s", metric, group), nil).
		WithContext("group", group).
		WithContext("metric", metric)
}
