// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrMissingColumns   = errors.New("settlement extract missing required columns")
	ErrNoFutures        = errors.New("no futures rows in settlement extract")
	ErrNoOptions        = errors.New("no options rows in settlement extract")
	ErrMasterNotFound   = errors.New("instrument master file not found")
	ErrMasterEmpty      = errors.New("instrument master has no usable entries")
	ErrNoToken          = errors.New("access token not configured")
	ErrTokenExpired     = errors.New("access token is from a previous trading day")
	ErrSourceNotFound   = errors.New("no bhavcopy registered for source")
	ErrUnknownSource    = errors.New("unknown bhavcopy source")
	ErrStoreUnavailable = errors.New("persistent store unavailable")
)

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Path     string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Path, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, path, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Path:     path,
		Message:  message,
		Err:      err,
	}
}

// FetchError represents an error from the quote API.
type FetchError struct {
	StatusCode int
	Batch      int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch error [batch %d, status %d]: %s: %v", e.Batch, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("fetch error [batch %d, status %d]: %s", e.Batch, e.StatusCode, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError.
func NewFetchError(batch, statusCode int, message string, err error) *FetchError {
	return &FetchError{
		StatusCode: statusCode,
		Batch:      batch,
		Message:    message,
		Err:        err,
	}
}

// ValidationError represents an input validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
