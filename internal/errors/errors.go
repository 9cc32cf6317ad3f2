// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrDayNotFound       = errors.New("trading day not found")
	ErrTradeNotFound     = errors.New("trade not found")
	ErrLiveTradeNotFound = errors.New("live trade not found")
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrExecutionNotFound = errors.New("execution not found")
	ErrAlreadyPushed     = errors.New("live trade already pushed to journal")
	ErrDataNotFound      = errors.New("data not found")
)

// ValidationError represents a rejected input field.
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

// ImportError represents a file-level import rejection: unsupported
// file type, missing columns, empty file, or no valid fills. It is
// never partially applied; the whole upload is refused.
type ImportError struct {
	Filename string
	Reason   string
	Err      error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import error [%s]: %s: %v", e.Filename, e.Reason, e.Err)
	}
	return fmt.Sprintf("import error [%s]: %s", e.Filename, e.Reason)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// NewImportError creates a new ImportError.
func NewImportError(filename, reason string, err error) *ImportError {
	return &ImportError{
		Filename: filename,
		Reason:   reason,
		Err:      err,
	}
}

// StoreError represents a persistence failure.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store error [%s] %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("store error [%s]: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, key string, err error) *StoreError {
	return &StoreError{
		Op:  op,
		Key: key,
		Err: err,
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
