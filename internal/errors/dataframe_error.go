// Package errors provides standardized error types for table and window operations.
// This package defines DataFrameError for consistent error handling across
// all public APIs, with operation context and error wrapping support.
package errors

import (
	"fmt"

	crdberrors "github.com/cockroachdb/errors"
)

// DataFrameError represents standardized errors across all DataFrame operations
type DataFrameError struct {
	Op      string // Operation name (e.g., "WindowFrame", "ArgumentList", "Execute")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *DataFrameError) Error() string {
	var msg string
	if e.Column != "" {
		msg = fmt.Sprintf("%s operation failed on column '%s': %s", e.Op, e.Column, e.Message)
	} else {
		msg = fmt.Sprintf("%s operation failed: %s", e.Op, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error wrapping support
func (e *DataFrameError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is()
func (e *DataFrameError) Is(target error) bool {
	if df, ok := target.(*DataFrameError); ok {
		return e.Op == df.Op && e.Column == df.Column && e.Message == df.Message
	}
	return false
}

// Common error constructors for consistent error creation

// NewColumnNotFoundError creates an error for operations on non-existent columns
func NewColumnNotFoundError(op, column string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewInvalidInputError creates an error for invalid operation inputs
func NewInvalidInputError(op, message string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Message: message,
	}
}

// NewUnsupportedTypeError creates an error for unsupported data types
func NewUnsupportedTypeError(op, typeName string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Message: fmt.Sprintf("unsupported type: %s", typeName),
	}
}

// NewValidationError creates an error for input validation failures
func NewValidationError(op, column, message string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Message: message,
	}
}

// NewDuplicateColumnError creates an error for a column name registered twice
func NewDuplicateColumnError(op, column string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Message: "duplicate column name",
	}
}

// NewNotImplementedError creates an error for catalog entries that have no implementation
func NewNotImplementedError(op, function string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Message: fmt.Sprintf("%s is not implemented", function),
	}
}

// NewContractViolationError creates an error for an internal invariant failure.
// The cause is an assertion failure, so errors.HasAssertionFailure reports true for it.
func NewContractViolationError(op, format string, args ...interface{}) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Message: "internal contract violated",
		Cause:   crdberrors.AssertionFailedf(format, args...),
	}
}

// NewExecutionError creates an error for a query that failed while evaluating function on column
func NewExecutionError(op, column, function string, cause error) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("evaluating %s failed", function),
		Cause:   cause,
	}
}

// NewInternalError creates an error for internal operation failures
func NewInternalError(op string, cause error) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Message: "internal error occurred",
		Cause:   cause,
	}
}

// IsContractViolation reports whether err carries an internal assertion failure
func IsContractViolation(err error) bool {
	return crdberrors.HasAssertionFailure(err)
}
