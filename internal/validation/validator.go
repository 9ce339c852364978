// Package validation provides input validation utilities for table and window query operations.
// Validators are small reusable checks (column existence, length consistency,
// name uniqueness, numeric column types, positive offsets) that can be combined
// with CompoundValidator and report failures as DataFrameError values.
package validation

import (
	"fmt"

	"github.com/paveg/analytic/internal/errors"
	"github.com/paveg/analytic/internal/series"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// ColumnProvider interface for types that provide column information
type ColumnProvider interface {
	HasColumn(name string) bool
	Columns() []string
	Len() int
	Width() int
}

// TypedColumnProvider is a ColumnProvider that also reports column types
type TypedColumnProvider interface {
	ColumnProvider
	ColumnType(name string) (series.ColumnType, bool)
}

// ColumnValidator validates column existence and properties
type ColumnValidator struct {
	df      ColumnProvider
	columns []string
	op      string
}

// NewColumnValidator creates a validator for column operations
func NewColumnValidator(df ColumnProvider, op string, columns ...string) *ColumnValidator {
	return &ColumnValidator{
		df:      df,
		columns: columns,
		op:      op,
	}
}

// Validate checks if all columns exist in the DataFrame
func (v *ColumnValidator) Validate() error {
	for _, column := range v.columns {
		if !v.df.HasColumn(column) {
			return errors.NewColumnNotFoundError(v.op, column)
		}
	}
	return nil
}

// LengthValidator validates array length consistency
type LengthValidator struct {
	expected int
	actual   int
	op       string
	context  string
}

// NewLengthValidator creates a validator for length consistency
func NewLengthValidator(expected, actual int, op, context string) *LengthValidator {
	return &LengthValidator{
		expected: expected,
		actual:   actual,
		op:       op,
		context:  context,
	}
}

// Validate checks if lengths match
func (v *LengthValidator) Validate() error {
	if v.expected != v.actual {
		message := fmt.Sprintf("%s: expected length %d, got %d", v.context, v.expected, v.actual)
		return errors.NewValidationError(v.op, "", message)
	}
	return nil
}

// UniqueValidator validates that a list of names holds no duplicates
type UniqueValidator struct {
	names []string
	op    string
}

// NewUniqueValidator creates a validator for name uniqueness
func NewUniqueValidator(op string, names ...string) *UniqueValidator {
	return &UniqueValidator{
		names: names,
		op:    op,
	}
}

// Validate reports the first name that appears twice
func (v *UniqueValidator) Validate() error {
	seen := make(map[string]bool, len(v.names))
	for _, name := range v.names {
		if seen[name] {
			return errors.NewDuplicateColumnError(v.op, name)
		}
		seen[name] = true
	}
	return nil
}

// NumericColumnValidator validates that columns exist and hold numeric values
type NumericColumnValidator struct {
	df       TypedColumnProvider
	columns  []string
	function string
	op       string
}

// NewNumericColumnValidator creates a validator for columns consumed by a numeric function
func NewNumericColumnValidator(df TypedColumnProvider, op, function string, columns ...string) *NumericColumnValidator {
	return &NumericColumnValidator{
		df:       df,
		columns:  columns,
		function: function,
		op:       op,
	}
}

// Validate checks every column exists and has a numeric type
func (v *NumericColumnValidator) Validate() error {
	for _, column := range v.columns {
		columnType, exists := v.df.ColumnType(column)
		if !exists {
			return errors.NewColumnNotFoundError(v.op, column)
		}
		if !columnType.IsNumeric() {
			message := fmt.Sprintf("%s requires a numeric column, got %s", v.function, columnType)
			return errors.NewValidationError(v.op, column, message)
		}
	}
	return nil
}

// PositiveValidator validates that a count or offset is greater than zero
type PositiveValidator struct {
	value   int
	op      string
	context string
}

// NewPositiveValidator creates a validator for positive values
func NewPositiveValidator(value int, op, context string) *PositiveValidator {
	return &PositiveValidator{
		value:   value,
		op:      op,
		context: context,
	}
}

// Validate checks the value is positive
func (v *PositiveValidator) Validate() error {
	if v.value <= 0 {
		message := fmt.Sprintf("%s must be positive, got %d", v.context, v.value)
		return errors.NewInvalidInputError(v.op, message)
	}
	return nil
}

// CompoundValidator combines multiple validators
type CompoundValidator struct {
	validators []Validator
}

// NewCompoundValidator creates a validator that checks multiple conditions
func NewCompoundValidator(validators ...Validator) *CompoundValidator {
	return &CompoundValidator{
		validators: validators,
	}
}

// Validate runs all validators and returns the first error encountered
func (v *CompoundValidator) Validate() error {
	for _, validator := range v.validators {
		if err := validator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Convenience validation functions

// ValidateColumns is a convenience function for column validation
func ValidateColumns(df ColumnProvider, op string, columns ...string) error {
	return NewColumnValidator(df, op, columns...).Validate()
}

// ValidateLength is a convenience function for length validation
func ValidateLength(expected, actual int, op, context string) error {
	return NewLengthValidator(expected, actual, op, context).Validate()
}

// ValidateUnique is a convenience function for uniqueness validation
func ValidateUnique(op string, names ...string) error {
	return NewUniqueValidator(op, names...).Validate()
}

// ValidateNumericColumns is a convenience function for numeric column validation
func ValidateNumericColumns(df TypedColumnProvider, op, function string, columns ...string) error {
	return NewNumericColumnValidator(df, op, function, columns...).Validate()
}

// ValidatePositive is a convenience function for positive value validation
func ValidatePositive(value int, op, context string) error {
	return NewPositiveValidator(value, op, context).Validate()
}
