// Package dataframe provides the table, partitioning and sorting primitives the window engine runs on
package dataframe

import (
	"fmt"
	"strings"

	dferrors "github.com/paveg/analytic/internal/errors"
	"github.com/paveg/analytic/internal/series"
	"github.com/paveg/analytic/internal/validation"
)

// DataFrame represents a table of data with typed columns
type DataFrame struct {
	columns map[string]ISeries
	order   []string // Maintains column order
}

// New creates a new DataFrame from a slice of ISeries.
// The DataFrame takes ownership of the series. Later series replace earlier ones with the same name.
func New(series ...ISeries) *DataFrame {
	columns := make(map[string]ISeries)
	order := make([]string, 0, len(series))

	for _, s := range series {
		name := s.Name()
		if _, exists := columns[name]; !exists {
			order = append(order, name)
		}
		columns[name] = s
	}

	return &DataFrame{
		columns: columns,
		order:   order,
	}
}

// NewSafe creates a new DataFrame after checking that column names are unique
// and every column has the same length
func NewSafe(series ...ISeries) (*DataFrame, error) {
	names := make([]string, 0, len(series))
	for i, s := range series {
		if s == nil {
			return nil, dferrors.NewInvalidInputError("NewDataFrame", fmt.Sprintf("series at position %d is nil", i))
		}
		names = append(names, s.Name())
	}
	if err := validation.ValidateUnique("NewDataFrame", names...); err != nil {
		return nil, err
	}
	for _, s := range series {
		if err := validation.ValidateLength(series[0].Len(), s.Len(), "NewDataFrame", fmt.Sprintf("column '%s'", s.Name())); err != nil {
			return nil, err
		}
	}
	return New(series...), nil
}

// Columns returns the names of all columns in order
func (df *DataFrame) Columns() []string {
	if len(df.order) == 0 {
		return []string{}
	}
	return append([]string(nil), df.order...)
}

// Len returns the number of rows (assumes all columns have same length)
func (df *DataFrame) Len() int {
	if len(df.order) == 0 {
		return 0
	}
	return df.columns[df.order[0]].Len()
}

// Width returns the number of columns
func (df *DataFrame) Width() int {
	return len(df.columns)
}

// Column returns the series for the given column name
func (df *DataFrame) Column(name string) (ISeries, bool) {
	series, exists := df.columns[name]
	return series, exists
}

// ColumnType returns the type tag of the named column
func (df *DataFrame) ColumnType(name string) (series.ColumnType, bool) {
	s, exists := df.columns[name]
	if !exists {
		return series.TypeUnknown, false
	}
	return s.Type(), true
}

// HasColumn checks if a column exists
func (df *DataFrame) HasColumn(name string) bool {
	_, exists := df.columns[name]
	return exists
}

// Select returns a new DataFrame with only the specified columns.
// The selected series are retained, so both frames must be released.
func (df *DataFrame) Select(names ...string) *DataFrame {
	newColumns := make(map[string]ISeries)
	newOrder := make([]string, 0, len(names))

	for _, name := range names {
		if _, dup := newColumns[name]; dup {
			continue
		}
		if series, exists := df.columns[name]; exists {
			series.Retain()
			newColumns[name] = series
			newOrder = append(newOrder, name)
		}
	}

	return &DataFrame{
		columns: newColumns,
		order:   newOrder,
	}
}

// Row returns the values of row index formatted as strings, in column order.
// Missing values are rendered as empty strings.
func (df *DataFrame) Row(index int) []string {
	row := make([]string, 0, len(df.order))
	for _, name := range df.order {
		row = append(row, df.columns[name].GetAsString(index))
	}
	return row
}

// String returns a string representation of the DataFrame
func (df *DataFrame) String() string {
	if len(df.columns) == 0 {
		return "DataFrame[empty]"
	}

	parts := []string{fmt.Sprintf("DataFrame[%dx%d]", df.Len(), df.Width())}

	for _, name := range df.order {
		series := df.columns[name]
		parts = append(parts, fmt.Sprintf("  %s: %s", name, series.DataType().String()))
	}

	return strings.Join(parts, "\n")
}

// Release releases all underlying Arrow memory
func (df *DataFrame) Release() {
	for _, series := range df.columns {
		series.Release()
	}
}
