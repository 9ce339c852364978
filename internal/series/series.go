// Package series provides data structures for column operations
package series

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Column is the type-erased view of a Series of any element type
type Column interface {
	Name() string
	Len() int
	Type() ColumnType
	DataType() arrow.DataType
	IsNull(index int) bool
	GetAsString(index int) string
	String() string
	Array() arrow.Array
	Retain()
	Release()
}

// Series represents a typed data column with Apache Arrow backend
type Series[T any] struct {
	name  string
	array arrow.Array
}

// New creates a new Series from a slice of values
func New[T any](name string, values []T, mem memory.Allocator) *Series[T] {
	return NewWithValidity(name, values, nil, mem)
}

// NewWithValidity creates a new Series where valid[i] == false marks row i as missing.
// A nil validity slice marks every value as present.
func NewWithValidity[T any](name string, values []T, valid []bool, mem memory.Allocator) *Series[T] {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	if valid != nil && len(valid) != len(values) {
		panic(fmt.Sprintf("validity length %d does not match values length %d", len(valid), len(values)))
	}

	return &Series[T]{
		name:  name,
		array: buildArray(values, valid, mem),
	}
}

// buildArray creates the Arrow array matching the element type of values
func buildArray[T any](values []T, valid []bool, mem memory.Allocator) arrow.Array {
	switch v := any(values).(type) {
	case []string:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		return builder.NewArray()
	case []int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		return builder.NewArray()
	case []int32:
		builder := array.NewInt32Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		return builder.NewArray()
	case []float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		return builder.NewArray()
	case []float32:
		builder := array.NewFloat32Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		return builder.NewArray()
	case []bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		return builder.NewArray()
	default:
		panic(fmt.Sprintf("unsupported type: %T", values))
	}
}

// Name returns the column name
func (s *Series[T]) Name() string {
	return s.name
}

// Len returns the length of the series
func (s *Series[T]) Len() int {
	return s.array.Len()
}

// Values returns the data as a Go slice. Missing values come back as the zero value.
func (s *Series[T]) Values() []T {
	result := make([]T, s.array.Len())
	for i := range result {
		result[i] = s.Value(i)
	}
	return result
}

// Value returns the value at the given index
func (s *Series[T]) Value(index int) T {
	var result T
	if index < 0 || index >= s.array.Len() || s.array.IsNull(index) {
		return result
	}

	switch arr := s.array.(type) {
	case *array.String:
		if v, ok := any(&result).(*string); ok {
			*v = arr.Value(index)
		}
	case *array.Int64:
		if v, ok := any(&result).(*int64); ok {
			*v = arr.Value(index)
		}
	case *array.Int32:
		if v, ok := any(&result).(*int32); ok {
			*v = arr.Value(index)
		}
	case *array.Float64:
		if v, ok := any(&result).(*float64); ok {
			*v = arr.Value(index)
		}
	case *array.Float32:
		if v, ok := any(&result).(*float32); ok {
			*v = arr.Value(index)
		}
	case *array.Boolean:
		if v, ok := any(&result).(*bool); ok {
			*v = arr.Value(index)
		}
	}

	return result
}

// GetAsString returns the value at index formatted as a string, or "" when missing
func (s *Series[T]) GetAsString(index int) string {
	if index < 0 || index >= s.array.Len() || s.array.IsNull(index) {
		return ""
	}

	switch arr := s.array.(type) {
	case *array.String:
		return arr.Value(index)
	case *array.Int64:
		return strconv.FormatInt(arr.Value(index), 10)
	case *array.Int32:
		return strconv.FormatInt(int64(arr.Value(index)), 10)
	case *array.Float64:
		return strconv.FormatFloat(arr.Value(index), 'g', -1, 64)
	case *array.Float32:
		return strconv.FormatFloat(float64(arr.Value(index)), 'g', -1, 32)
	case *array.Boolean:
		return strconv.FormatBool(arr.Value(index))
	default:
		return arr.ValueStr(index)
	}
}

// Type returns the column type tag of the series
func (s *Series[T]) Type() ColumnType {
	ct, _ := TypeOf(s.array.DataType())
	return ct
}

// DataType returns the Arrow data type
func (s *Series[T]) DataType() arrow.DataType {
	return s.array.DataType()
}

// IsNull checks if the value at index is null
func (s *Series[T]) IsNull(index int) bool {
	return s.array.IsNull(index)
}

// String returns a string representation of the series
func (s *Series[T]) String() string {
	return fmt.Sprintf("Series[%s]: %s (len=%d)",
		reflect.TypeOf(new(T)).Elem().Name(),
		s.name,
		s.Len())
}

// Array returns the underlying Arrow array (retains a reference)
func (s *Series[T]) Array() arrow.Array {
	if s.array != nil {
		s.array.Retain()
		return s.array
	}
	return nil
}

// Retain adds a reference to the underlying Arrow memory
func (s *Series[T]) Retain() {
	if s.array != nil {
		s.array.Retain()
	}
}

// Release releases the underlying Arrow memory
func (s *Series[T]) Release() {
	if s.array != nil {
		s.array.Release()
	}
}

// FromArray wraps an existing Arrow array as a column. The column takes its own reference to arr.
func FromArray(name string, arr arrow.Array) (Column, error) {
	ct, ok := TypeOf(arr.DataType())
	if !ok {
		return nil, fmt.Errorf("unsupported data type %s for column %q", arr.DataType(), name)
	}

	arr.Retain()
	switch ct {
	case TypeInt32:
		return &Series[int32]{name: name, array: arr}, nil
	case TypeInt64:
		return &Series[int64]{name: name, array: arr}, nil
	case TypeFloat32:
		return &Series[float32]{name: name, array: arr}, nil
	case TypeFloat64:
		return &Series[float64]{name: name, array: arr}, nil
	case TypeString:
		return &Series[string]{name: name, array: arr}, nil
	default:
		return &Series[bool]{name: name, array: arr}, nil
	}
}
