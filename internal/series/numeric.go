package series

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"golang.org/x/exp/constraints"
)

// NumericReader reads any numeric Arrow array as float64 values
type NumericReader struct {
	arr arrow.Array
	at  func(int) float64
}

// NewNumericReader creates a reader over arr. The reader retains arr until Release.
func NewNumericReader(arr arrow.Array) (*NumericReader, error) {
	var at func(int) float64

	switch a := arr.(type) {
	case *array.Int64:
		at = numericAt(a.Int64Values())
	case *array.Int32:
		at = numericAt(a.Int32Values())
	case *array.Float64:
		at = numericAt(a.Float64Values())
	case *array.Float32:
		at = numericAt(a.Float32Values())
	default:
		return nil, fmt.Errorf("unsupported type for numeric access: %s", arr.DataType())
	}

	arr.Retain()
	return &NumericReader{arr: arr, at: at}, nil
}

func numericAt[T constraints.Integer | constraints.Float](values []T) func(int) float64 {
	return func(i int) float64 {
		return float64(values[i])
	}
}

// Float64 returns the value at index; the result is meaningless when IsMissing(index)
func (r *NumericReader) Float64(index int) float64 {
	return r.at(index)
}

// IsMissing reports whether the value at index is null
func (r *NumericReader) IsMissing(index int) bool {
	return r.arr.IsNull(index)
}

// Len returns the number of values
func (r *NumericReader) Len() int {
	return r.arr.Len()
}

// Release drops the reader's reference to the array
func (r *NumericReader) Release() {
	if r.arr != nil {
		r.arr.Release()
		r.arr = nil
	}
}
