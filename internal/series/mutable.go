package series

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

// MutableColumn is a writable column that is frozen into an immutable Series once populated
type MutableColumn interface {
	Name() string
	Len() int
	Type() ColumnType
	IsMissing(index int) bool
	AppendMissing()
	SetMissing(index int)
	NewColumn(mem memory.Allocator) Column
}

// Mutable is a writable column of T backed by a value slice and a validity slice.
// Writes to distinct indices may happen concurrently; Append must not race with other calls.
type Mutable[T any] struct {
	name   string
	values []T
	valid  []bool
}

// NewMutable creates a writable column holding rowCount missing values
func NewMutable[T any](name string, rowCount int) *Mutable[T] {
	return &Mutable[T]{
		name:   name,
		values: make([]T, rowCount),
		valid:  make([]bool, rowCount),
	}
}

// Name returns the column name
func (m *Mutable[T]) Name() string {
	return m.name
}

// Len returns the number of rows
func (m *Mutable[T]) Len() int {
	return len(m.values)
}

// Type returns the column type tag derived from T
func (m *Mutable[T]) Type() ColumnType {
	switch any(m.values).(type) {
	case []int32:
		return TypeInt32
	case []int64:
		return TypeInt64
	case []float32:
		return TypeFloat32
	case []float64:
		return TypeFloat64
	case []string:
		return TypeString
	case []bool:
		return TypeBoolean
	default:
		return TypeUnknown
	}
}

// Append adds a present value at the end of the column
func (m *Mutable[T]) Append(value T) {
	m.values = append(m.values, value)
	m.valid = append(m.valid, true)
}

// AppendMissing adds a missing value at the end of the column
func (m *Mutable[T]) AppendMissing() {
	var zero T
	m.values = append(m.values, zero)
	m.valid = append(m.valid, false)
}

// Set stores value at index
func (m *Mutable[T]) Set(index int, value T) {
	m.checkIndex(index)
	m.values[index] = value
	m.valid[index] = true
}

// SetMissing marks index as missing
func (m *Mutable[T]) SetMissing(index int) {
	m.checkIndex(index)
	var zero T
	m.values[index] = zero
	m.valid[index] = false
}

// Get returns the value at index and whether it is present
func (m *Mutable[T]) Get(index int) (T, bool) {
	m.checkIndex(index)
	return m.values[index], m.valid[index]
}

// IsMissing reports whether index holds a missing value
func (m *Mutable[T]) IsMissing(index int) bool {
	m.checkIndex(index)
	return !m.valid[index]
}

// NewSeries freezes the current contents into a Series
func (m *Mutable[T]) NewSeries(mem memory.Allocator) *Series[T] {
	return NewWithValidity(m.name, m.values, m.valid, mem)
}

// NewColumn freezes the current contents into a type-erased Column
func (m *Mutable[T]) NewColumn(mem memory.Allocator) Column {
	return m.NewSeries(mem)
}

func (m *Mutable[T]) checkIndex(index int) {
	if index < 0 || index >= len(m.values) {
		panic(fmt.Sprintf("index %d out of bounds [0, %d) for column %q", index, len(m.values), m.name))
	}
}
