package series

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericReader(t *testing.T) {
	mem := memory.NewGoAllocator()

	tests := []struct {
		name   string
		column Column
	}{
		{"int64", NewWithValidity("v", []int64{1, 0, 3}, []bool{true, false, true}, mem)},
		{"int32", NewWithValidity("v", []int32{1, 0, 3}, []bool{true, false, true}, mem)},
		{"float64", NewWithValidity("v", []float64{1, 0, 3}, []bool{true, false, true}, mem)},
		{"float32", NewWithValidity("v", []float32{1, 0, 3}, []bool{true, false, true}, mem)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer tt.column.Release()

			arr := tt.column.Array()
			reader, err := NewNumericReader(arr)
			arr.Release()
			require.NoError(t, err)
			defer reader.Release()

			assert.Equal(t, 3, reader.Len())
			assert.Equal(t, 1.0, reader.Float64(0))
			assert.True(t, reader.IsMissing(1))
			assert.Equal(t, 3.0, reader.Float64(2))
		})
	}
}

func TestNumericReaderRejectsNonNumeric(t *testing.T) {
	s := New("name", []string{"a"}, memory.NewGoAllocator())
	defer s.Release()

	arr := s.Array()
	defer arr.Release()

	_, err := NewNumericReader(arr)
	assert.ErrorContains(t, err, "unsupported type")
}
