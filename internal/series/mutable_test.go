package series

import (
	"sync"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnTypeCreateFilled(t *testing.T) {
	tests := []struct {
		columnType ColumnType
		numeric    bool
	}{
		{TypeInt32, true},
		{TypeInt64, true},
		{TypeFloat32, true},
		{TypeFloat64, true},
		{TypeString, false},
		{TypeBoolean, false},
	}

	for _, tt := range tests {
		t.Run(tt.columnType.String(), func(t *testing.T) {
			col := tt.columnType.CreateFilled("out", 3)
			require.NotNil(t, col)
			assert.Equal(t, "out", col.Name())
			assert.Equal(t, 3, col.Len())
			assert.Equal(t, tt.columnType, col.Type())
			assert.Equal(t, tt.numeric, tt.columnType.IsNumeric())
			for i := 0; i < col.Len(); i++ {
				assert.True(t, col.IsMissing(i))
			}
		})
	}

	assert.Nil(t, TypeUnknown.CreateFilled("x", 1))
	assert.Equal(t, 0, TypeInt64.Create("empty").Len())
}

func TestMutableSetAndFreeze(t *testing.T) {
	pool := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer pool.AssertSize(t, 0)

	col := NewMutable[float64]("total", 4)
	col.Set(0, 1.5)
	col.Set(2, 4)
	col.SetMissing(2)
	col.Set(3, -2)

	v, ok := col.Get(0)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
	assert.True(t, col.IsMissing(1))
	assert.True(t, col.IsMissing(2))

	s := col.NewSeries(pool)
	defer s.Release()

	assert.Equal(t, 4, s.Len())
	assert.False(t, s.IsNull(0))
	assert.True(t, s.IsNull(1))
	assert.True(t, s.IsNull(2))
	assert.Equal(t, -2.0, s.Value(3))
	assert.Equal(t, TypeFloat64, s.Type())
}

func TestMutableAppend(t *testing.T) {
	col := TypeString.Create("city")
	typed, ok := col.(*Mutable[string])
	require.True(t, ok)

	typed.Append("Tokyo")
	typed.AppendMissing()
	typed.Append("Osaka")

	s := typed.NewColumn(memory.NewGoAllocator())
	defer s.Release()

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "Tokyo", s.GetAsString(0))
	assert.True(t, s.IsNull(1))
	assert.Equal(t, "Osaka", s.GetAsString(2))
}

func TestMutableDisjointConcurrentWrites(t *testing.T) {
	const rows = 1000
	col := NewMutable[int64]("n", rows)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; i < rows; i += 4 {
				col.Set(i, int64(i))
			}
		}(w)
	}
	wg.Wait()

	for i := 0; i < rows; i++ {
		v, ok := col.Get(i)
		require.True(t, ok)
		assert.Equal(t, int64(i), v)
	}
}

func TestMutableOutOfBounds(t *testing.T) {
	col := NewMutable[int64]("n", 2)
	assert.Panics(t, func() { col.Set(2, 1) })
	assert.Panics(t, func() { col.SetMissing(-1) })
}
