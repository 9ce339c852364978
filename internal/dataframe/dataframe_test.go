package dataframe

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/analytic/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDataFrame(t *testing.T) *DataFrame {
	t.Helper()
	mem := memory.NewGoAllocator()

	names := series.New("name", []string{"Alice", "Bob", "Charlie"}, mem)
	ages := series.New("age", []int64{25, 30, 35}, mem)
	salaries := series.New("salary", []float64{50000, 60000, 70000}, mem)

	// DataFrame takes ownership of the series - no need to release them manually
	return New(names, ages, salaries)
}

func TestNewDataFrame(t *testing.T) {
	mem := memory.NewGoAllocator()

	names := series.New("name", []string{"Alice", "Bob"}, mem)
	ages := series.New("age", []int64{25, 30}, mem)

	df := New(names, ages)
	defer df.Release()

	assert.Equal(t, 2, df.Len())
	assert.Equal(t, 2, df.Width())
	assert.Equal(t, []string{"name", "age"}, df.Columns())
}

func TestNewDataFrameEmpty(t *testing.T) {
	df := New()

	assert.Equal(t, 0, df.Len())
	assert.Equal(t, 0, df.Width())
	assert.Equal(t, []string{}, df.Columns())
	assert.Equal(t, "DataFrame[empty]", df.String())
}

func TestNewSafe(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("valid columns", func(t *testing.T) {
		df, err := NewSafe(
			series.New("a", []int64{1, 2}, mem),
			series.New("b", []string{"x", "y"}, mem),
		)
		require.NoError(t, err)
		defer df.Release()
		assert.Equal(t, 2, df.Width())
	})

	t.Run("duplicate name", func(t *testing.T) {
		a := series.New("a", []int64{1, 2}, mem)
		dup := series.New("a", []int64{3, 4}, mem)
		defer a.Release()
		defer dup.Release()

		_, err := NewSafe(a, dup)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate column name")
	})

	t.Run("length mismatch", func(t *testing.T) {
		a := series.New("a", []int64{1, 2}, mem)
		b := series.New("b", []int64{1}, mem)
		defer a.Release()
		defer b.Release()

		_, err := NewSafe(a, b)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "'b'")
	})
}

func TestDataFrameColumn(t *testing.T) {
	df := createTestDataFrame(t)
	defer df.Release()

	// Test existing column
	nameSeries, exists := df.Column("name")
	assert.True(t, exists)
	assert.Equal(t, "name", nameSeries.Name())
	assert.Equal(t, 3, nameSeries.Len())

	// Test non-existing column
	_, exists = df.Column("nonexistent")
	assert.False(t, exists)
	assert.True(t, df.HasColumn("age"))
	assert.False(t, df.HasColumn("nonexistent"))
}

func TestDataFrameSelect(t *testing.T) {
	df := createTestDataFrame(t)
	defer df.Release()

	selected := df.Select("salary", "name", "missing", "name")
	defer selected.Release()

	assert.Equal(t, 3, selected.Len())
	assert.Equal(t, []string{"salary", "name"}, selected.Columns())
}

func TestDataFrameSelectRetainsColumns(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	df := New(series.New("a", []int64{1, 2, 3}, mem))
	selected := df.Select("a")

	df.Release()
	col, ok := selected.Column("a")
	require.True(t, ok)
	assert.Equal(t, "2", col.GetAsString(1))

	selected.Release()
}

func TestDataFrameRow(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := New(
		series.New("name", []string{"Alice", "Bob"}, mem),
		series.NewWithValidity("score", []float64{1.5, 0}, []bool{true, false}, mem),
	)
	defer df.Release()

	assert.Equal(t, []string{"Alice", "1.5"}, df.Row(0))
	assert.Equal(t, []string{"Bob", ""}, df.Row(1))
}

func TestDataFrameString(t *testing.T) {
	df := createTestDataFrame(t)
	defer df.Release()

	str := df.String()
	assert.Contains(t, str, "DataFrame[3x3]")
	assert.Contains(t, str, "name: utf8")
	assert.Contains(t, str, "age: int64")
	assert.Contains(t, str, "salary: float64")
}

func TestDataFrameColumnType(t *testing.T) {
	df := createTestDataFrame(t)
	defer df.Release()

	ct, ok := df.ColumnType("salary")
	require.True(t, ok)
	assert.Equal(t, series.TypeFloat64, ct)

	ct, ok = df.ColumnType("name")
	require.True(t, ok)
	assert.False(t, ct.IsNumeric())

	_, ok = df.ColumnType("nonexistent")
	assert.False(t, ok)
}
