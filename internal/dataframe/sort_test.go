package dataframe

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/analytic/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSortDataFrame(t *testing.T) *DataFrame {
	t.Helper()
	mem := memory.NewGoAllocator()

	return New(
		series.New("group", []string{"b", "a", "b", "a", "c"}, mem),
		series.NewWithValidity("score", []int64{30, 10, 0, 10, 20}, []bool{true, true, false, true, true}, mem),
		series.New("ratio", []float32{0.5, 0.25, 0.75, 0.1, 0.5}, mem),
		series.New("flag", []bool{true, false, true, false, false}, mem),
		series.New("small", []int32{3, 1, 2, 5, 4}, mem),
		series.New("weight", []float64{1.5, 2.5, 0.5, 3.5, 2.5}, mem),
	)
}

func TestPartitionSortBy(t *testing.T) {
	df := createSortDataFrame(t)
	defer df.Release()

	tests := []struct {
		name     string
		keys     []SortKey
		expected []int
	}{
		{"no keys keeps order", nil, []int{0, 1, 2, 3, 4}},
		{"string ascending", []SortKey{{Column: "group", Ascending: true}}, []int{1, 3, 0, 2, 4}},
		{"string descending", []SortKey{{Column: "group", Ascending: false}}, []int{4, 0, 2, 1, 3}},
		{"int64 nulls first ascending", []SortKey{{Column: "score", Ascending: true}}, []int{2, 1, 3, 4, 0}},
		{"int64 nulls first descending", []SortKey{{Column: "score", Ascending: false}}, []int{2, 0, 4, 1, 3}},
		{"float32", []SortKey{{Column: "ratio", Ascending: true}}, []int{3, 1, 0, 4, 2}},
		{"float64 ties stable", []SortKey{{Column: "weight", Ascending: true}}, []int{2, 0, 1, 4, 3}},
		{"int32 descending", []SortKey{{Column: "small", Ascending: false}}, []int{3, 4, 0, 2, 1}},
		{"bool false first", []SortKey{{Column: "flag", Ascending: true}}, []int{1, 3, 4, 0, 2}},
		{
			"two keys",
			[]SortKey{{Column: "group", Ascending: true}, {Column: "small", Ascending: false}},
			[]int{3, 1, 0, 2, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted, err := WholePartition(df).SortBy(tt.keys...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sorted.RowNumbers())
		})
	}
}

func TestPartitionSortByNaN(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := New(
		series.NewWithValidity("k", []float64{3, math.NaN(), 1, 0, 2}, []bool{true, true, true, false, true}, mem),
		series.New("k32", []float32{float32(math.NaN()), 2, 1, 3, float32(math.NaN())}, mem),
	)
	defer df.Release()

	tests := []struct {
		name     string
		key      SortKey
		expected []int
	}{
		{"float64 ascending puts NaN last", SortKey{Column: "k", Ascending: true}, []int{3, 2, 4, 0, 1}},
		{"float64 descending puts NaN after nulls", SortKey{Column: "k", Ascending: false}, []int{3, 1, 0, 4, 2}},
		{"float32 NaNs tie and stay stable", SortKey{Column: "k32", Ascending: true}, []int{2, 1, 3, 0, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted, err := WholePartition(df).SortBy(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sorted.RowNumbers())
		})
	}

	tb, err := NewTieBreaker(df, []SortKey{{Column: "k32", Ascending: true}})
	require.NoError(t, err)
	defer tb.Release()
	assert.True(t, tb.Equal(0, 4))
	assert.False(t, tb.Equal(0, 3))
}

func TestPartitionSortByDoesNotModifySource(t *testing.T) {
	df := createSortDataFrame(t)
	defer df.Release()

	p := WholePartition(df)
	_, err := p.SortBy(SortKey{Column: "small", Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, p.RowNumbers())
}

func TestPartitionSortBySubset(t *testing.T) {
	df := createSortDataFrame(t)
	defer df.Release()

	partitions, err := PartitionBy(df, "group")
	require.NoError(t, err)

	sorted, err := partitions[0].SortBy(SortKey{Column: "small", Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, sorted.RowNumbers())
}

func TestPartitionSortByErrors(t *testing.T) {
	df := createSortDataFrame(t)
	defer df.Release()

	_, err := WholePartition(df).SortBy(SortKey{Column: "nonexistent", Ascending: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestCompareRowsAndRowsEqual(t *testing.T) {
	df := createSortDataFrame(t)
	defer df.Release()

	keys := []SortKey{{Column: "weight", Ascending: true}}

	cmp, err := df.CompareRows(0, 1, keys)
	require.NoError(t, err)
	assert.Negative(t, cmp)

	equal, err := df.RowsEqual(1, 4, keys)
	require.NoError(t, err)
	assert.True(t, equal)

	equal, err = df.RowsEqual(0, 1, keys)
	require.NoError(t, err)
	assert.False(t, equal)

	_, err = df.RowsEqual(0, 1, []SortKey{{Column: "nope"}})
	assert.Error(t, err)
}

func TestTieBreaker(t *testing.T) {
	df := createSortDataFrame(t)
	defer df.Release()

	tb, err := NewTieBreaker(df, []SortKey{{Column: "group", Ascending: true}})
	require.NoError(t, err)
	defer tb.Release()

	assert.True(t, tb.Equal(0, 2))
	assert.False(t, tb.Equal(0, 1))
}

func TestSortKeyString(t *testing.T) {
	assert.Equal(t, "price ASC", SortKey{Column: "price", Ascending: true}.String())
	assert.Equal(t, "price DESC", SortKey{Column: "price"}.String())
}
