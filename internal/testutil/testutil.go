// Package testutil provides common testing utilities shared by the table and window packages:
// allocator setup, standard test tables, typed column extraction and table comparison.
package testutil

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/go-cmp/cmp"
	"github.com/paveg/analytic/internal/dataframe"
	"github.com/paveg/analytic/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// defaultRowCount is the default number of rows in test DataFrames.
	defaultRowCount = 4
)

// TestMemoryContext provides memory allocator with automatic cleanup.
type TestMemoryContext struct {
	Allocator memory.Allocator
	cleanup   func()
}

// Release performs cleanup of the memory context.
func (tmc *TestMemoryContext) Release() {
	if tmc.cleanup != nil {
		tmc.cleanup()
	}
}

// SetupMemoryTest creates a memory allocator for tests.
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	return &TestMemoryContext{
		Allocator: memory.NewGoAllocator(),
	}
}

// SetupCheckedMemoryTest creates an allocator that fails the test on Release
// when any Arrow buffer allocated through it is still referenced.
func SetupCheckedMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	checked := memory.NewCheckedAllocator(memory.NewGoAllocator())
	return &TestMemoryContext{
		Allocator: checked,
		cleanup: func() {
			checked.AssertSize(tb, 0)
		},
	}
}

// TestDataFrameOption configures test DataFrame creation.
type TestDataFrameOption func(*testDataFrameConfig)

type testDataFrameConfig struct {
	includeNulls bool
	rowCount     int
}

// WithNulls marks every third salary as missing.
func WithNulls() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.includeNulls = true
	}
}

// WithRowCount sets the number of rows in test data.
func WithRowCount(count int) TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.rowCount = count
	}
}

// CreateTestDataFrame creates a standard test DataFrame with employee data.
//
// Default DataFrame includes:
// - name (string): ["Alice", "Bob", "Charlie", "David"]
// - department (string): ["Engineering", "Sales", "Engineering", "Marketing"]
// - age (int64): [25, 30, 35, 28]
// - salary (float64): [100000, 80000, 120000, 75000]
func CreateTestDataFrame(allocator memory.Allocator, opts ...TestDataFrameOption) *dataframe.DataFrame {
	cfg := &testDataFrameConfig{
		includeNulls: false,
		rowCount:     defaultRowCount,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	var valid []bool
	if cfg.includeNulls {
		valid = make([]bool, cfg.rowCount)
		for i := range valid {
			valid[i] = i%3 != 2
		}
	}

	return dataframe.New(
		series.New("name", generateNames(cfg.rowCount), allocator),
		series.New("department", generateDepartments(cfg.rowCount), allocator),
		series.New("age", generateAges(cfg.rowCount), allocator),
		series.NewWithValidity("salary", generateSalaries(cfg.rowCount), valid, allocator),
	)
}

// Float64Column returns the values of a float64 column with nil standing for missing values.
func Float64Column(t *testing.T, df *dataframe.DataFrame, name string) []*float64 {
	t.Helper()
	return columnValues[float64](t, df, name)
}

// Int64Column returns the values of an int64 column with nil standing for missing values.
func Int64Column(t *testing.T, df *dataframe.DataFrame, name string) []*int64 {
	t.Helper()
	return columnValues[int64](t, df, name)
}

func columnValues[T any](t *testing.T, df *dataframe.DataFrame, name string) []*T {
	t.Helper()

	require.NotNil(t, df, "DataFrame should not be nil")
	col, ok := df.Column(name)
	require.True(t, ok, "column %s should exist", name)
	typed, ok := col.(*series.Series[T])
	require.True(t, ok, "column %s has type %s", name, col.Type())

	out := make([]*T, typed.Len())
	for i := range out {
		if typed.IsNull(i) {
			continue
		}
		v := typed.Value(i)
		out[i] = &v
	}
	return out
}

// Ptr returns a pointer to v, for building expected column values.
func Ptr[T any](v T) *T {
	return &v
}

// AssertDataFrameEqual compares column names and every row rendered as strings.
func AssertDataFrameEqual(t *testing.T, expected, actual *dataframe.DataFrame) {
	t.Helper()

	require.NotNil(t, expected, "expected DataFrame should not be nil")
	require.NotNil(t, actual, "actual DataFrame should not be nil")

	if diff := cmp.Diff(expected.Columns(), actual.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(rows(expected), rows(actual)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func rows(df *dataframe.DataFrame) [][]string {
	out := make([][]string, df.Len())
	for i := range out {
		out[i] = df.Row(i)
	}
	return out
}

// AssertDataFrameHasColumns verifies that a DataFrame has exactly the expected columns in order.
func AssertDataFrameHasColumns(t *testing.T, df *dataframe.DataFrame, expectedColumns []string) {
	t.Helper()

	require.NotNil(t, df, "DataFrame should not be nil")
	assert.Equal(t, expectedColumns, df.Columns(), "columns should match")
}

// Helper functions for generating test data

func generateNames(count int) []string {
	baseNames := []string{"Alice", "Bob", "Charlie", "David", "Eve", "Frank", "Grace", "Henry"}
	names := make([]string, count)
	for i := range count {
		names[i] = baseNames[i%len(baseNames)]
	}
	return names
}

func generateAges(count int) []int64 {
	baseAges := []int64{25, 30, 35, 28, 32, 45, 29, 38}
	ages := make([]int64, count)
	for i := range count {
		ages[i] = baseAges[i%len(baseAges)]
	}
	return ages
}

func generateDepartments(count int) []string {
	baseDepts := []string{"Engineering", "Sales", "Engineering", "Marketing", "HR", "Finance", "Engineering", "Sales"}
	departments := make([]string, count)
	for i := range count {
		departments[i] = baseDepts[i%len(baseDepts)]
	}
	return departments
}

func generateSalaries(count int) []float64 {
	baseSalaries := []float64{100000, 80000, 120000, 75000, 90000, 110000, 95000, 85000}
	salaries := make([]float64, count)
	for i := range count {
		salaries[i] = baseSalaries[i%len(baseSalaries)]
	}
	return salaries
}
