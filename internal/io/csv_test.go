package io_test

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/paveg/analytic/internal/io"
	"github.com/paveg/analytic/internal/series"
	"github.com/paveg/analytic/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVReader(t *testing.T) {
	mem := testutil.SetupCheckedMemoryTest(t)
	defer mem.Release()

	t.Run("reads simple CSV with headers", func(t *testing.T) {
		csvData := `name,age,salary
Alice,25,50000.5
Bob,30,60000
Charlie,35,70000`

		df, err := io.NewCSVReader(strings.NewReader(csvData), io.DefaultCSVOptions(), mem.Allocator).Read()
		require.NoError(t, err)
		defer df.Release()

		assert.Equal(t, 3, df.Len())
		testutil.AssertDataFrameHasColumns(t, df, []string{"name", "age", "salary"})

		assertColumnType(t, df.ColumnType, "name", series.TypeString)
		assertColumnType(t, df.ColumnType, "age", series.TypeInt64)
		assertColumnType(t, df.ColumnType, "salary", series.TypeFloat64)
		assert.Equal(t, []string{"Alice", "25", "50000.5"}, df.Row(0))
	})

	t.Run("reads CSV without headers", func(t *testing.T) {
		options := io.DefaultCSVOptions()
		options.Header = false

		df, err := io.NewCSVReader(strings.NewReader("Alice,25\nBob,30"), options, mem.Allocator).Read()
		require.NoError(t, err)
		defer df.Release()

		assert.Equal(t, 2, df.Len())
		testutil.AssertDataFrameHasColumns(t, df, []string{"column_0", "column_1"})
	})

	t.Run("empty fields are missing", func(t *testing.T) {
		csvData := `name,age,salary
Alice,,50000
,30,
Bob,25,`

		df, err := io.NewCSVReader(strings.NewReader(csvData), io.DefaultCSVOptions(), mem.Allocator).Read()
		require.NoError(t, err)
		defer df.Release()

		assert.Equal(t, []*int64{nil, testutil.Ptr[int64](30), testutil.Ptr[int64](25)}, testutil.Int64Column(t, df, "age"))
		name, _ := df.Column("name")
		assert.True(t, name.IsNull(1))
	})

	t.Run("infers booleans", func(t *testing.T) {
		df, err := io.NewCSVReader(strings.NewReader("flag,bits\ntrue,1\nFALSE,0"), io.DefaultCSVOptions(), mem.Allocator).Read()
		require.NoError(t, err)
		defer df.Release()

		assertColumnType(t, df.ColumnType, "flag", series.TypeBoolean)
		assertColumnType(t, df.ColumnType, "bits", series.TypeInt64)
		assert.Equal(t, []string{"false", "0"}, df.Row(1))
	})

	t.Run("type inference disabled keeps strings", func(t *testing.T) {
		options := io.DefaultCSVOptions()
		options.TypeInference = false

		df, err := io.NewCSVReader(strings.NewReader("age\n25\n30"), options, mem.Allocator).Read()
		require.NoError(t, err)
		defer df.Release()

		assertColumnType(t, df.ColumnType, "age", series.TypeString)
	})

	t.Run("custom delimiter and comments", func(t *testing.T) {
		options := io.DefaultCSVOptions()
		options.Delimiter = ';'
		options.Comment = '#'
		options.SkipInitialSpace = true

		csvData := "a; b\n# skipped\n1; 2\n"
		df, err := io.NewCSVReader(strings.NewReader(csvData), options, mem.Allocator).Read()
		require.NoError(t, err)
		defer df.Release()

		testutil.AssertDataFrameHasColumns(t, df, []string{"a", "b"})
		assert.Equal(t, 1, df.Len())
	})

	t.Run("header only", func(t *testing.T) {
		df, err := io.NewCSVReader(strings.NewReader("a,b\n"), io.DefaultCSVOptions(), mem.Allocator).Read()
		require.NoError(t, err)
		defer df.Release()

		assert.Equal(t, 0, df.Len())
		assert.Equal(t, 2, df.Width())
	})

	t.Run("empty input", func(t *testing.T) {
		df, err := io.NewCSVReader(strings.NewReader(""), io.DefaultCSVOptions(), mem.Allocator).Read()
		require.NoError(t, err)
		assert.Equal(t, 0, df.Width())
	})

	t.Run("inconsistent column counts", func(t *testing.T) {
		_, err := io.NewCSVReader(strings.NewReader("a,b\n1,2\n3"), io.DefaultCSVOptions(), mem.Allocator).Read()
		assert.Error(t, err)
	})

	t.Run("duplicate headers", func(t *testing.T) {
		_, err := io.NewCSVReader(strings.NewReader("a,a\n1,2"), io.DefaultCSVOptions(), mem.Allocator).Read()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate column name")
	})
}

func TestCSVReader_WorkerCounts(t *testing.T) {
	mem := testutil.SetupCheckedMemoryTest(t)
	defer mem.Release()

	var sb strings.Builder
	sb.WriteString("id,label,score,active,ratio\n")
	for i := range 50 {
		sb.WriteString(strings.Join([]string{
			strconv.Itoa(i), "row" + strconv.Itoa(i), strconv.Itoa(i * 3), strconv.FormatBool(i%2 == 0), "0." + strconv.Itoa(i),
		}, ","))
		sb.WriteString("\n")
	}
	data := sb.String()

	options := io.DefaultCSVOptions()
	options.Workers = 1
	sequential, err := io.NewCSVReader(strings.NewReader(data), options, mem.Allocator).Read()
	require.NoError(t, err)
	defer sequential.Release()

	options.Workers = 4
	concurrent, err := io.NewCSVReader(strings.NewReader(data), options, mem.Allocator).Read()
	require.NoError(t, err)
	defer concurrent.Release()

	testutil.AssertDataFrameHasColumns(t, concurrent, []string{"id", "label", "score", "active", "ratio"})
	assertColumnType(t, concurrent.ColumnType, "active", series.TypeBoolean)
	testutil.AssertDataFrameEqual(t, sequential, concurrent)
}

func TestCSVWriter(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	df := testutil.CreateTestDataFrame(mem.Allocator, testutil.WithNulls(), testutil.WithRowCount(3))
	defer df.Release()

	t.Run("writes header and missing values as empty fields", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, io.NewCSVWriter(&buf, io.DefaultCSVOptions()).Write(df))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "name,department,age,salary", lines[0])
		assert.True(t, strings.HasSuffix(lines[3], ","))
	})

	t.Run("writes without header", func(t *testing.T) {
		options := io.DefaultCSVOptions()
		options.Header = false
		options.Delimiter = '\t'

		var buf bytes.Buffer
		require.NoError(t, io.NewCSVWriter(&buf, options).Write(df))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Len(t, lines, 3)
		assert.Contains(t, lines[0], "\t")
	})

	t.Run("round trip", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, io.NewCSVWriter(&buf, io.DefaultCSVOptions()).Write(df))

		read, err := io.NewCSVReader(&buf, io.DefaultCSVOptions(), mem.Allocator).Read()
		require.NoError(t, err)
		defer read.Release()

		testutil.AssertDataFrameEqual(t, df, read)
	})
}

func assertColumnType(t *testing.T, lookup func(string) (series.ColumnType, bool), name string, expected series.ColumnType) {
	t.Helper()
	ct, ok := lookup(name)
	require.True(t, ok, "column %s should exist", name)
	assert.Equal(t, expected, ct, "column %s", name)
}
