package io_test

import (
	"path/filepath"
	"testing"

	"github.com/paveg/analytic/internal/io"
	"github.com/paveg/analytic/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path     string
		expected io.Format
		wantErr  bool
	}{
		{"sales.csv", io.FormatCSV, false},
		{"SALES.CSV", io.FormatCSV, false},
		{"sales.tsv", io.FormatTSV, false},
		{"sales.json", io.FormatJSON, false},
		{"sales.ndjson", io.FormatJSONLines, false},
		{"sales.jsonl", io.FormatJSONLines, false},
		{"sales.parquet", io.FormatParquet, false},
		{"sales.xlsx", "", true},
		{"sales", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format, err := io.DetectFormat(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestReadWriteFile(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	df := testutil.CreateTestDataFrame(mem.Allocator)
	defer df.Release()

	dir := t.TempDir()
	for _, name := range []string{"out.csv", "out.tsv", "out.jsonl", "out.parquet"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, io.WriteFile(path, df))

			read, err := io.ReadFile(path, mem.Allocator)
			require.NoError(t, err)
			defer read.Release()

			assert.Equal(t, df.Len(), read.Len())
			assert.ElementsMatch(t, df.Columns(), read.Columns())
		})
	}

	_, err := io.ReadFile(filepath.Join(dir, "missing.csv"), mem.Allocator)
	assert.Error(t, err)

	assert.Error(t, io.WriteFile(filepath.Join(dir, "out.txt"), df))
}
