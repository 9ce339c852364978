package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSalesCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	data := "region,week,revenue\nnorth,1,10\nsouth,1,5\nnorth,2,\nsouth,2,7\nnorth,3,30\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestRunCommand(t *testing.T) {
	path := writeSalesCSV(t)

	out, err := runCLI(t, "run", "--file", path,
		"--partition-by", "region", "--order-by", "week",
		"--start", "unbounded-preceding", "--end", "current-row",
		"--func", "sum:revenue:running", "--func", "rank:r")
	require.NoError(t, err)

	assert.Contains(t, out, "RUNNING")
	assert.Contains(t, out, "40")
	assert.Contains(t, out, "(5 rows)")
}

func TestRunCommandWritesOutput(t *testing.T) {
	path := writeSalesCSV(t)
	target := filepath.Join(t.TempDir(), "result.json")

	out, err := runCLI(t, "run", "--file", path, "--order-by", "revenue:desc",
		"--func", "row_number:n", "--keep-columns", "--output", target)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 5 rows")

	written, err := os.ReadFile(target)
	require.NoError(t, err)
	// missing values sort first
	assert.Contains(t, string(written), `{"region":"north","week":2,"revenue":null,"n":1}`)
	assert.Contains(t, string(written), `{"region":"north","week":3,"revenue":30,"n":2}`)
}

func TestRunCommandWritesParquet(t *testing.T) {
	path := writeSalesCSV(t)
	target := filepath.Join(t.TempDir(), "result.parquet")

	out, err := runCLI(t, "run", "--file", path, "--partition-by", "region", "--order-by", "week",
		"--func", "dense_rank:d", "--keep-columns", "--output", target)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 5 rows")

	out, err = runCLI(t, "run", "--file", target, "--order-by", "d:desc", "--func", "row_number:n",
		"--keep-columns", "--select", "n,region")
	require.NoError(t, err)
	assert.Contains(t, out, "N")
	assert.Contains(t, out, "north")
	assert.NotContains(t, out, "REVENUE")
}

func TestRunCommandSelectUnknownColumn(t *testing.T) {
	path := writeSalesCSV(t)

	_, err := runCLI(t, "run", "--file", path, "--order-by", "week", "--func", "rank:r", "--select", "r,nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestRunCommandErrors(t *testing.T) {
	path := writeSalesCSV(t)

	_, err := runCLI(t, "run", "--file", path, "--start", "current-row", "--end", "unbounded-following",
		"--func", "mean:revenue:avg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MEAN is not implemented")

	_, err = runCLI(t, "run", "--file", path, "--order-by", "region",
		"--func", "sum:region:s", "--start", "current-row", "--end", "current-row")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numeric")

	_, err = runCLI(t, "run", "--func", "rank:r")
	assert.Error(t, err)
}

func TestDemoCommand(t *testing.T) {
	out, err := runCLI(t, "demo", "--rows", "6", "--metrics-collection")
	require.NoError(t, err)

	assert.Contains(t, out, "ROWS BETWEEN 2 PRECEDING AND CURRENT ROW")
	assert.Contains(t, out, "ROLLING_REVENUE")
	assert.Contains(t, out, "(6 rows)")
	assert.Contains(t, out, "PARTITIONS")
	assert.Contains(t, strings.ToUpper(out), "1 QUERIES, 0 FAILED")
}

func TestConfigCommand(t *testing.T) {
	out, err := runCLI(t, "config", "--worker-pool-size", "3", "--log-level", "warn")
	require.NoError(t, err)

	assert.Contains(t, out, "worker_pool_size: 3")
	assert.Contains(t, out, "log_level: warn")

	_, err = runCLI(t, "config", "--log-level", "loud")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "analytic window engine")

	out, err = runCLI(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)
}
