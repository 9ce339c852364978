package io

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/analytic/internal/dataframe"
)

// Format identifies a file format by extension
type Format string

const (
	FormatCSV       Format = "csv"
	FormatTSV       Format = "tsv"
	FormatJSON      Format = "json"
	FormatJSONLines Format = "jsonl"
	FormatParquet   Format = "parquet"
)

// DetectFormat maps a file extension to a Format
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONLines, nil
	case ".parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported file format: %q", ext)
	}
}

// ReadFile reads a DataFrame from path using default options for the detected format
func ReadFile(path string, mem memory.Allocator) (*dataframe.DataFrame, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var reader DataReader
	switch format {
	case FormatCSV, FormatTSV:
		opts := DefaultCSVOptions()
		if format == FormatTSV {
			opts.Delimiter = '\t'
		}
		reader = NewCSVReader(f, opts, mem)
	case FormatJSON, FormatJSONLines:
		opts := DefaultJSONOptions()
		if format == FormatJSONLines {
			opts.Format = JSONLines
		}
		reader = NewJSONReader(f, opts, mem)
	default:
		reader = NewParquetReader(f, DefaultParquetOptions(), mem)
	}

	df, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return df, nil
}

// WriteFile writes df to path using default options for the detected format
func WriteFile(path string, df *dataframe.DataFrame) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	var writer DataWriter
	switch format {
	case FormatCSV, FormatTSV:
		opts := DefaultCSVOptions()
		if format == FormatTSV {
			opts.Delimiter = '\t'
		}
		writer = NewCSVWriter(f, opts)
	case FormatJSON, FormatJSONLines:
		opts := DefaultJSONOptions()
		if format == FormatJSONLines {
			opts.Format = JSONLines
		}
		writer = NewJSONWriter(f, opts)
	default:
		writer = NewParquetWriter(f, DefaultParquetOptions())
	}

	if err := writer.Write(df); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
