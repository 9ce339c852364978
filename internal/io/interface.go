// Package io provides I/O operations for reading and writing DataFrame data.
//
// Supported formats are CSV (with type inference), JSON (array or JSON Lines)
// and Parquet. Readers build columns through the series package so that empty
// fields and JSON nulls become missing values rather than zero values.
//
// Memory management: every DataFrame returned by a reader owns Arrow memory
// and must be released by the caller.
package io

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/analytic/internal/dataframe"
)

// DefaultBatchSize is the default batch size for Parquet writes
const DefaultBatchSize = 1000

// DataReader defines the interface for reading data from various sources
type DataReader interface {
	// Read reads data from the source and returns a DataFrame
	Read() (*dataframe.DataFrame, error)
}

// DataWriter defines the interface for writing data to various destinations
type DataWriter interface {
	// Write writes the DataFrame to the destination
	Write(df *dataframe.DataFrame) error
}

// CSVOptions contains configuration options for CSV operations
type CSVOptions struct {
	// Delimiter is the field delimiter (default: comma)
	Delimiter rune
	// Comment is the comment character (default: 0 = disabled)
	Comment rune
	// Header indicates whether the first row contains headers
	Header bool
	// SkipInitialSpace indicates whether to skip initial whitespace
	SkipInitialSpace bool
	// TypeInference converts columns to int64, float64 or bool when every present value parses
	TypeInference bool
	// Workers bounds the goroutines parsing columns (0 = one per CPU)
	Workers int
}

// DefaultCSVOptions returns default CSV options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:     ',',
		Header:        true,
		TypeInference: true,
	}
}

// CSVReader reads CSV data and converts it to DataFrames
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
	mem     memory.Allocator
}

// NewCSVReader creates a new CSV reader with the specified options
func NewCSVReader(reader io.Reader, options CSVOptions, mem memory.Allocator) *CSVReader {
	return &CSVReader{
		reader:  reader,
		options: options,
		mem:     mem,
	}
}

// CSVWriter writes DataFrames to CSV format
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a new CSV writer with the specified options
func NewCSVWriter(writer io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{
		writer:  writer,
		options: options,
	}
}

// JSONFormat selects between a single JSON array and one object per line
type JSONFormat int

const (
	// JSONArray is a single top-level array of objects
	JSONArray JSONFormat = iota
	// JSONLines is one object per line
	JSONLines
)

// JSONOptions contains configuration options for JSON operations
type JSONOptions struct {
	Format JSONFormat
	// TypeInference keeps numbers and booleans typed; when false every value is read as a string
	TypeInference bool
	// MaxRecords limits the number of records read (0 = unlimited)
	MaxRecords int
}

// DefaultJSONOptions returns default JSON options
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{
		Format:        JSONArray,
		TypeInference: true,
	}
}

// JSONReader reads JSON data and converts it to DataFrames
type JSONReader struct {
	reader  io.Reader
	options JSONOptions
	mem     memory.Allocator
}

// NewJSONReader creates a new JSON reader with the specified options
func NewJSONReader(reader io.Reader, options JSONOptions, mem memory.Allocator) *JSONReader {
	return &JSONReader{
		reader:  reader,
		options: options,
		mem:     mem,
	}
}

// JSONWriter writes DataFrames as JSON
type JSONWriter struct {
	writer  io.Writer
	options JSONOptions
}

// NewJSONWriter creates a new JSON writer with the specified options
func NewJSONWriter(writer io.Writer, options JSONOptions) *JSONWriter {
	return &JSONWriter{
		writer:  writer,
		options: options,
	}
}

// ParquetOptions contains configuration options for Parquet operations
type ParquetOptions struct {
	// Compression type for Parquet files
	Compression string
	// BatchSize for reading/writing operations
	BatchSize int
}

// DefaultParquetOptions returns default Parquet options
func DefaultParquetOptions() ParquetOptions {
	return ParquetOptions{
		Compression: "snappy",
		BatchSize:   DefaultBatchSize,
	}
}

// ParquetReader reads Parquet data and converts it to DataFrames
type ParquetReader struct {
	reader  io.Reader
	options ParquetOptions
	mem     memory.Allocator
}

// NewParquetReader creates a new Parquet reader with the specified options
func NewParquetReader(reader io.Reader, options ParquetOptions, mem memory.Allocator) *ParquetReader {
	return &ParquetReader{
		reader:  reader,
		options: options,
		mem:     mem,
	}
}

// ParquetWriter writes DataFrames to Parquet format
type ParquetWriter struct {
	writer  io.Writer
	options ParquetOptions
}

// NewParquetWriter creates a new Parquet writer with the specified options
func NewParquetWriter(writer io.Writer, options ParquetOptions) *ParquetWriter {
	return &ParquetWriter{
		writer:  writer,
		options: options,
	}
}
