package io

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/paveg/analytic/internal/dataframe"
	"github.com/paveg/analytic/internal/series"
)

var parquetCodecs = map[string]compress.Compression{
	"snappy":       compress.Codecs.Snappy,
	"gzip":         compress.Codecs.Gzip,
	"lz4":          compress.Codecs.Lz4Raw,
	"zstd":         compress.Codecs.Zstd,
	"uncompressed": compress.Codecs.Uncompressed,
}

// Read reads Parquet data and returns a DataFrame.
func (r *ParquetReader) Read() (*dataframe.DataFrame, error) {
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}

	pqReader, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating parquet file reader: %w", err)
	}
	defer pqReader.Close()

	props := pqarrow.ArrowReadProperties{BatchSize: int64(r.options.BatchSize)}
	arrowReader, err := pqarrow.NewFileReader(pqReader, props, r.mem)
	if err != nil {
		return nil, fmt.Errorf("creating arrow file reader: %w", err)
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	defer table.Release()

	return r.tableToDataFrame(table)
}

func (r *ParquetReader) tableToDataFrame(table arrow.Table) (*dataframe.DataFrame, error) {
	schema := table.Schema()
	columns := make([]dataframe.ISeries, 0, table.NumCols())

	for i := 0; i < int(table.NumCols()); i++ {
		field := schema.Field(i)
		col, err := r.chunkedToColumn(field, table.Column(i).Data())
		if err != nil {
			releaseColumns(columns)
			return nil, fmt.Errorf("converting column %s: %w", field.Name, err)
		}
		columns = append(columns, col)
	}

	return dataframe.New(columns...), nil
}

// chunkedToColumn flattens the chunks of a column into a single array
func (r *ParquetReader) chunkedToColumn(field arrow.Field, chunked *arrow.Chunked) (dataframe.ISeries, error) {
	var arr arrow.Array
	switch chunks := chunked.Chunks(); len(chunks) {
	case 0:
		arr = array.MakeArrayOfNull(r.mem, field.Type, 0)
	case 1:
		arr = chunks[0]
		arr.Retain()
	default:
		concatenated, err := array.Concatenate(chunks, r.mem)
		if err != nil {
			return nil, err
		}
		arr = concatenated
	}
	defer arr.Release()

	return series.FromArray(field.Name, arr)
}

// Write writes the DataFrame to Parquet format.
func (w *ParquetWriter) Write(df *dataframe.DataFrame) error {
	compression, ok := parquetCodecs[w.options.Compression]
	if !ok {
		return fmt.Errorf("unsupported parquet compression: %q", w.options.Compression)
	}

	table := dataFrameToTable(df)
	defer table.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compression),
		parquet.WithBatchSize(int64(w.options.BatchSize)),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithAllocator(memory.NewGoAllocator()),
		pqarrow.WithStoreSchema(),
	)

	// the file writer closes sinks that implement io.Closer; the caller owns w.writer
	sink := struct{ io.Writer }{w.writer}
	writer, err := pqarrow.NewFileWriter(table.Schema(), sink, props, arrowProps)
	if err != nil {
		return fmt.Errorf("creating file writer: %w", err)
	}

	chunkSize := int64(w.options.BatchSize)
	if chunkSize <= 0 {
		chunkSize = DefaultBatchSize
	}
	if err := writer.WriteTable(table, chunkSize); err != nil {
		_ = writer.Close()
		return fmt.Errorf("writing table: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return nil
}

// dataFrameToTable shares the column arrays of df with the returned table
func dataFrameToTable(df *dataframe.DataFrame) arrow.Table {
	names := df.Columns()
	fields := make([]arrow.Field, 0, len(names))
	columns := make([]arrow.Column, 0, len(names))

	for _, name := range names {
		col, _ := df.Column(name)
		arr := col.Array()

		field := arrow.Field{Name: name, Type: arr.DataType(), Nullable: true}
		chunked := arrow.NewChunked(arr.DataType(), []arrow.Array{arr})
		arr.Release()

		fields = append(fields, field)
		columns = append(columns, *arrow.NewColumn(field, chunked))
		chunked.Release()
	}

	schema := arrow.NewSchema(fields, nil)
	table := array.NewTable(schema, columns, int64(df.Len()))
	for i := range columns {
		columns[i].Release()
	}
	return table
}
