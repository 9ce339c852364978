package io

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/paveg/analytic/internal/dataframe"
	"github.com/paveg/analytic/internal/parallel"
	"github.com/paveg/analytic/internal/series"
)

// Read reads CSV data and returns a DataFrame. Empty fields are read as missing values.
func (r *CSVReader) Read() (*dataframe.DataFrame, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	if len(records) == 0 {
		return dataframe.New(), nil
	}

	var headers []string
	dataRows := records
	if r.options.Header {
		headers = records[0]
		dataRows = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
	}

	// columns are parsed concurrently into Go memory and only then moved to Arrow buffers
	parsed, err := parallel.ProcessIndexed(context.Background(), parallel.NewWorkerPool(r.options.Workers), headers,
		func(_ context.Context, i int, header string) (series.MutableColumn, error) {
			fields := make([]string, len(dataRows))
			for j, row := range dataRows {
				fields[j] = row[i]
			}
			column, err := r.parseColumn(header, fields)
			if err != nil {
				return nil, fmt.Errorf("creating series for column %s: %w", header, err)
			}
			return column, nil
		})
	if err != nil {
		return nil, err
	}

	columns := make([]dataframe.ISeries, len(parsed))
	for i, column := range parsed {
		columns[i] = column.NewColumn(r.mem)
	}

	df, err := dataframe.NewSafe(columns...)
	if err != nil {
		releaseColumns(columns)
		return nil, err
	}
	return df, nil
}

func (r *CSVReader) parseColumn(name string, fields []string) (series.MutableColumn, error) {
	columnType := series.TypeString
	if r.options.TypeInference {
		columnType = inferColumnType(fields)
	}

	column := columnType.Create(name)
	for _, field := range fields {
		if field == "" {
			column.AppendMissing()
			continue
		}
		if err := appendParsed(column, field); err != nil {
			return nil, err
		}
	}
	return column, nil
}

// inferColumnType picks the narrowest of bool, int64, float64 and string that every non-empty field parses as
func inferColumnType(fields []string) series.ColumnType {
	canBeInt := true
	canBeFloat := true
	canBeBool := true
	hasValue := false

	for _, value := range fields {
		if value == "" {
			continue
		}
		hasValue = true

		if canBeBool {
			canBeBool = isBoolWord(value)
		}
		if canBeInt {
			if _, err := strconv.ParseInt(value, 10, 64); err != nil {
				canBeInt = false
			}
		}
		if canBeFloat {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				canBeFloat = false
			}
		}
	}

	switch {
	case !hasValue:
		return series.TypeString
	case canBeBool:
		return series.TypeBoolean
	case canBeInt:
		return series.TypeInt64
	case canBeFloat:
		return series.TypeFloat64
	default:
		return series.TypeString
	}
}

func isBoolWord(value string) bool {
	lower := strings.ToLower(value)
	return lower == "true" || lower == "false"
}

func appendParsed(column series.MutableColumn, field string) error {
	switch c := column.(type) {
	case *series.Mutable[bool]:
		c.Append(strings.EqualFold(field, "true"))
	case *series.Mutable[int64]:
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing %q as int64: %w", field, err)
		}
		c.Append(v)
	case *series.Mutable[float64]:
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return fmt.Errorf("parsing %q as float64: %w", field, err)
		}
		c.Append(v)
	case *series.Mutable[string]:
		c.Append(field)
	default:
		return fmt.Errorf("unsupported column type %s", column.Type())
	}
	return nil
}

func releaseColumns(columns []dataframe.ISeries) {
	for _, col := range columns {
		col.Release()
	}
}

// Write writes the DataFrame to CSV format. Missing values are written as empty fields.
func (w *CSVWriter) Write(df *dataframe.DataFrame) error {
	csvWriter := csv.NewWriter(w.writer)
	csvWriter.Comma = w.options.Delimiter

	if w.options.Header {
		if err := csvWriter.Write(df.Columns()); err != nil {
			return fmt.Errorf("writing headers: %w", err)
		}
	}

	for i := 0; i < df.Len(); i++ {
		if err := csvWriter.Write(df.Row(i)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
