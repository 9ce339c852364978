package io

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/paveg/analytic/internal/dataframe"
	"github.com/paveg/analytic/internal/series"
)

// Read reads JSON data and returns a DataFrame.
// Columns are ordered by name; absent keys and nulls become missing values.
func (r *JSONReader) Read() (*dataframe.DataFrame, error) {
	records, err := r.readRecords()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return dataframe.New(), nil
	}
	return r.recordsToDataFrame(records)
}

func (r *JSONReader) readRecords() ([]map[string]interface{}, error) {
	decoder := json.NewDecoder(r.reader)
	decoder.UseNumber()

	switch r.options.Format {
	case JSONArray:
		var records []map[string]interface{}
		if err := decoder.Decode(&records); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, fmt.Errorf("unmarshaling JSON array: %w", err)
		}
		if r.options.MaxRecords > 0 && len(records) > r.options.MaxRecords {
			records = records[:r.options.MaxRecords]
		}
		return records, nil

	case JSONLines:
		var records []map[string]interface{}
		for r.options.MaxRecords <= 0 || len(records) < r.options.MaxRecords {
			var record map[string]interface{}
			err := decoder.Decode(&record)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("unmarshaling JSON line %d: %w", len(records)+1, err)
			}
			records = append(records, record)
		}
		return records, nil

	default:
		return nil, fmt.Errorf("unsupported JSON format: %d", r.options.Format)
	}
}

func (r *JSONReader) recordsToDataFrame(records []map[string]interface{}) (*dataframe.DataFrame, error) {
	names := make(map[string]struct{})
	for _, record := range records {
		for key := range record {
			names[key] = struct{}{}
		}
	}

	columns := make([]dataframe.ISeries, 0, len(names))
	for _, name := range slices.Sorted(maps.Keys(names)) {
		values := make([]interface{}, len(records))
		for i, record := range records {
			values[i] = record[name]
		}

		col, err := r.buildColumn(name, values)
		if err != nil {
			releaseColumns(columns)
			return nil, fmt.Errorf("creating series for column %s: %w", name, err)
		}
		columns = append(columns, col)
	}

	return dataframe.New(columns...), nil
}

func (r *JSONReader) buildColumn(name string, values []interface{}) (dataframe.ISeries, error) {
	columnType := series.TypeString
	if r.options.TypeInference {
		columnType = inferJSONType(values)
	}

	column := columnType.Create(name)
	for _, v := range values {
		if v == nil {
			column.AppendMissing()
			continue
		}
		field := jsonValueString(v)
		if columnType == series.TypeString {
			column.(*series.Mutable[string]).Append(field)
			continue
		}
		if err := appendParsed(column, field); err != nil {
			return nil, err
		}
	}
	return column.NewColumn(r.mem), nil
}

// inferJSONType keeps a column typed only when every present value shares a JSON kind
func inferJSONType(values []interface{}) series.ColumnType {
	var hasBool, hasNumber, hasFloat, hasOther bool

	for _, v := range values {
		switch val := v.(type) {
		case nil:
		case bool:
			hasBool = true
		case json.Number:
			hasNumber = true
			if _, err := strconv.ParseInt(val.String(), 10, 64); err != nil {
				hasFloat = true
			}
		default:
			hasOther = true
		}
	}

	switch {
	case hasOther, hasBool && hasNumber:
		return series.TypeString
	case hasBool:
		return series.TypeBoolean
	case hasFloat:
		return series.TypeFloat64
	case hasNumber:
		return series.TypeInt64
	default:
		return series.TypeString
	}
}

func jsonValueString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		out, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(out)
	}
}

// Write writes the DataFrame as JSON. Missing values are written as null.
func (w *JSONWriter) Write(df *dataframe.DataFrame) error {
	records := make([]orderedRecord, df.Len())
	for i := range records {
		records[i] = newOrderedRecord(df, i)
	}

	switch w.options.Format {
	case JSONArray:
		out, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("marshaling JSON array: %w", err)
		}
		if _, err := w.writer.Write(append(out, '\n')); err != nil {
			return fmt.Errorf("writing JSON array: %w", err)
		}
	case JSONLines:
		for i, record := range records {
			out, err := record.MarshalJSON()
			if err != nil {
				return fmt.Errorf("marshaling row %d: %w", i, err)
			}
			if _, err := w.writer.Write(append(out, '\n')); err != nil {
				return fmt.Errorf("writing row %d: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("unsupported JSON format: %d", w.options.Format)
	}
	return nil
}

// orderedRecord is one row that marshals with keys in column order
type orderedRecord struct {
	names  []string
	values []interface{}
}

func newOrderedRecord(df *dataframe.DataFrame, row int) orderedRecord {
	record := orderedRecord{names: df.Columns()}
	record.values = make([]interface{}, len(record.names))
	for i, name := range record.names {
		col, _ := df.Column(name)
		record.values[i] = columnValue(col, row)
	}
	return record
}

func (o orderedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range o.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(o.values[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func columnValue(col dataframe.ISeries, row int) interface{} {
	if col.IsNull(row) {
		return nil
	}
	switch s := col.(type) {
	case *series.Series[int64]:
		return s.Value(row)
	case *series.Series[int32]:
		return s.Value(row)
	case *series.Series[float64]:
		return s.Value(row)
	case *series.Series[float32]:
		return s.Value(row)
	case *series.Series[bool]:
		return s.Value(row)
	default:
		return col.GetAsString(row)
	}
}
