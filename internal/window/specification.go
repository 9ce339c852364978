package window

import (
	"strings"

	"github.com/paveg/analytic/internal/common"
	"github.com/paveg/analytic/internal/dataframe"
	dferrors "github.com/paveg/analytic/internal/errors"
	"github.com/paveg/analytic/internal/validation"
)

// WindowSpecification holds the PARTITION BY columns and ORDER BY keys of a query
type WindowSpecification struct {
	partitionColumns []string
	orderBy          []dataframe.SortKey
}

// NewWindowSpecification creates an immutable specification.
// Partition columns must be non-empty and unique.
func NewWindowSpecification(partitionColumns []string, orderBy []dataframe.SortKey) (*WindowSpecification, error) {
	for _, column := range partitionColumns {
		if column == "" {
			return nil, dferrors.NewInvalidInputError("PartitionBy", "partition column name cannot be empty")
		}
	}
	for _, key := range orderBy {
		if key.Column == "" {
			return nil, dferrors.NewInvalidInputError("OrderBy", "order column name cannot be empty")
		}
	}
	if err := validation.ValidateUnique("PartitionBy", partitionColumns...); err != nil {
		return nil, err
	}

	return &WindowSpecification{
		partitionColumns: append([]string(nil), partitionColumns...),
		orderBy:          append([]dataframe.SortKey(nil), orderBy...),
	}, nil
}

// PartitionColumns returns a copy of the partition column names
func (s *WindowSpecification) PartitionColumns() []string {
	return append([]string(nil), s.partitionColumns...)
}

// OrderBy returns a copy of the ordering keys
func (s *WindowSpecification) OrderBy() []dataframe.SortKey {
	return append([]dataframe.SortKey(nil), s.orderBy...)
}

// IsPartitioned reports whether the query has PARTITION BY columns
func (s *WindowSpecification) IsPartitioned() bool {
	return len(s.partitionColumns) > 0
}

// IsOrdered reports whether the query has ORDER BY keys
func (s *WindowSpecification) IsOrdered() bool {
	return len(s.orderBy) > 0
}

// Columns returns every column the specification reads, partition columns first
func (s *WindowSpecification) Columns() []string {
	columns := append([]string(nil), s.partitionColumns...)
	for _, key := range s.orderBy {
		columns = append(columns, key.Column)
	}
	return columns
}

// String renders the PARTITION BY and ORDER BY clauses
func (s *WindowSpecification) String() string {
	var parts []string
	if s.IsPartitioned() {
		parts = append(parts, common.FormatSQLClause("partition by", strings.Join(s.partitionColumns, ", ")))
	}
	if s.IsOrdered() {
		keys := make([]string, len(s.orderBy))
		for i, key := range s.orderBy {
			keys[i] = key.String()
		}
		parts = append(parts, common.FormatSQLClause("order by", strings.Join(keys, ", ")))
	}
	return strings.Join(parts, " ")
}
