package dataframe

import (
	"strconv"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"
	dferrors "github.com/paveg/analytic/internal/errors"
)

// Partition is an ordered view of row indices into a DataFrame
type Partition struct {
	frame *DataFrame
	rows  []int
}

// WholePartition returns a single partition covering every row of df in physical order
func WholePartition(df *DataFrame) *Partition {
	rows := make([]int, df.Len())
	for i := range rows {
		rows[i] = i
	}
	return &Partition{frame: df, rows: rows}
}

// RowCount returns the number of rows in the partition
func (p *Partition) RowCount() int {
	return len(p.rows)
}

// MappedRowNumber translates a partition-local position into a physical row index
func (p *Partition) MappedRowNumber(localIndex int) int {
	return p.rows[localIndex]
}

// RowNumbers returns a copy of the physical row indices in partition order
func (p *Partition) RowNumbers() []int {
	return append([]int(nil), p.rows...)
}

// Frame returns the DataFrame the partition indexes into
func (p *Partition) Frame() *DataFrame {
	return p.frame
}

type partitionGroup struct {
	key  string
	rows []int
}

// PartitionBy splits df into groups of rows sharing identical values in columns.
// Missing values form their own key. Partitions are returned in order of first
// appearance and rows keep their physical order inside each partition.
func PartitionBy(df *DataFrame, columns ...string) ([]*Partition, error) {
	if len(columns) == 0 {
		return []*Partition{WholePartition(df)}, nil
	}

	keyColumns := make([]ISeries, 0, len(columns))
	for _, name := range columns {
		col, exists := df.Column(name)
		if !exists {
			return nil, dferrors.NewColumnNotFoundError("PartitionBy", name)
		}
		keyColumns = append(keyColumns, col)
	}

	buckets := make(map[uint64][]int)
	var groups []*partitionGroup
	var sb strings.Builder

	for row := 0; row < df.Len(); row++ {
		sb.Reset()
		for _, col := range keyColumns {
			writeKeyPart(&sb, col, row)
		}
		key := sb.String()
		hash := xxhash.Sum64String(key)

		found := false
		for _, g := range buckets[hash] {
			if groups[g].key == key {
				groups[g].rows = append(groups[g].rows, row)
				found = true
				break
			}
		}
		if !found {
			buckets[hash] = append(buckets[hash], len(groups))
			groups = append(groups, &partitionGroup{key: key, rows: []int{row}})
		}
	}

	partitions := make([]*Partition, len(groups))
	for i, g := range groups {
		partitions[i] = &Partition{frame: df, rows: g.rows}
	}
	return partitions, nil
}

// writeKeyPart appends one length-prefixed key component so that no two
// distinct value sequences produce the same key
func writeKeyPart(sb *strings.Builder, col ISeries, row int) {
	if col.IsNull(row) {
		sb.WriteByte('n')
		return
	}
	value := col.GetAsString(row)
	sb.WriteByte('v')
	sb.WriteString(strconv.Itoa(len(value)))
	sb.WriteByte(':')
	sb.WriteString(value)
}
