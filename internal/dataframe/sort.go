package dataframe

import (
	"fmt"
	"math"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/paveg/analytic/internal/common"
	dferrors "github.com/paveg/analytic/internal/errors"
	"golang.org/x/exp/constraints"
)

// SortKey orders rows by one column
type SortKey struct {
	Column    string
	Ascending bool
}

// String renders the key as "column ASC" or "column DESC"
func (k SortKey) String() string {
	return common.FormatSort(k.Column, k.Ascending)
}

// Comparator compares two physical rows of one column.
// Missing values sort before present values regardless of direction.
// NaN is the largest float.
type Comparator interface {
	Compare(i, j int) int
}

// compareNulls handles null comparison for any comparator.
// The second result is false when neither value is null.
func compareNulls(arr arrow.Array, i, j int) (int, bool) {
	isNull1, isNull2 := arr.IsNull(i), arr.IsNull(j)
	switch {
	case isNull1 && isNull2:
		return 0, true
	case isNull1:
		return -1, true
	case isNull2:
		return 1, true
	default:
		return 0, false
	}
}

// compareOrdered compares two values with ascending/descending order.
func compareOrdered[T constraints.Ordered](v1, v2 T, ascending bool) int {
	var result int
	switch {
	case v1 < v2:
		result = -1
	case v1 > v2:
		result = 1
	default:
		result = 0
	}
	if ascending {
		return result
	}
	return -result
}

// orderedComparator compares values of any ordered Arrow array
type orderedComparator[T constraints.Ordered] struct {
	arr       arrow.Array
	value     func(int) T
	ascending bool
}

func (c *orderedComparator[T]) Compare(i, j int) int {
	if nullCmp, isNull := compareNulls(c.arr, i, j); isNull {
		return nullCmp
	}
	return compareOrdered(c.value(i), c.value(j), c.ascending)
}

// floatComparator ranks NaN above every number and equal to any other NaN
type floatComparator[T constraints.Float] struct {
	arr       arrow.Array
	value     func(int) T
	ascending bool
}

func (c *floatComparator[T]) Compare(i, j int) int {
	if nullCmp, isNull := compareNulls(c.arr, i, j); isNull {
		return nullCmp
	}
	v1, v2 := c.value(i), c.value(j)
	nan1, nan2 := math.IsNaN(float64(v1)), math.IsNaN(float64(v2))
	switch {
	case nan1 && nan2:
		return 0
	case nan1:
		return compareOrdered(1, 0, c.ascending)
	case nan2:
		return compareOrdered(0, 1, c.ascending)
	}
	return compareOrdered(v1, v2, c.ascending)
}

// booleanComparator orders false before true
type booleanComparator struct {
	arr       *array.Boolean
	ascending bool
}

func (c *booleanComparator) Compare(i, j int) int {
	if nullCmp, isNull := compareNulls(c.arr, i, j); isNull {
		return nullCmp
	}
	return compareOrdered(boolRank(c.arr.Value(i)), boolRank(c.arr.Value(j)), c.ascending)
}

func boolRank(v bool) int {
	if v {
		return 1
	}
	return 0
}

// newComparator creates a type-specific comparator for an arrow array.
func newComparator(arr arrow.Array, ascending bool) (Comparator, error) {
	switch a := arr.(type) {
	case *array.Int64:
		return &orderedComparator[int64]{arr: a, value: a.Value, ascending: ascending}, nil
	case *array.Int32:
		return &orderedComparator[int32]{arr: a, value: a.Value, ascending: ascending}, nil
	case *array.Float64:
		return &floatComparator[float64]{arr: a, value: a.Value, ascending: ascending}, nil
	case *array.Float32:
		return &floatComparator[float32]{arr: a, value: a.Value, ascending: ascending}, nil
	case *array.String:
		return &orderedComparator[string]{arr: a, value: a.Value, ascending: ascending}, nil
	case *array.Boolean:
		return &booleanComparator{arr: a, ascending: ascending}, nil
	default:
		return nil, dferrors.NewUnsupportedTypeError("Sort", arr.DataType().String())
	}
}

// rowComparator compares whole rows under a list of sort keys
type rowComparator struct {
	arrays      []arrow.Array
	comparators []Comparator
}

func (df *DataFrame) newRowComparator(keys []SortKey) (*rowComparator, error) {
	rc := &rowComparator{}
	for _, key := range keys {
		col, exists := df.Column(key.Column)
		if !exists {
			rc.release()
			return nil, dferrors.NewColumnNotFoundError("Sort", key.Column)
		}
		arr := col.Array()
		cmp, err := newComparator(arr, key.Ascending)
		if err != nil {
			arr.Release()
			rc.release()
			return nil, fmt.Errorf("sorting by %s: %w", key.Column, err)
		}
		rc.arrays = append(rc.arrays, arr)
		rc.comparators = append(rc.comparators, cmp)
	}
	return rc, nil
}

func (rc *rowComparator) compare(row1, row2 int) int {
	for _, c := range rc.comparators {
		if result := c.Compare(row1, row2); result != 0 {
			return result
		}
	}
	return 0
}

func (rc *rowComparator) release() {
	for _, arr := range rc.arrays {
		arr.Release()
	}
	rc.arrays = nil
}

// CompareRows compares physical rows row1 and row2 under keys.
// It returns a negative number when row1 sorts first, zero on a tie and a positive number otherwise.
func (df *DataFrame) CompareRows(row1, row2 int, keys []SortKey) (int, error) {
	rc, err := df.newRowComparator(keys)
	if err != nil {
		return 0, err
	}
	defer rc.release()
	return rc.compare(row1, row2), nil
}

// RowsEqual reports whether row1 and row2 tie under keys
func (df *DataFrame) RowsEqual(row1, row2 int, keys []SortKey) (bool, error) {
	cmp, err := df.CompareRows(row1, row2, keys)
	if err != nil {
		return false, err
	}
	return cmp == 0, nil
}

// SortBy returns a new partition with rows ordered by keys.
// The sort is stable: rows that tie keep their order from p.
func (p *Partition) SortBy(keys ...SortKey) (*Partition, error) {
	sorted := &Partition{frame: p.frame, rows: p.RowNumbers()}
	if len(keys) == 0 || len(sorted.rows) < 2 {
		return sorted, nil
	}

	rc, err := p.frame.newRowComparator(keys)
	if err != nil {
		return nil, err
	}
	defer rc.release()

	sort.SliceStable(sorted.rows, func(i, j int) bool {
		return rc.compare(sorted.rows[i], sorted.rows[j]) < 0
	})
	return sorted, nil
}

// TieBreaker reports whether consecutive rows of a partition tie under a fixed set of keys
type TieBreaker struct {
	rc *rowComparator
}

// NewTieBreaker prepares tie detection for keys over df
func NewTieBreaker(df *DataFrame, keys []SortKey) (*TieBreaker, error) {
	rc, err := df.newRowComparator(keys)
	if err != nil {
		return nil, err
	}
	return &TieBreaker{rc: rc}, nil
}

// Equal reports whether physical rows row1 and row2 tie
func (t *TieBreaker) Equal(row1, row2 int) bool {
	return t.rc.compare(row1, row2) == 0
}

// Release drops the references held on the key columns
func (t *TieBreaker) Release() {
	t.rc.release()
}
