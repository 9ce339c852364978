package window

import (
	"github.com/paveg/analytic/internal/common"
	"github.com/paveg/analytic/internal/series"
)

// FunctionKind identifies one function of the closed window function catalog
type FunctionKind int

const (
	FunctionSum FunctionKind = iota
	FunctionMax
	FunctionMean
	FunctionMin
	FunctionCount
	FunctionRowNumber
	FunctionRank
	FunctionDenseRank
)

// String returns the SQL name of the function
func (k FunctionKind) String() string {
	return common.FormatFunctionKind(int(k))
}

// ParseFunctionKind looks up a function by its SQL name, case-insensitively
func ParseFunctionKind(name string) (FunctionKind, bool) {
	kind, ok := common.ParseFunctionKind(name)
	return FunctionKind(kind), ok
}

// IsNumbering reports whether the function numbers rows instead of aggregating a column
func (k FunctionKind) IsNumbering() bool {
	switch k {
	case FunctionRowNumber, FunctionRank, FunctionDenseRank:
		return true
	default:
		return false
	}
}

// IsAggregate reports whether the function aggregates a source column over a frame
func (k FunctionKind) IsAggregate() bool {
	switch k {
	case FunctionSum, FunctionMax, FunctionMean, FunctionMin, FunctionCount:
		return true
	default:
		return false
	}
}

// Implemented reports whether the engine can evaluate the function
func (k FunctionKind) Implemented() bool {
	switch k {
	case FunctionSum, FunctionMax, FunctionRowNumber, FunctionRank, FunctionDenseRank:
		return true
	default:
		return false
	}
}

// ReturnType is the column type of the function's output
func (k FunctionKind) ReturnType() series.ColumnType {
	switch k {
	case FunctionSum, FunctionMax, FunctionMean, FunctionMin:
		return series.TypeFloat64
	case FunctionCount, FunctionRowNumber, FunctionRank, FunctionDenseRank:
		return series.TypeInt64
	default:
		return series.TypeUnknown
	}
}
