// Package analytic provides in-memory columnar tables with an analytic window engine.
// This package is the sole public API for the library.
//
// A window query partitions a table, orders each partition and evaluates one
// function per output column over a frame of neighbouring rows:
//
//	result, err := analytic.From(df).
//		PartitionBy("department").
//		OrderBy("day", true).
//		RowsBetween().Preceding(2).AndCurrentRow().
//		Sum("amount").As("rolling_amount").
//		Execute(ctx)
//
// Numbering functions need no frame:
//
//	ranked, err := analytic.From(df).OrderBy("score", false).Rank().As("rank").Execute(ctx)
//
// Result tables hold one column per output, aligned with the source rows.
// Every table owns Arrow memory and must be released by the caller.
package analytic

import (
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/analytic/internal/config"
	"github.com/paveg/analytic/internal/dataframe"
	"github.com/paveg/analytic/internal/io"
	"github.com/paveg/analytic/internal/monitoring"
	"github.com/paveg/analytic/internal/series"
	"github.com/paveg/analytic/internal/window"
)

// Tables and columns
type (
	// DataFrame is an immutable table of equally long named columns
	DataFrame = dataframe.DataFrame
	// ISeries is a type-erased column
	ISeries = dataframe.ISeries
	// SortKey orders rows by one column
	SortKey = dataframe.SortKey
	// ColumnType tags the element type of a column
	ColumnType = series.ColumnType
)

// Window queries
type (
	Query               = window.Query
	WindowSpecification = window.WindowSpecification
	WindowFrame         = window.WindowFrame
	FrameBoundary       = window.FrameBoundary
	ArgumentList        = window.ArgumentList
	Binding             = window.Binding
	FunctionKind        = window.FunctionKind
	Engine              = window.Engine
	EngineOption        = window.EngineOption
)

// Settings
type (
	Config           = config.Config
	MetricsCollector = monitoring.MetricsCollector
)

// Window functions. Mean, Min and Count are recognised but not implemented.
const (
	FunctionSum       = window.FunctionSum
	FunctionMax       = window.FunctionMax
	FunctionMean      = window.FunctionMean
	FunctionMin       = window.FunctionMin
	FunctionCount     = window.FunctionCount
	FunctionRowNumber = window.FunctionRowNumber
	FunctionRank      = window.FunctionRank
	FunctionDenseRank = window.FunctionDenseRank
)

// NewDataFrame creates a DataFrame, rejecting duplicate names and columns of different lengths.
func NewDataFrame(series ...ISeries) (*DataFrame, error) {
	return dataframe.NewSafe(series...)
}

// NewSeries creates a new typed Series from values.
func NewSeries[T any](name string, values []T, mem memory.Allocator) ISeries {
	return series.New(name, values, mem)
}

// NewSeriesWithValidity creates a typed Series where valid[i] == false marks row i as missing.
func NewSeriesWithValidity[T any](name string, values []T, valid []bool, mem memory.Allocator) ISeries {
	return series.NewWithValidity(name, values, valid, mem)
}

// From starts a window query over df.
func From(df *DataFrame) *window.FromStage {
	return window.From(df)
}

// NewQuery assembles a query from its parts without the staged builder.
func NewQuery(df *DataFrame, spec *WindowSpecification, frame *WindowFrame, args *ArgumentList) (*Query, error) {
	return window.NewQuery(df, spec, frame, args)
}

// NewWindowSpecification describes how rows are partitioned and ordered.
func NewWindowSpecification(partitionColumns []string, orderBy []SortKey) (*WindowSpecification, error) {
	return window.NewWindowSpecification(partitionColumns, orderBy)
}

// NewWindowFrame validates a ROWS BETWEEN start AND end frame.
func NewWindowFrame(start, end FrameBoundary) (*WindowFrame, error) {
	return window.NewWindowFrame(start, end)
}

// NewArgumentList creates an empty list of function bindings.
func NewArgumentList() *ArgumentList {
	return window.NewArgumentList()
}

// Frame boundaries
var (
	UnboundedPreceding = window.UnboundedPreceding
	Preceding          = window.Preceding
	CurrentRow         = window.CurrentRow
	Following          = window.Following
	UnboundedFollowing = window.UnboundedFollowing
)

// NewEngine creates a query engine.
func NewEngine(opts ...EngineOption) *Engine {
	return window.NewEngine(opts...)
}

// Engine options
var (
	WithConfig    = window.WithConfig
	WithLogger    = window.WithLogger
	WithAllocator = window.WithAllocator
	WithMetrics   = window.WithMetrics
)

// NewMetricsCollector creates a collector for WithMetrics.
func NewMetricsCollector(enabled bool) *MetricsCollector {
	return monitoring.NewMetricsCollector(enabled)
}

// LoadConfig reads settings from an optional YAML or JSON file and ANALYTIC_* environment variables.
func LoadConfig(path string) (Config, error) {
	return config.Load(path, nil)
}

// ReadFile loads a CSV, TSV, JSON, JSON Lines or Parquet file chosen by extension.
func ReadFile(path string, mem memory.Allocator) (*DataFrame, error) {
	return io.ReadFile(path, mem)
}

// WriteFile stores df in the format chosen by the extension of path.
func WriteFile(path string, df *DataFrame) error {
	return io.WriteFile(path, df)
}
