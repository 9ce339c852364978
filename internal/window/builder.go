package window

import (
	"context"
	"slices"

	"github.com/paveg/analytic/internal/dataframe"
	dferrors "github.com/paveg/analytic/internal/errors"
)

// The builder is a chain of stage types that mirrors SQL clause order:
//
//	From(df).PartitionBy(...).OrderBy(...).RowsBetween().Preceding(1).AndCurrentRow().
//		Sum("x").As("running").Max("x").As("peak").Build()
//
//	From(df).OrderBy("score", false).Rank().As("rank").Build()
//
// Each stage only exposes the calls that may follow it. The first error
// raised along the chain is kept and returned by Build or Execute.
// Stages are values: every call returns a new stage, so a stage may be
// reused to branch several queries without affecting the others.

type queryBuilder struct {
	df               *dataframe.DataFrame
	partitionColumns []string
	orderBy          []dataframe.SortKey
	start            FrameBoundary
	frame            *WindowFrame
	args             *ArgumentList
	err              error
}

// branch copies the builder so that the copy can be changed independently
func (b *queryBuilder) branch() *queryBuilder {
	c := *b
	c.partitionColumns = slices.Clone(b.partitionColumns)
	c.orderBy = slices.Clone(b.orderBy)
	c.args = b.args.clone()
	if b.args.staged != nil {
		staged := *b.args.staged
		c.args.staged = &staged
	}
	return &c
}

func (b *queryBuilder) fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

func (b *queryBuilder) withOrderKey(column string, ascending bool) *queryBuilder {
	c := b.branch()
	c.orderBy = append(c.orderBy, dataframe.SortKey{Column: column, Ascending: ascending})
	return c
}

func (b *queryBuilder) withStaged(source string, kind FunctionKind) *queryBuilder {
	c := b.branch()
	c.fail(c.args.StageFunction(source, kind))
	if !kind.Implemented() {
		c.fail(dferrors.NewNotImplementedError("Build", kind.String()))
	}
	return c
}

func (b *queryBuilder) withName(output string) *queryBuilder {
	c := b.branch()
	if c.args.HasStaged() {
		c.fail(c.args.UnstageFunction(output))
	}
	return c
}

func (b *queryBuilder) build() (*Query, error) {
	if b.err != nil {
		return nil, b.err
	}
	spec, err := NewWindowSpecification(b.partitionColumns, b.orderBy)
	if err != nil {
		return nil, err
	}
	return NewQuery(b.df, spec, b.frame, b.args)
}

func (b *queryBuilder) execute(ctx context.Context, opts ...EngineOption) (*dataframe.DataFrame, error) {
	q, err := b.build()
	if err != nil {
		return nil, err
	}
	return NewEngine(opts...).Execute(ctx, q)
}

// From starts a query over df
func From(df *dataframe.DataFrame) *FromStage {
	return &FromStage{b: &queryBuilder{df: df, args: NewArgumentList()}}
}

// FromStage follows From
type FromStage struct {
	b *queryBuilder
}

// PartitionBy sets the PARTITION BY columns
func (s *FromStage) PartitionBy(columns ...string) *PartitionStage {
	b := s.b.branch()
	b.partitionColumns = slices.Clone(columns)
	return &PartitionStage{b: b}
}

// OrderBy adds the first ORDER BY key
func (s *FromStage) OrderBy(column string, ascending bool) *OrderStage {
	return newOrderStage(s.b.withOrderKey(column, ascending))
}

// RowsBetween starts the frame clause of an unordered, unpartitioned query
func (s *FromStage) RowsBetween() *FrameStartStage {
	return &FrameStartStage{b: s.b}
}

// PartitionStage follows PartitionBy
type PartitionStage struct {
	b *queryBuilder
}

// OrderBy adds the first ORDER BY key
func (s *PartitionStage) OrderBy(column string, ascending bool) *OrderStage {
	return newOrderStage(s.b.withOrderKey(column, ascending))
}

// RowsBetween starts the frame clause of an unordered query
func (s *PartitionStage) RowsBetween() *FrameStartStage {
	return &FrameStartStage{b: s.b}
}

// OrderStage follows OrderBy. Numbering functions may be added directly.
type OrderStage struct {
	*NumberingFunctionStage
}

func newOrderStage(b *queryBuilder) *OrderStage {
	return &OrderStage{NumberingFunctionStage: &NumberingFunctionStage{b: b}}
}

// OrderBy adds another ORDER BY key
func (s *OrderStage) OrderBy(column string, ascending bool) *OrderStage {
	return newOrderStage(s.b.withOrderKey(column, ascending))
}

// RowsBetween starts the frame clause
func (s *OrderStage) RowsBetween() *FrameStartStage {
	return &FrameStartStage{b: s.b}
}

// FrameStartStage chooses the frame start
type FrameStartStage struct {
	b *queryBuilder
}

func (s *FrameStartStage) startAt(start FrameBoundary) *FrameEndStage {
	b := s.b.branch()
	b.start = start
	return &FrameEndStage{b: b}
}

// UnboundedPreceding starts the frame at the first row of the partition
func (s *FrameStartStage) UnboundedPreceding() *FrameEndStage {
	return s.startAt(UnboundedPreceding())
}

// Preceding starts the frame n rows before the current row
func (s *FrameStartStage) Preceding(n int) *FrameEndStage {
	return s.startAt(Preceding(n))
}

// CurrentRow starts the frame at the current row
func (s *FrameStartStage) CurrentRow() *FrameEndStage {
	return s.startAt(CurrentRow())
}

// Following starts the frame n rows after the current row
func (s *FrameStartStage) Following(n int) *FrameEndStage {
	return s.startAt(Following(n))
}

// FrameEndStage chooses the frame end and validates the frame
type FrameEndStage struct {
	b *queryBuilder
}

func (s *FrameEndStage) endAt(end FrameBoundary) *AggregateFunctionStage {
	b := s.b.branch()
	frame, err := NewWindowFrame(b.start, end)
	b.fail(err)
	b.frame = frame
	return &AggregateFunctionStage{b: b}
}

// AndPreceding ends the frame n rows before the current row
func (s *FrameEndStage) AndPreceding(n int) *AggregateFunctionStage {
	return s.endAt(Preceding(n))
}

// AndCurrentRow ends the frame at the current row
func (s *FrameEndStage) AndCurrentRow() *AggregateFunctionStage {
	return s.endAt(CurrentRow())
}

// AndFollowing ends the frame n rows after the current row
func (s *FrameEndStage) AndFollowing(n int) *AggregateFunctionStage {
	return s.endAt(Following(n))
}

// AndUnboundedFollowing ends the frame at the last row of the partition
func (s *FrameEndStage) AndUnboundedFollowing() *AggregateFunctionStage {
	return s.endAt(UnboundedFollowing())
}

// AggregateFunctionStage adds aggregate functions over the frame
type AggregateFunctionStage struct {
	b *queryBuilder
}

func (s *AggregateFunctionStage) aggregate(column string, kind FunctionKind) *AggregateNameStage {
	return &AggregateNameStage{b: s.b.withStaged(column, kind)}
}

// Sum adds SUM(column)
func (s *AggregateFunctionStage) Sum(column string) *AggregateNameStage {
	return s.aggregate(column, FunctionSum)
}

// Max adds MAX(column)
func (s *AggregateFunctionStage) Max(column string) *AggregateNameStage {
	return s.aggregate(column, FunctionMax)
}

// Mean adds MEAN(column). It is not implemented and fails the query.
func (s *AggregateFunctionStage) Mean(column string) *AggregateNameStage {
	return s.aggregate(column, FunctionMean)
}

// Min adds MIN(column). It is not implemented and fails the query.
func (s *AggregateFunctionStage) Min(column string) *AggregateNameStage {
	return s.aggregate(column, FunctionMin)
}

// Count adds COUNT(column). It is not implemented and fails the query.
func (s *AggregateFunctionStage) Count(column string) *AggregateNameStage {
	return s.aggregate(column, FunctionCount)
}

// AggregateNameStage names the aggregate just added
type AggregateNameStage struct {
	b *queryBuilder
}

// As sets the output column name
func (s *AggregateNameStage) As(output string) *AggregateQueryStage {
	return &AggregateQueryStage{AggregateFunctionStage: &AggregateFunctionStage{b: s.b.withName(output)}}
}

// AggregateQueryStage can add more aggregates or finish the query
type AggregateQueryStage struct {
	*AggregateFunctionStage
}

// Build returns the query or the first error raised while building it
func (s *AggregateQueryStage) Build() (*Query, error) {
	return s.b.build()
}

// Execute builds the query and runs it on an engine configured by opts
func (s *AggregateQueryStage) Execute(ctx context.Context, opts ...EngineOption) (*dataframe.DataFrame, error) {
	return s.b.execute(ctx, opts...)
}

// NumberingFunctionStage adds numbering functions over the ordered partitions
type NumberingFunctionStage struct {
	b *queryBuilder
}

func (s *NumberingFunctionStage) number(kind FunctionKind) *NumberingNameStage {
	return &NumberingNameStage{b: s.b.withStaged("", kind)}
}

// RowNumber adds ROW_NUMBER()
func (s *NumberingFunctionStage) RowNumber() *NumberingNameStage {
	return s.number(FunctionRowNumber)
}

// Rank adds RANK()
func (s *NumberingFunctionStage) Rank() *NumberingNameStage {
	return s.number(FunctionRank)
}

// DenseRank adds DENSE_RANK()
func (s *NumberingFunctionStage) DenseRank() *NumberingNameStage {
	return s.number(FunctionDenseRank)
}

// NumberingNameStage names the numbering function just added
type NumberingNameStage struct {
	b *queryBuilder
}

// As sets the output column name
func (s *NumberingNameStage) As(output string) *NumberingQueryStage {
	return &NumberingQueryStage{NumberingFunctionStage: &NumberingFunctionStage{b: s.b.withName(output)}}
}

// NumberingQueryStage can add more numbering functions or finish the query
type NumberingQueryStage struct {
	*NumberingFunctionStage
}

// Build returns the query or the first error raised while building it
func (s *NumberingQueryStage) Build() (*Query, error) {
	return s.b.build()
}

// Execute builds the query and runs it on an engine configured by opts
func (s *NumberingQueryStage) Execute(ctx context.Context, opts ...EngineOption) (*dataframe.DataFrame, error) {
	return s.b.execute(ctx, opts...)
}
