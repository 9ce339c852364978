package window

import (
	"context"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"
	"github.com/paveg/analytic/internal/config"
	"github.com/paveg/analytic/internal/dataframe"
	dferrors "github.com/paveg/analytic/internal/errors"
	"github.com/paveg/analytic/internal/logging"
	"github.com/paveg/analytic/internal/monitoring"
	"github.com/paveg/analytic/internal/parallel"
	"github.com/paveg/analytic/internal/series"
	"github.com/paveg/analytic/internal/validation"
	"go.uber.org/zap"
)

// Engine executes analytic queries
type Engine struct {
	cfg     config.Config
	logger  *zap.Logger
	mem     memory.Allocator
	metrics *monitoring.MetricsCollector
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithConfig sets the parallelism and metrics settings
func WithConfig(cfg config.Config) EngineOption {
	return func(e *Engine) {
		e.cfg = cfg.WithDefaults()
	}
}

// WithLogger sets the logger. Without it the logger is taken from the execution context.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithAllocator sets the allocator used for result columns
func WithAllocator(mem memory.Allocator) EngineOption {
	return func(e *Engine) {
		e.mem = mem
	}
}

// WithMetrics records every execution in collector
func WithMetrics(collector *monitoring.MetricsCollector) EngineOption {
	return func(e *Engine) {
		e.metrics = collector
	}
}

// NewEngine creates an engine. Unset options fall back to the global configuration
// and a Go allocator.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{cfg: config.GetGlobalConfig()}
	for _, opt := range opts {
		opt(e)
	}
	if e.mem == nil {
		e.mem = memory.NewGoAllocator()
	}
	if e.metrics == nil {
		e.metrics = monitoring.NewMetricsCollector(e.cfg.MetricsCollection)
	}
	return e
}

// Metrics returns the collector the engine records into
func (e *Engine) Metrics() *monitoring.MetricsCollector {
	return e.metrics
}

func (e *Engine) loggerFor(ctx context.Context) *zap.Logger {
	if e.logger != nil {
		return e.logger
	}
	return logging.FromContext(ctx)
}

// Execute runs q and returns a table holding one column per declared output,
// in declaration order, where row i belongs to row i of the source table.
// Nothing is returned when any part of the evaluation fails.
func (e *Engine) Execute(ctx context.Context, q *Query) (*dataframe.DataFrame, error) {
	if q == nil {
		return nil, dferrors.NewInvalidInputError("Execute", "query is nil")
	}

	queryID := uuid.NewString()
	logger := e.loggerFor(ctx).With(zap.String("query_id", queryID))
	logger.Debug("executing window query", zap.Stringer("query", q), zap.Int("rows", q.df.Len()))

	started := time.Now()
	var result *dataframe.DataFrame
	err := e.metrics.RecordOperation("window.execute", func(m *monitoring.OperationMetrics) error {
		m.QueryID = queryID
		m.RowsProcessed = int64(q.df.Len())
		m.Outputs = q.args.Len()

		out, err := e.execute(ctx, q, m)
		if err != nil {
			return err
		}
		result = out
		return nil
	})
	if err != nil {
		logger.Warn("window query failed", zap.Error(err))
		return nil, err
	}

	logger.Debug("window query finished", zap.Duration("elapsed", time.Since(started)))
	return result, nil
}

// ExecuteInPlace runs q and returns the source columns followed by the result columns.
// An output named like a source column is rejected.
func (e *Engine) ExecuteInPlace(ctx context.Context, q *Query) (*dataframe.DataFrame, error) {
	if q == nil {
		return nil, dferrors.NewInvalidInputError("ExecuteInPlace", "query is nil")
	}
	for _, b := range q.args.bindings {
		if q.df.HasColumn(b.Output) {
			return nil, dferrors.NewDuplicateColumnError("ExecuteInPlace", b.Output)
		}
	}

	result, err := e.Execute(ctx, q)
	if err != nil {
		return nil, err
	}

	columns := make([]dataframe.ISeries, 0, q.df.Width()+result.Width())
	for _, name := range q.df.Columns() {
		col, _ := q.df.Column(name)
		col.Retain()
		columns = append(columns, col)
	}
	for _, name := range result.Columns() {
		col, _ := result.Column(name)
		columns = append(columns, col)
	}
	return dataframe.New(columns...), nil
}

// execution holds the read-only state shared by every partition of one query
type execution struct {
	query        *Query
	readers      map[string]*series.NumericReader
	ties         *dataframe.TieBreaker
	destinations []series.MutableColumn
}

func (e *Engine) execute(ctx context.Context, q *Query, m *monitoring.OperationMetrics) (*dataframe.DataFrame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exec, err := prepare(q)
	if err != nil {
		return nil, err
	}
	defer exec.release()

	partitions, err := dataframe.PartitionBy(q.df, q.spec.PartitionColumns()...)
	if err != nil {
		return nil, err
	}
	m.Partitions = len(partitions)

	process := func(_ context.Context, _ int, p *dataframe.Partition) error {
		if q.spec.IsOrdered() {
			sorted, err := p.SortBy(q.spec.OrderBy()...)
			if err != nil {
				return err
			}
			p = sorted
		}
		return exec.evaluate(p)
	}

	if e.cfg.ShouldParallelize(q.df.Len(), len(partitions)) {
		m.Parallel = true
		err = parallel.ForEach(ctx, parallel.NewWorkerPool(e.cfg.Workers()), partitions, process)
	} else {
		for i, p := range partitions {
			if err = ctx.Err(); err != nil {
				break
			}
			if err = process(ctx, i, p); err != nil {
				break
			}
		}
	}
	if err != nil {
		return nil, err
	}

	columns := make([]dataframe.ISeries, len(exec.destinations))
	for i, dest := range exec.destinations {
		columns[i] = dest.NewColumn(e.mem)
	}
	return dataframe.New(columns...), nil
}

// prepare checks the source columns and opens the readers every partition shares
func prepare(q *Query) (*execution, error) {
	const op = "Execute"

	if err := validation.ValidateColumns(q.df, op, q.spec.Columns()...); err != nil {
		return nil, err
	}

	exec := &execution{
		query:   q,
		readers: make(map[string]*series.NumericReader),
	}

	for _, b := range q.args.bindings {
		if b.Function.IsNumbering() {
			if exec.ties == nil {
				ties, err := dataframe.NewTieBreaker(q.df, q.spec.OrderBy())
				if err != nil {
					exec.release()
					return nil, err
				}
				exec.ties = ties
			}
			continue
		}

		if err := validation.ValidateNumericColumns(q.df, op, b.Function.String(), b.Source); err != nil {
			exec.release()
			return nil, err
		}
		if _, open := exec.readers[b.Source]; open {
			continue
		}
		col, _ := q.df.Column(b.Source)
		arr := col.Array()
		reader, err := series.NewNumericReader(arr)
		arr.Release()
		if err != nil {
			exec.release()
			return nil, dferrors.NewExecutionError(op, b.Source, b.Function.String(), err)
		}
		exec.readers[b.Source] = reader
	}

	exec.destinations = q.args.CreateEmptyDestinationColumns(q.df.Len())
	return exec, nil
}

// evaluate fills every destination column for the rows of one ordered partition
func (x *execution) evaluate(p *dataframe.Partition) error {
	const op = "Execute"

	for i, b := range x.query.args.bindings {
		if b.Function.IsNumbering() {
			dest, ok := x.destinations[i].(*series.Mutable[int64])
			if !ok {
				return dferrors.NewContractViolationError(op, "%s writes to a %s column", b.Function, x.destinations[i].Type())
			}
			fn, err := NewNumberingFunction(b.Function)
			if err != nil {
				return dferrors.NewExecutionError(op, b.Output, b.Function.String(), err)
			}
			numberPartition(p, fn, x.ties, dest)
			continue
		}

		dest, ok := x.destinations[i].(*series.Mutable[float64])
		if !ok {
			return dferrors.NewContractViolationError(op, "%s writes to a %s column", b.Function, x.destinations[i].Type())
		}
		acc, err := NewAccumulator(b.Function, x.query.frame.GrowthType())
		if err != nil {
			return dferrors.NewExecutionError(op, b.Source, b.Function.String(), err)
		}
		slider := &windowSlider{
			partition:   p,
			frame:       x.query.frame,
			source:      x.readers[b.Source],
			accumulator: acc,
			destination: dest,
		}
		if err := slider.run(); err != nil {
			return dferrors.NewExecutionError(op, b.Source, b.Function.String(), err)
		}
	}
	return nil
}

func (x *execution) release() {
	for _, reader := range x.readers {
		reader.Release()
	}
	if x.ties != nil {
		x.ties.Release()
	}
}
