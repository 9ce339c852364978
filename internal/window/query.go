package window

import (
	"fmt"
	"strings"

	"github.com/paveg/analytic/internal/common"
	"github.com/paveg/analytic/internal/dataframe"
	dferrors "github.com/paveg/analytic/internal/errors"
	"github.com/paveg/analytic/internal/validation"
)

// windowName is the name of the single window clause a query renders
const windowName = "w"

// Query is a fully resolved analytic query over one table.
// The frame is nil for queries that only number rows.
type Query struct {
	df    *dataframe.DataFrame
	spec  *WindowSpecification
	frame *WindowFrame
	args  *ArgumentList
}

// NewQuery validates and freezes a query. The argument list is copied.
func NewQuery(df *dataframe.DataFrame, spec *WindowSpecification, frame *WindowFrame, args *ArgumentList) (*Query, error) {
	const op = "Query"

	if df == nil {
		return nil, dferrors.NewInvalidInputError(op, "query has no source table")
	}
	if args == nil {
		return nil, dferrors.NewInvalidInputError(op, "query has no argument list")
	}
	if spec == nil {
		spec = &WindowSpecification{}
	}
	if err := args.Validate(); err != nil {
		return nil, err
	}

	for _, b := range args.bindings {
		if !b.Function.Implemented() {
			return nil, dferrors.NewNotImplementedError(op, b.Function.String())
		}
		if b.Function.IsAggregate() && frame == nil {
			return nil, dferrors.NewInvalidInputError(op, fmt.Sprintf("%s requires a window frame", b.Expression()))
		}
		if b.Function.IsNumbering() && !spec.IsOrdered() {
			return nil, dferrors.NewInvalidInputError(op, fmt.Sprintf("%s requires ORDER BY", b.Expression()))
		}
		if b.Source != "" {
			if err := validation.ValidateColumns(df, op, b.Source); err != nil {
				return nil, err
			}
		}
	}
	if err := validation.ValidateColumns(df, op, spec.Columns()...); err != nil {
		return nil, err
	}

	return &Query{
		df:    df,
		spec:  spec,
		frame: frame,
		args:  args.clone(),
	}, nil
}

func (a *ArgumentList) clone() *ArgumentList {
	cloned := NewArgumentList()
	for _, b := range a.bindings {
		cloned.bindings = append(cloned.bindings, b)
		cloned.outputs[b.Output] = true
	}
	return cloned
}

// DataFrame returns the source table
func (q *Query) DataFrame() *dataframe.DataFrame {
	return q.df
}

// Specification returns the partitioning and ordering of the query
func (q *Query) Specification() *WindowSpecification {
	return q.spec
}

// Frame returns the window frame, or nil for numbering-only queries
func (q *Query) Frame() *WindowFrame {
	return q.frame
}

// Arguments returns the declared outputs in declaration order
func (q *Query) Arguments() []Binding {
	return q.args.Bindings()
}

// String renders the query as SQL
func (q *Query) String() string {
	items := make([]string, 0, q.args.Len())
	for _, b := range q.args.bindings {
		items = append(items, common.FormatAlias(b.Expression()+" OVER "+windowName, b.Output))
	}

	var window []string
	if clause := q.spec.String(); clause != "" {
		window = append(window, clause)
	}
	if q.frame != nil {
		window = append(window, q.frame.String())
	}

	return fmt.Sprintf("SELECT %s WINDOW %s AS (%s)",
		strings.Join(items, ", "), windowName, strings.Join(window, " "))
}
