package window

import (
	"fmt"
	"strings"

	"github.com/paveg/analytic/internal/common"
	dferrors "github.com/paveg/analytic/internal/errors"
	"github.com/paveg/analytic/internal/series"
)

// Binding maps one output column to the function and source column that produce it.
// Source is empty for numbering functions.
type Binding struct {
	Source   string
	Function FunctionKind
	Output   string
}

// Expression renders the function call, e.g. SUM(price) or RANK()
func (b Binding) Expression() string {
	if b.Source == "" {
		return common.FormatFunction(b.Function.String())
	}
	return common.FormatFunction(b.Function.String(), b.Source)
}

// String renders the binding as "SUM(price) AS total"
func (b Binding) String() string {
	return common.FormatAlias(b.Expression(), b.Output)
}

// ArgumentList collects the output columns of a query in declaration order.
// A function is first staged and then named; only one function may be staged at a time.
type ArgumentList struct {
	bindings []Binding
	outputs  map[string]bool
	staged   *Binding
}

// NewArgumentList creates an empty argument list
func NewArgumentList() *ArgumentList {
	return &ArgumentList{
		outputs: make(map[string]bool),
	}
}

// StageFunction begins an output column computed by kind over source
func (a *ArgumentList) StageFunction(source string, kind FunctionKind) error {
	const op = "ArgumentList"

	if a.staged != nil {
		return dferrors.NewInvalidInputError(op,
			fmt.Sprintf("%s is staged without an output name", a.staged.Expression()))
	}
	if kind.IsAggregate() && source == "" {
		return dferrors.NewInvalidInputError(op, fmt.Sprintf("%s requires a source column", kind))
	}
	if kind.IsNumbering() && source != "" {
		return dferrors.NewInvalidInputError(op, fmt.Sprintf("%s does not take a source column", kind))
	}
	if !kind.IsAggregate() && !kind.IsNumbering() {
		return dferrors.NewInvalidInputError(op, fmt.Sprintf("unknown function kind %d", int(kind)))
	}

	a.staged = &Binding{Source: source, Function: kind}
	return nil
}

// UnstageFunction finalizes the staged function under the output column name
func (a *ArgumentList) UnstageFunction(output string) error {
	const op = "ArgumentList"

	if a.staged == nil {
		return dferrors.NewInvalidInputError(op, fmt.Sprintf("no function is staged for output '%s'", output))
	}
	if output == "" {
		return dferrors.NewInvalidInputError(op, "output column name cannot be empty")
	}
	if a.outputs[output] {
		return dferrors.NewDuplicateColumnError(op, output)
	}

	binding := *a.staged
	binding.Output = output
	a.bindings = append(a.bindings, binding)
	a.outputs[output] = true
	a.staged = nil
	return nil
}

// HasStaged reports whether a function is waiting for its output name
func (a *ArgumentList) HasStaged() bool {
	return a.staged != nil
}

// Validate fails while a function is staged or when no output is declared
func (a *ArgumentList) Validate() error {
	if a.staged != nil {
		return dferrors.NewInvalidInputError("ArgumentList",
			fmt.Sprintf("%s is staged without an output name", a.staged.Expression()))
	}
	if len(a.bindings) == 0 {
		return dferrors.NewInvalidInputError("ArgumentList", "query declares no output columns")
	}
	return nil
}

// Bindings returns the declared outputs in declaration order
func (a *ArgumentList) Bindings() []Binding {
	return append([]Binding(nil), a.bindings...)
}

// Len returns the number of declared outputs
func (a *ArgumentList) Len() int {
	return len(a.bindings)
}

// CreateEmptyDestinationColumns allocates one column per output, in declaration order,
// typed by the function's return type and holding rowCount missing values
func (a *ArgumentList) CreateEmptyDestinationColumns(rowCount int) []series.MutableColumn {
	columns := make([]series.MutableColumn, len(a.bindings))
	for i, b := range a.bindings {
		columns[i] = b.Function.ReturnType().CreateFilled(b.Output, rowCount)
	}
	return columns
}

// String renders the select list
func (a *ArgumentList) String() string {
	items := make([]string, len(a.bindings))
	for i, b := range a.bindings {
		items[i] = b.String()
	}
	return strings.Join(items, ", ")
}
