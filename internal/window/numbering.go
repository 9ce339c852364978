package window

import (
	"fmt"

	dferrors "github.com/paveg/analytic/internal/errors"
)

// NumberingFunction assigns a number to each row of an ordered partition
type NumberingFunction interface {
	// AddEqualRow advances to a row that ties with the previous row under the ordering
	AddEqualRow()
	// AddNextRow advances to a row that strictly follows the previous row
	AddNextRow()
	// Value returns the number of the current row
	Value() int64
}

// NewNumberingFunction returns a fresh numbering function for kind
func NewNumberingFunction(kind FunctionKind) (NumberingFunction, error) {
	switch kind {
	case FunctionRowNumber:
		return &rowNumber{}, nil
	case FunctionRank:
		return &rank{}, nil
	case FunctionDenseRank:
		return &denseRank{}, nil
	default:
		return nil, dferrors.NewInvalidInputError("NewNumberingFunction", fmt.Sprintf("%s is not a numbering function", kind))
	}
}

// rowNumber counts rows regardless of ties
type rowNumber struct {
	current int64
}

func (r *rowNumber) AddEqualRow() { r.current++ }

func (r *rowNumber) AddNextRow() { r.current++ }

func (r *rowNumber) Value() int64 { return r.current }

// rank gives tied rows the same number and skips past the tie group
type rank struct {
	rowsSeen int64
	current  int64
}

func (r *rank) AddEqualRow() {
	r.rowsSeen++
}

func (r *rank) AddNextRow() {
	r.rowsSeen++
	r.current = r.rowsSeen
}

func (r *rank) Value() int64 { return r.current }

// denseRank gives tied rows the same number without gaps
type denseRank struct {
	current int64
}

func (r *denseRank) AddEqualRow() {}

func (r *denseRank) AddNextRow() { r.current++ }

func (r *denseRank) Value() int64 { return r.current }
