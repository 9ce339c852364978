// Package window implements analytic (OVER clause) queries: window frames,
// incremental accumulators, numbering functions, the staged query builder
// and the engine that slides them over ordered partitions.
package window

import (
	"fmt"

	"github.com/paveg/analytic/internal/common"
	dferrors "github.com/paveg/analytic/internal/errors"
	"github.com/paveg/analytic/internal/validation"
)

// BoundaryType represents the type of frame boundary.
// The constants are declared in frame order, so a later boundary compares greater.
type BoundaryType int

const (
	BoundaryUnboundedPreceding BoundaryType = iota
	BoundaryPreceding
	BoundaryCurrentRow
	BoundaryFollowing
	BoundaryUnboundedFollowing
)

// String returns the SQL keyword of the boundary type
func (t BoundaryType) String() string {
	return common.FormatBoundType(int(t))
}

// ParseBoundaryType looks up a boundary type by its SQL keyword, case-insensitively.
// Hyphens or underscores may replace the space, as in "current-row".
func ParseBoundaryType(name string) (BoundaryType, bool) {
	t, ok := common.ParseBoundType(name)
	return BoundaryType(t), ok
}

// TakesOffset reports whether boundaries of this type carry a row offset
func (t BoundaryType) TakesOffset() bool {
	return t == BoundaryPreceding || t == BoundaryFollowing
}

// FrameBoundary represents one edge of a window frame
type FrameBoundary struct {
	boundaryType BoundaryType
	offset       int
}

// NewFrameBoundary creates a boundary of type t. The offset is ignored unless t takes one.
func NewFrameBoundary(t BoundaryType, offset int) FrameBoundary {
	if !t.TakesOffset() {
		offset = 0
	}
	return FrameBoundary{boundaryType: t, offset: offset}
}

// UnboundedPreceding creates an unbounded preceding boundary
func UnboundedPreceding() FrameBoundary {
	return FrameBoundary{boundaryType: BoundaryUnboundedPreceding}
}

// Preceding creates a boundary offset rows before the current row
func Preceding(offset int) FrameBoundary {
	return FrameBoundary{boundaryType: BoundaryPreceding, offset: offset}
}

// CurrentRow creates a current row boundary
func CurrentRow() FrameBoundary {
	return FrameBoundary{boundaryType: BoundaryCurrentRow}
}

// Following creates a boundary offset rows after the current row
func Following(offset int) FrameBoundary {
	return FrameBoundary{boundaryType: BoundaryFollowing, offset: offset}
}

// UnboundedFollowing creates an unbounded following boundary
func UnboundedFollowing() FrameBoundary {
	return FrameBoundary{boundaryType: BoundaryUnboundedFollowing}
}

// Type returns the boundary type
func (b FrameBoundary) Type() BoundaryType {
	return b.boundaryType
}

// Offset returns the unsigned row offset of a PRECEDING or FOLLOWING boundary
func (b FrameBoundary) Offset() int {
	return b.offset
}

// Shift returns the signed row offset relative to the current row:
// negative before it, positive after it and zero for the other types.
func (b FrameBoundary) Shift() int {
	switch b.boundaryType {
	case BoundaryPreceding:
		return -b.offset
	case BoundaryFollowing:
		return b.offset
	default:
		return 0
	}
}

// String returns the SQL representation of the boundary
func (b FrameBoundary) String() string {
	switch b.boundaryType {
	case BoundaryPreceding, BoundaryFollowing:
		return fmt.Sprintf("%d %s", b.offset, b.boundaryType)
	default:
		return b.boundaryType.String()
	}
}

// GrowthType classifies how a frame's edges move as the current row advances
type GrowthType int

const (
	// GrowthFixed covers the whole partition for every row
	GrowthFixed GrowthType = iota
	// GrowthFixedStart only grows: the start is pinned to the first row
	GrowthFixedStart
	// GrowthFixedEnd only shrinks: the end is pinned to the last row
	GrowthFixedEnd
	// GrowthSliding moves both edges with the current row
	GrowthSliding
)

// String returns the growth type name
func (g GrowthType) String() string {
	return common.FormatGrowthType(int(g))
}

// WindowFrame represents a validated ROWS BETWEEN frame
type WindowFrame struct {
	start  FrameBoundary
	end    FrameBoundary
	growth GrowthType
}

// NewWindowFrame validates the two boundaries and classifies the frame
func NewWindowFrame(start, end FrameBoundary) (*WindowFrame, error) {
	if err := validateBoundaries(start, end); err != nil {
		return nil, err
	}
	return &WindowFrame{
		start:  start,
		end:    end,
		growth: classifyGrowth(start, end),
	}, nil
}

func validateBoundaries(start, end FrameBoundary) error {
	const op = "WindowFrame"

	for _, b := range []FrameBoundary{start, end} {
		if b.boundaryType < BoundaryUnboundedPreceding || b.boundaryType > BoundaryUnboundedFollowing {
			return dferrors.NewInvalidInputError(op, fmt.Sprintf("unknown boundary type %d", int(b.boundaryType)))
		}
		if b.boundaryType.TakesOffset() {
			if err := validation.ValidatePositive(b.offset, op, b.boundaryType.String()+" offset"); err != nil {
				return err
			}
		}
	}

	if start.boundaryType == BoundaryUnboundedFollowing {
		return dferrors.NewInvalidInputError(op, "frame start cannot be UNBOUNDED FOLLOWING")
	}
	if end.boundaryType == BoundaryUnboundedPreceding {
		return dferrors.NewInvalidInputError(op, "frame end cannot be UNBOUNDED PRECEDING")
	}
	if end.boundaryType < start.boundaryType {
		return dferrors.NewInvalidInputError(op,
			fmt.Sprintf("frame end %s cannot come before frame start %s", end, start))
	}

	switch {
	case start.boundaryType == BoundaryPreceding && end.boundaryType == BoundaryPreceding:
		if start.offset <= end.offset {
			return dferrors.NewInvalidInputError(op,
				fmt.Sprintf("frame start %s must be further back than frame end %s", start, end))
		}
	case start.boundaryType == BoundaryFollowing && end.boundaryType == BoundaryFollowing:
		if end.offset <= start.offset {
			return dferrors.NewInvalidInputError(op,
				fmt.Sprintf("frame end %s must be further ahead than frame start %s", end, start))
		}
	}
	return nil
}

func classifyGrowth(start, end FrameBoundary) GrowthType {
	startUnbounded := start.boundaryType == BoundaryUnboundedPreceding
	endUnbounded := end.boundaryType == BoundaryUnboundedFollowing

	switch {
	case startUnbounded && endUnbounded:
		return GrowthFixed
	case !startUnbounded && !endUnbounded:
		return GrowthSliding
	case startUnbounded:
		return GrowthFixedStart
	default:
		return GrowthFixedEnd
	}
}

// Start returns the start boundary
func (f *WindowFrame) Start() FrameBoundary {
	return f.start
}

// End returns the end boundary
func (f *WindowFrame) End() FrameBoundary {
	return f.end
}

// StartShift returns the signed offset of the start boundary
func (f *WindowFrame) StartShift() int {
	return f.start.Shift()
}

// EndShift returns the signed offset of the end boundary
func (f *WindowFrame) EndShift() int {
	return f.end.Shift()
}

// GrowthType returns the frame's growth strategy
func (f *WindowFrame) GrowthType() GrowthType {
	return f.growth
}

// String returns the SQL representation of the frame
func (f *WindowFrame) String() string {
	return fmt.Sprintf("ROWS BETWEEN %s AND %s", f.start, f.end)
}
