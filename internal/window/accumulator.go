package window

import (
	"fmt"

	"github.com/emirpasic/gods/queues/arrayqueue"
	dferrors "github.com/paveg/analytic/internal/errors"
)

// Accumulator is the incremental state of one aggregate function over a moving frame.
// An instance is owned by a single slider run and is never shared.
type Accumulator interface {
	// AddRightMost extends the frame's right edge by a present value
	AddRightMost(value float64)
	// AddRightMostMissing extends the frame's right edge by a missing value
	AddRightMostMissing()
	// RemoveLeftMost drops the frame's leftmost element
	RemoveLeftMost() error
	// Value returns the aggregate over the current frame.
	// The second result is false when there is no result, which is written as a missing value.
	Value() (float64, bool)
}

// NewAccumulator returns a fresh accumulator for kind, specialised for the frame's growth type:
// fixed frames fold every value once, fixed-start frames only grow and
// fixed-end and sliding frames keep the frame contents in a deque.
func NewAccumulator(kind FunctionKind, growth GrowthType) (Accumulator, error) {
	if !kind.IsAggregate() {
		return nil, dferrors.NewInvalidInputError("NewAccumulator", fmt.Sprintf("%s is not an aggregate function", kind))
	}
	if !kind.Implemented() {
		return nil, dferrors.NewNotImplementedError("NewAccumulator", kind.String())
	}

	switch growth {
	case GrowthFixed:
		switch kind {
		case FunctionSum:
			return &fixedSum{}, nil
		case FunctionMax:
			return &fixedMax{}, nil
		}
	case GrowthFixedStart:
		switch kind {
		case FunctionSum:
			return &growingSum{}, nil
		case FunctionMax:
			return &growingMax{}, nil
		}
	case GrowthFixedEnd, GrowthSliding:
		switch kind {
		case FunctionSum:
			return newSlidingSum(), nil
		case FunctionMax:
			return newSlidingMax(), nil
		}
	default:
		return nil, dferrors.NewInvalidInputError("NewAccumulator", fmt.Sprintf("unknown growth type %d", int(growth)))
	}
	return nil, dferrors.NewNotImplementedError("NewAccumulator", fmt.Sprintf("%s over a %s frame", kind, growth))
}

func fixedRemoveError(kind FunctionKind) error {
	return dferrors.NewContractViolationError("RemoveLeftMost",
		"%s accumulator over a %s frame cannot remove values", kind, GrowthFixed)
}

// frameEntry is one element of a sliding frame
type frameEntry struct {
	value   float64
	missing bool
}

// frameDeque holds the elements currently inside a sliding frame, oldest first
type frameDeque struct {
	queue *arrayqueue.Queue
}

func newFrameDeque() *frameDeque {
	return &frameDeque{queue: arrayqueue.New()}
}

func (d *frameDeque) pushBack(entry frameEntry) {
	d.queue.Enqueue(entry)
}

func (d *frameDeque) popFront() (frameEntry, bool) {
	value, ok := d.queue.Dequeue()
	if !ok {
		return frameEntry{}, false
	}
	return value.(frameEntry), true
}

func (d *frameDeque) size() int {
	return d.queue.Size()
}

func (d *frameDeque) each(fn func(frameEntry)) {
	it := d.queue.Iterator()
	for it.Next() {
		fn(it.Value().(frameEntry))
	}
}

func emptyFrameError(kind FunctionKind) error {
	return dferrors.NewContractViolationError("RemoveLeftMost",
		"%s accumulator has no value to remove", kind)
}
