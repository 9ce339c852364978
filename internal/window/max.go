package window

import "math"

// runningMax tracks the largest present value seen so far.
// NaN is greater than every number, so once seen it is the maximum.
type runningMax struct {
	max  float64
	seen bool
}

func (m *runningMax) AddRightMost(value float64) {
	if !m.seen || math.IsNaN(value) || (!math.IsNaN(m.max) && value > m.max) {
		m.max = value
		m.seen = true
	}
}

func (m *runningMax) AddRightMostMissing() {}

func (m *runningMax) Value() (float64, bool) {
	return m.max, m.seen
}

// fixedMax is computed once over the whole partition
type fixedMax struct {
	runningMax
}

func (m *fixedMax) RemoveLeftMost() error {
	return fixedRemoveError(FunctionMax)
}

// growingMax serves frames that start at the first row and never shrink
type growingMax struct {
	runningMax
}

func (m *growingMax) RemoveLeftMost() error {
	return nil
}

// slidingMax recomputes the maximum over the frame contents on every read
type slidingMax struct {
	values *frameDeque
}

func newSlidingMax() *slidingMax {
	return &slidingMax{values: newFrameDeque()}
}

func (m *slidingMax) AddRightMost(value float64) {
	m.values.pushBack(frameEntry{value: value})
}

func (m *slidingMax) AddRightMostMissing() {
	m.values.pushBack(frameEntry{missing: true})
}

func (m *slidingMax) RemoveLeftMost() error {
	if _, ok := m.values.popFront(); !ok {
		return emptyFrameError(FunctionMax)
	}
	return nil
}

func (m *slidingMax) Value() (float64, bool) {
	var acc runningMax
	m.values.each(func(entry frameEntry) {
		if !entry.missing {
			acc.AddRightMost(entry.value)
		}
	})
	return acc.Value()
}
