package window

import "math"

// runningSum folds values into a total that is absent until the first present value
type runningSum struct {
	total float64
	seen  bool
}

func (s *runningSum) AddRightMost(value float64) {
	if !s.seen {
		s.total = 0
		s.seen = true
	}
	s.total += value
}

func (s *runningSum) AddRightMostMissing() {}

func (s *runningSum) Value() (float64, bool) {
	return s.total, s.seen
}

// fixedSum is computed once over the whole partition
type fixedSum struct {
	runningSum
}

func (s *fixedSum) RemoveLeftMost() error {
	return fixedRemoveError(FunctionSum)
}

// growingSum serves frames that start at the first row and never shrink
type growingSum struct {
	runningSum
}

func (s *growingSum) RemoveLeftMost() error {
	return nil
}

// slidingSum keeps a running total updated on both edges.
// Non-finite values are counted apart from the finite total so that removing them restores it.
type slidingSum struct {
	values  *frameDeque
	total   float64
	missing int
	nan     int
	posInf  int
	negInf  int
}

func newSlidingSum() *slidingSum {
	return &slidingSum{values: newFrameDeque()}
}

func (s *slidingSum) AddRightMost(value float64) {
	s.values.pushBack(frameEntry{value: value})
	s.count(value, 1)
}

func (s *slidingSum) AddRightMostMissing() {
	s.values.pushBack(frameEntry{missing: true})
	s.missing++
}

func (s *slidingSum) RemoveLeftMost() error {
	entry, ok := s.values.popFront()
	if !ok {
		return emptyFrameError(FunctionSum)
	}
	if entry.missing {
		s.missing--
	} else {
		s.count(entry.value, -1)
	}
	// restart from an exact zero once no present value is left
	if s.present() == 0 {
		s.total = 0
	}
	return nil
}

func (s *slidingSum) count(value float64, delta int) {
	switch {
	case math.IsNaN(value):
		s.nan += delta
	case math.IsInf(value, 1):
		s.posInf += delta
	case math.IsInf(value, -1):
		s.negInf += delta
	default:
		s.total += float64(delta) * value
	}
}

func (s *slidingSum) Value() (float64, bool) {
	switch {
	case s.present() == 0:
		return 0, false
	case s.nan > 0 || (s.posInf > 0 && s.negInf > 0):
		return math.NaN(), true
	case s.posInf > 0:
		return math.Inf(1), true
	case s.negInf > 0:
		return math.Inf(-1), true
	}
	return s.total, true
}

func (s *slidingSum) present() int {
	return s.values.size() - s.missing
}
