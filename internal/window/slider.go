package window

import (
	"github.com/paveg/analytic/internal/dataframe"
	"github.com/paveg/analytic/internal/series"
)

// windowSlider evaluates one aggregate over one partition with two pointers.
// Bounds are partition-local and may lie outside the partition; only
// indices inside it are ever added or removed.
type windowSlider struct {
	partition   *dataframe.Partition
	frame       *WindowFrame
	source      *series.NumericReader
	accumulator Accumulator
	destination *series.Mutable[float64]
}

func (s *windowSlider) initialBounds() (left, right int) {
	rowCount := s.partition.RowCount()

	switch s.frame.GrowthType() {
	case GrowthFixed:
		return 0, rowCount - 1
	case GrowthFixedStart:
		return 0, s.frame.EndShift()
	case GrowthFixedEnd:
		return s.frame.StartShift(), rowCount - 1
	default:
		return s.frame.StartShift(), s.frame.EndShift()
	}
}

func (s *windowSlider) leftAdvances() bool {
	growth := s.frame.GrowthType()
	return growth == GrowthFixedEnd || growth == GrowthSliding
}

func (s *windowSlider) rightAdvances() bool {
	growth := s.frame.GrowthType()
	return growth == GrowthFixedStart || growth == GrowthSliding
}

func (s *windowSlider) inPartition(index int) bool {
	return index >= 0 && index < s.partition.RowCount()
}

func (s *windowSlider) add(index int) {
	row := s.partition.MappedRowNumber(index)
	if s.source.IsMissing(row) {
		s.accumulator.AddRightMostMissing()
		return
	}
	s.accumulator.AddRightMost(s.source.Float64(row))
}

func (s *windowSlider) write(index int) {
	row := s.partition.MappedRowNumber(index)
	if value, ok := s.accumulator.Value(); ok {
		s.destination.Set(row, value)
		return
	}
	s.destination.SetMissing(row)
}

// run writes one result per partition row. Row i's result is written
// before the bounds move on to row i+1.
func (s *windowSlider) run() error {
	rowCount := s.partition.RowCount()
	left, right := s.initialBounds()

	for i := max(left, 0); i <= min(right, rowCount-1); i++ {
		s.add(i)
	}

	for i := 0; i < rowCount; i++ {
		s.write(i)

		if s.leftAdvances() {
			// the row at the old left bound leaves the frame
			if s.inPartition(left) {
				if err := s.accumulator.RemoveLeftMost(); err != nil {
					return err
				}
			}
			left++
		}

		if s.rightAdvances() {
			right++
			if s.inPartition(right) {
				s.add(right)
			}
		}
	}
	return nil
}

// numberPartition writes a numbering function's value for every row of an ordered partition
func numberPartition(
	partition *dataframe.Partition,
	fn NumberingFunction,
	ties *dataframe.TieBreaker,
	destination *series.Mutable[int64],
) {
	for i := 0; i < partition.RowCount(); i++ {
		row := partition.MappedRowNumber(i)
		if i > 0 && ties.Equal(partition.MappedRowNumber(i-1), row) {
			fn.AddEqualRow()
		} else {
			fn.AddNextRow()
		}
		destination.Set(row, fn.Value())
	}
}
