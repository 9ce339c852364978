package dataframe

import (
	"github.com/paveg/analytic/internal/series"
)

// ISeries provides a type-erased interface for Series of any type
type ISeries interface {
	series.Column
}
