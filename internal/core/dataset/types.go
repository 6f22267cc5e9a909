package dataset

import "time"

// Reading is one long-format input row: a single measurement for a
// (station, code, date) triple. Time of day is discarded at parse time.
// HasValue is false when the Result cell was blank or not numeric.
type Reading struct {
	Station  string
	Code     string
	Date     time.Time
	Value    float64
	HasValue bool
}

// Dataset is an ordered sequence of readings, in input row order.
type Dataset []Reading
