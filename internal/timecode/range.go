package timecode

import (
	"fmt"

	"autocontent/internal/faults"
)

// Range is a half-open time window in seconds with Start < End.
type Range struct {
	Start float64
	End   float64
}

// NewRange parses both bounds and enforces Start < End.
func NewRange(start, end any) (Range, error) {
	t1, err := Parse(start)
	if err != nil {
		return Range{}, err
	}
	t2, err := Parse(end)
	if err != nil {
		return Range{}, err
	}
	if t1 >= t2 {
		return Range{}, faults.Wrap(faults.ErrInvalidRange, "time range", fmt.Sprintf("start %s must be before end %s", FormatSeconds(t1), FormatSeconds(t2)), nil)
	}
	return Range{Start: t1, End: t2}, nil
}

// Duration returns End - Start.
func (r Range) Duration() float64 {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", Format(r.Start), Format(r.End))
}

// ParseRange is NewRange returning the bounds directly.
func ParseRange(start, end any) (float64, float64, error) {
	r, err := NewRange(start, end)
	if err != nil {
		return 0, 0, err
	}
	return r.Start, r.End, nil
}
