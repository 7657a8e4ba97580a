package silence

import (
	"fmt"
	"math"

	"autocontent/internal/faults"
)

// windowEpsilon absorbs float error when the duration is an exact multiple of
// the window size.
const windowEpsilon = 1e-9

// Interval is a speaking span in seconds.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns End - Start.
func (i Interval) Duration() float64 {
	return i.End - i.Start
}

// Detector holds the scan parameters.
type Detector struct {
	// WindowSize is the scan window in seconds.
	WindowSize float64
	// VolumeThreshold is the peak amplitude below which a window is silent.
	VolumeThreshold float64
	// EaseIn pads every interval on both sides, in seconds.
	EaseIn float64
	// CloseTrailing keeps speech still in progress at the last full window.
	CloseTrailing bool
}

// DefaultDetector returns the stock parameters: 0.1s windows, 0.01 threshold
// and 0.25s of padding.
func DefaultDetector() Detector {
	return Detector{WindowSize: 0.1, VolumeThreshold: 0.01, EaseIn: 0.25}
}

// Validate checks the parameters.
func (d Detector) Validate() error {
	switch {
	case !(d.WindowSize > 0):
		return faults.Wrap(faults.ErrValidation, "silence detector", fmt.Sprintf("window size must be positive, got %v", d.WindowSize), nil)
	case !(d.VolumeThreshold >= 0):
		return faults.Wrap(faults.ErrValidation, "silence detector", fmt.Sprintf("volume threshold must not be negative, got %v", d.VolumeThreshold), nil)
	case !(d.EaseIn >= 0):
		return faults.Wrap(faults.ErrValidation, "silence detector", fmt.Sprintf("ease-in must not be negative, got %v", d.EaseIn), nil)
	}
	return nil
}

// FindSpeaking returns the ordered, non-overlapping speaking intervals of
// signal. A trailing partial window is ignored. Speech still open at the
// last full window is dropped unless CloseTrailing is set.
func (d Detector) FindSpeaking(signal Signal) ([]Interval, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if signal == nil {
		return []Interval{}, nil
	}
	duration := signal.Duration()
	if !(duration > 0) {
		return []Interval{}, nil
	}

	n := int(math.Floor(duration/d.WindowSize + windowEpsilon))
	if n == 0 {
		return []Interval{}, nil
	}
	silent := make([]bool, n)
	for i := range n {
		start := float64(i) * d.WindowSize
		silent[i] = signal.Peak(start, start+d.WindowSize) < d.VolumeThreshold
	}

	var raw []Interval
	open := !silent[0]
	var start float64
	for i := 1; i < n; i++ {
		at := float64(i) * d.WindowSize
		switch {
		case silent[i-1] && !silent[i]:
			start = at
			open = true
		case !silent[i-1] && silent[i]:
			raw = append(raw, Interval{Start: start, End: at})
			open = false
		}
	}
	if open && d.CloseTrailing {
		raw = append(raw, Interval{Start: start, End: float64(n) * d.WindowSize})
	}

	return d.padAndMerge(raw, duration), nil
}

func (d Detector) padAndMerge(raw []Interval, duration float64) []Interval {
	merged := make([]Interval, 0, len(raw))
	for _, iv := range raw {
		padded := Interval{
			Start: max(0, iv.Start-d.EaseIn),
			End:   min(duration, iv.End+d.EaseIn),
		}
		if n := len(merged); n > 0 && padded.Start <= merged[n-1].End {
			merged[n-1].End = max(merged[n-1].End, padded.End)
			continue
		}
		merged = append(merged, padded)
	}
	return merged
}

// TotalDuration sums the interval lengths.
func TotalDuration(intervals []Interval) float64 {
	var total float64
	for _, iv := range intervals {
		total += iv.Duration()
	}
	return total
}
