package silence

import "math"

// Signal is a decoded audio track.
type Signal interface {
	// Duration returns the track length in seconds.
	Duration() float64
	// Peak returns the maximum absolute amplitude in [start, end).
	Peak(start, end float64) float64
}

// PCM is interleaved floating-point audio as produced by the media decoder.
type PCM struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

func (p PCM) channels() int {
	return max(p.Channels, 1)
}

// Frames returns the number of samples per channel.
func (p PCM) Frames() int {
	return len(p.Samples) / p.channels()
}

// Duration implements Signal.
func (p PCM) Duration() float64 {
	if p.SampleRate <= 0 {
		return 0
	}
	return float64(p.Frames()) / float64(p.SampleRate)
}

// Peak implements Signal. Frame indices are rounded to the nearest sample and
// clamped to the track.
func (p PCM) Peak(start, end float64) float64 {
	if p.SampleRate <= 0 {
		return 0
	}
	frames := p.Frames()
	from := clampFrame(math.Round(start*float64(p.SampleRate)), frames)
	to := clampFrame(math.Round(end*float64(p.SampleRate)), frames)
	ch := p.channels()
	var peak float64
	for _, s := range p.Samples[from*ch : to*ch] {
		peak = max(peak, math.Abs(float64(s)))
	}
	return peak
}

func clampFrame(v float64, frames int) int {
	switch {
	case v < 0:
		return 0
	case v > float64(frames):
		return frames
	default:
		return int(v)
	}
}
