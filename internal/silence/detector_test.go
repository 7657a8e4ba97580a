package silence

import (
	"errors"
	"math"
	"testing"

	"autocontent/internal/faults"
)

const rate = 100

// burstPCM builds mono audio of the given length with full-scale samples
// inside each [start, end) burst and silence elsewhere.
func burstPCM(seconds float64, bursts ...[2]float64) PCM {
	samples := make([]float32, int(math.Round(seconds*rate)))
	for _, b := range bursts {
		for i := int(math.Round(b[0] * rate)); i < int(math.Round(b[1]*rate)); i++ {
			samples[i] = 0.5
		}
	}
	return PCM{Samples: samples, SampleRate: rate, Channels: 1}
}

func assertIntervals(t *testing.T, got []Interval, want ...Interval) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d intervals, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if math.Abs(got[i].Start-want[i].Start) > 1e-9 || math.Abs(got[i].End-want[i].End) > 1e-9 {
			t.Fatalf("interval %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFindSpeakingAllSilent(t *testing.T) {
	got, err := DefaultDetector().FindSpeaking(burstPCM(2))
	if err != nil {
		t.Fatalf("FindSpeaking: %v", err)
	}
	assertIntervals(t, got)
}

func TestFindSpeakingSingleBurstIsPadded(t *testing.T) {
	got, err := DefaultDetector().FindSpeaking(burstPCM(2, [2]float64{0.5, 1.0}))
	if err != nil {
		t.Fatalf("FindSpeaking: %v", err)
	}
	assertIntervals(t, got, Interval{Start: 0.25, End: 1.25})
}

func TestFindSpeakingMergesOverlappingPadding(t *testing.T) {
	got, err := DefaultDetector().FindSpeaking(burstPCM(2, [2]float64{0.5, 0.7}, [2]float64{0.9, 1.2}))
	if err != nil {
		t.Fatalf("FindSpeaking: %v", err)
	}
	assertIntervals(t, got, Interval{Start: 0.25, End: 1.45})
}

func TestFindSpeakingKeepsSeparatedBursts(t *testing.T) {
	got, err := DefaultDetector().FindSpeaking(burstPCM(3, [2]float64{0.5, 0.7}, [2]float64{2.0, 2.2}))
	if err != nil {
		t.Fatalf("FindSpeaking: %v", err)
	}
	assertIntervals(t, got, Interval{Start: 0.25, End: 0.95}, Interval{Start: 1.75, End: 2.45})
}

func TestFindSpeakingAtStartClampsToZero(t *testing.T) {
	got, err := DefaultDetector().FindSpeaking(burstPCM(2, [2]float64{0, 0.3}))
	if err != nil {
		t.Fatalf("FindSpeaking: %v", err)
	}
	assertIntervals(t, got, Interval{Start: 0, End: 0.55})
}

func TestFindSpeakingTrailingSpeech(t *testing.T) {
	audio := burstPCM(2, [2]float64{0.5, 0.7}, [2]float64{1.5, 2.0})

	dropped, err := DefaultDetector().FindSpeaking(audio)
	if err != nil {
		t.Fatalf("FindSpeaking: %v", err)
	}
	assertIntervals(t, dropped, Interval{Start: 0.25, End: 0.95})

	d := DefaultDetector()
	d.CloseTrailing = true
	kept, err := d.FindSpeaking(audio)
	if err != nil {
		t.Fatalf("FindSpeaking: %v", err)
	}
	assertIntervals(t, kept, Interval{Start: 0.25, End: 0.95}, Interval{Start: 1.25, End: 2.0})
}

func TestFindSpeakingIgnoresPartialWindow(t *testing.T) {
	d := DefaultDetector()
	d.CloseTrailing = true
	got, err := d.FindSpeaking(burstPCM(1.05, [2]float64{1.0, 1.05}))
	if err != nil {
		t.Fatalf("FindSpeaking: %v", err)
	}
	assertIntervals(t, got)
}

func TestFindSpeakingEmptyAudio(t *testing.T) {
	d := DefaultDetector()
	for name, signal := range map[string]Signal{
		"nil":        nil,
		"no samples": PCM{SampleRate: rate, Channels: 1},
		"no rate":    PCM{Samples: []float32{1, 1}},
	} {
		got, err := d.FindSpeaking(signal)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("%s: expected empty non-nil list, got %#v", name, got)
		}
	}
}

func TestDetectorValidation(t *testing.T) {
	cases := map[string]Detector{
		"zero window":        {WindowSize: 0, VolumeThreshold: 0.01},
		"negative window":    {WindowSize: -1, VolumeThreshold: 0.01},
		"negative threshold": {WindowSize: 0.1, VolumeThreshold: -0.1},
		"negative ease":      {WindowSize: 0.1, VolumeThreshold: 0.01, EaseIn: -1},
		"nan window":         {WindowSize: math.NaN(), VolumeThreshold: 0.01},
	}
	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := d.FindSpeaking(burstPCM(1)); !errors.Is(err, faults.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestPCMPeakCoversAllChannels(t *testing.T) {
	pcm := PCM{Samples: []float32{0, 0, 0, -0.8, 0.1, 0}, SampleRate: 3, Channels: 2}
	if got := pcm.Duration(); got != 1 {
		t.Fatalf("expected 1s duration, got %v", got)
	}
	if got := pcm.Peak(0, 1); math.Abs(got-0.8) > 1e-6 {
		t.Fatalf("expected peak 0.8, got %v", got)
	}
	if got := pcm.Peak(2.0/3.0, 5); math.Abs(got-0.1) > 1e-6 {
		t.Fatalf("expected clamped peak 0.1, got %v", got)
	}
}

func TestTotalDuration(t *testing.T) {
	total := TotalDuration([]Interval{{Start: 0, End: 1.5}, {Start: 2, End: 3}})
	if total != 2.5 {
		t.Fatalf("expected 2.5, got %v", total)
	}
}
