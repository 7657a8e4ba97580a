package api

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"autocontent/internal/config"
	"autocontent/internal/testsupport"
	"autocontent/internal/toolexec"
	"autocontent/internal/transcript"
)

const probeWithAudio = `{"streams":[{"index":0,"codec_type":"video","codec_name":"h264"},{"index":1,"codec_type":"audio","codec_name":"aac"}],"format":{"duration":"3.0"}}`

const probeVideoOnly = `{"streams":[{"index":0,"codec_type":"video","codec_name":"h264"}],"format":{"duration":"3.0"}}`

// fakeTools stands in for ffmpeg, ffprobe and the downloaders. Commands that
// produce a file write a placeholder at their output argument.
type fakeTools struct {
	mu    sync.Mutex
	calls [][]string
	probe string
	pcm   []float32
	fail  bool
}

func (f *fakeTools) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	switch filepath.Base(name) {
	case "ffprobe":
		return []byte(f.probe), nil
	case "ffmpeg":
		if slices.Contains(args, "f32le") {
			return encodePCM(f.pcm), nil
		}
		return nil, f.produce(args[len(args)-1])
	default:
		if i := slices.Index(args, "-o"); i >= 0 && i+1 < len(args) {
			return nil, f.produce(args[i+1])
		}
		return nil, nil
	}
}

func (f *fakeTools) produce(path string) error {
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		return err
	}
	if f.fail {
		return &toolexec.ToolError{Tool: "fake", Err: errors.New("exit status 1")}
	}
	return nil
}

func (f *fakeTools) callsTo(binary string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][]string
	for _, call := range f.calls {
		if filepath.Base(call[0]) == binary {
			out = append(out, call)
		}
	}
	return out
}

func encodePCM(samples []float32) []byte {
	raw := make([]byte, 0, len(samples)*4)
	for _, v := range samples {
		raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(v))
	}
	return raw
}

// burst returns silence, speech, silence of one second each at rate.
func burst(rate int) []float32 {
	samples := make([]float32, 3*rate)
	for i := rate; i < 2*rate; i++ {
		samples[i] = 0.5
	}
	return samples
}

type staticFetcher struct {
	records []transcript.Record
	err     error
	calls   int
}

func (f *staticFetcher) FetchTranscript(context.Context, string) ([]transcript.Record, error) {
	f.calls++
	return f.records, f.err
}

func newRuntime(t *testing.T, opts ...testsupport.ConfigOption) (Runtime, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return Runtime{Config: cfg}, cfg
}

func writeVideo(t *testing.T, cfg *config.Config, name string) string {
	t.Helper()
	path := filepath.Join(cfg.Paths.SourcesDir, name)
	testsupport.WriteFile(t, path, 64)
	return path
}

func assertNoScratch(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*.partial-*"))
	if err != nil {
		t.Fatalf("glob %s: %v", dir, err)
	}
	if len(matches) > 0 {
		t.Fatalf("scratch files left behind: %v", matches)
	}
}

func readRecords(t *testing.T, path string) []transcript.Record {
	t.Helper()
	_, records, err := transcript.Load(path)
	if err != nil {
		t.Fatalf("load %s: %v", path, err)
	}
	return records
}
