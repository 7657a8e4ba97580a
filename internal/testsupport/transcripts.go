package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"autocontent/internal/transcript"
)

// Records returns a small transcript with three back-to-back captions.
func Records() []transcript.Record {
	return []transcript.Record{
		{Text: "- welcome back everyone", Start: 0, Duration: 2},
		{Text: "today we cut silence", Start: 2, Duration: 3},
		{Text: "and trim the captions -", Start: 5, Duration: 2.5},
	}
}

// WriteTranscript writes records as a transcript JSON file and returns its path.
func WriteTranscript(t testing.TB, path string, records []transcript.Record) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("encode transcript: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
