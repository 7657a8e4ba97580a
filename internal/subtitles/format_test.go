package subtitles

import (
	"errors"
	"testing"

	"autocontent/internal/faults"
	"autocontent/internal/transcript"
)

var sample = []transcript.Record{
	{Text: "hello <world>", Start: 0, Duration: 1.5},
	{Text: "second", Start: 61.25, Duration: 2},
}

func TestRenderJSON(t *testing.T) {
	got, err := Render(sample, FormatJSON)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `[{"text":"hello <world>","start":0,"duration":1.5},{"text":"second","start":61.25,"duration":2}]`
	if got != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", got, want)
	}

	empty, err := Render(nil, FormatJSON)
	if err != nil {
		t.Fatalf("Render empty: %v", err)
	}
	if empty != "[]" {
		t.Fatalf("expected [] for empty transcript, got %q", empty)
	}
}

func TestRenderJSONRoundTripsThroughDecode(t *testing.T) {
	got, err := Render(sample, FormatJSON)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	decoded, err := transcript.Decode([]byte(got))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded) != len(sample) || decoded[1] != sample[1] {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestRenderTXT(t *testing.T) {
	got, err := Render(sample, FormatTXT)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "[00:00:00 - 00:00:01] hello <world>\n[00:01:01 - 00:01:03] second\n"
	if got != want {
		t.Fatalf("unexpected txt:\n%q\nwant\n%q", got, want)
	}
}

func TestRenderSRT(t *testing.T) {
	got, err := Render(sample, FormatSRT)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,500\nhello <world>\n\n" +
		"2\n00:01:01,250 --> 00:01:03,250\nsecond\n\n"
	if got != want {
		t.Fatalf("unexpected srt:\n%q\nwant\n%q", got, want)
	}
	if issues := Validate(got, 0); len(issues) != 0 {
		t.Fatalf("rendered srt should validate, got %v", issues)
	}
}

func TestRenderCompressed(t *testing.T) {
	got, err := Render(sample, FormatCompressed)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "0 - hello <world>\n1 - second" {
		t.Fatalf("unexpected compressed output %q", got)
	}
	empty, _ := Render(nil, FormatCompressed)
	if empty != "" {
		t.Fatalf("expected empty compressed output, got %q", empty)
	}
}

func TestRenderUnsupported(t *testing.T) {
	if _, err := Render(sample, Format("vtt")); !errors.Is(err, faults.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	got, err := ParseFormat(" SRT ")
	if err != nil || got != FormatSRT {
		t.Fatalf("ParseFormat = %q, %v", got, err)
	}
	if _, err := ParseFormat("docx"); !errors.Is(err, faults.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}
