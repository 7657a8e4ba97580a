package subtitles

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"autocontent/internal/faults"
	"autocontent/internal/timecode"
	"autocontent/internal/transcript"
)

// Format names an output serialization.
type Format string

const (
	FormatJSON       Format = "json"
	FormatTXT        Format = "txt"
	FormatSRT        Format = "srt"
	FormatCompressed Format = "compressed"
)

// Formats lists every supported format in display order.
func Formats() []Format {
	return []Format{FormatJSON, FormatTXT, FormatSRT, FormatCompressed}
}

// ParseFormat normalizes a user-supplied format tag.
func ParseFormat(value string) (Format, error) {
	candidate := Format(strings.ToLower(strings.TrimSpace(value)))
	for _, f := range Formats() {
		if f == candidate {
			return f, nil
		}
	}
	return "", faults.Wrap(faults.ErrUnsupportedFormat, "parse format", fmt.Sprintf("%q (expected one of %s)", value, formatList()), nil)
}

func formatList() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// Render serializes records in the requested format.
func Render(records []transcript.Record, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(records)
	case FormatTXT:
		return renderTXT(records), nil
	case FormatSRT:
		return renderSRT(records), nil
	case FormatCompressed:
		return renderCompressed(records), nil
	default:
		return "", faults.Wrap(faults.ErrUnsupportedFormat, "render subtitles", fmt.Sprintf("%q", string(format)), nil)
	}
}

func renderJSON(records []transcript.Record) (string, error) {
	if records == nil {
		records = []transcript.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func renderTXT(records []transcript.Record) string {
	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "[%s - %s] %s\n", timecode.Format(rec.Start), timecode.Format(rec.End()), rec.Text)
	}
	return b.String()
}

func renderSRT(records []transcript.Record) string {
	var b strings.Builder
	for i, rec := range records {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, timecode.FormatSRT(rec.Start), timecode.FormatSRT(rec.End()), rec.Text)
	}
	return b.String()
}

func renderCompressed(records []transcript.Record) string {
	lines := make([]string, 0, len(records))
	for i, rec := range records {
		lines = append(lines, fmt.Sprintf("%d - %s", i, rec.Text))
	}
	return strings.Join(lines, "\n")
}
