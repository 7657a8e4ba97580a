package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"autocontent/internal/faults"
	"autocontent/internal/language"
	"autocontent/internal/logging"
	"autocontent/internal/toolexec"
	"autocontent/internal/transcript"
)

// TranscriptFetcher downloads captions with yt-dlp in json3 form.
type TranscriptFetcher struct {
	Runner    toolexec.Runner
	Binary    string
	Languages []string
	Logger    *slog.Logger
}

// FetchTranscript implements transcript.Fetcher. Manual captions and
// auto-generated ones are both requested; the first file matching the
// language preference order wins.
func (f *TranscriptFetcher) FetchTranscript(ctx context.Context, videoID string) ([]transcript.Record, error) {
	id, err := ValidateID(videoID)
	if err != nil {
		return nil, err
	}
	runner := f.Runner
	if runner == nil {
		runner = toolexec.CommandRunner{}
	}
	binary := strings.TrimSpace(f.Binary)
	if binary == "" {
		binary = "yt-dlp"
	}
	languages := f.Languages
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	logger := logging.NewComponentLogger(f.Logger, "youtube")

	dir, err := os.MkdirTemp("", "autocontent-subs-")
	if err != nil {
		return nil, fmt.Errorf("create caption work dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	args := []string{
		"--skip-download",
		"--write-subs", "--write-auto-subs",
		"--sub-langs", subLangs(languages),
		"--sub-format", "json3",
		"--no-playlist", "--no-warnings",
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
		URLBase + id,
	}
	if _, err := runner.Run(ctx, binary, args...); err != nil {
		return nil, fmt.Errorf("yt-dlp captions: %w", err)
	}

	path, lang, err := pickCaptionFile(dir, languages)
	if err != nil {
		return nil, faults.Wrap(faults.ErrNotFound, "fetch transcript", fmt.Sprintf("no captions for %s in %s", id, strings.Join(languages, ", ")), err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read captions: %w", err)
	}
	records, err := ParseJSON3(data)
	if err != nil {
		return nil, err
	}
	logger.Info("captions fetched",
		logging.String("video_id", id),
		logging.String("language", lang),
		logging.Int("records", len(records)),
	)
	return records, nil
}

func subLangs(languages []string) string {
	patterns := make([]string, 0, len(languages))
	for _, lang := range languages {
		patterns = append(patterns, lang+".*", lang)
	}
	return strings.Join(patterns, ",")
}

// pickCaptionFile returns the caption file for the most preferred language.
// Files are named <id>.<lang>.json3.
func pickCaptionFile(dir string, languages []string) (string, string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json3"))
	if err != nil {
		return "", "", err
	}
	if len(files) == 0 {
		return "", "", os.ErrNotExist
	}
	sort.Strings(files)
	langOf := func(path string) string {
		name := strings.TrimSuffix(filepath.Base(path), ".json3")
		if idx := strings.Index(name, "."); idx >= 0 {
			return language.Normalize(name[idx+1:])
		}
		return ""
	}
	for _, want := range languages {
		want = language.Normalize(want)
		for _, file := range files {
			if got := langOf(file); got == want {
				return file, got, nil
			}
		}
		for _, file := range files {
			if got := langOf(file); strings.HasPrefix(got, want+"-") {
				return file, got, nil
			}
		}
	}
	return files[0], langOf(files[0]), nil
}

type json3Document struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	StartMs    *int64         `json:"tStartMs"`
	DurationMs *int64         `json:"dDurationMs"`
	Segs       []json3Segment `json:"segs"`
}

type json3Segment struct {
	UTF8 string `json:"utf8"`
}

// ParseJSON3 maps YouTube json3 caption events onto records. Events without
// segments or with only whitespace are skipped.
func ParseJSON3(data []byte) ([]transcript.Record, error) {
	var doc json3Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, faults.Wrap(faults.ErrInvalidSchema, "parse json3", "decode captions", err)
	}
	records := make([]transcript.Record, 0, len(doc.Events))
	for _, ev := range doc.Events {
		if ev.StartMs == nil || len(ev.Segs) == 0 {
			continue
		}
		var b strings.Builder
		for _, seg := range ev.Segs {
			b.WriteString(seg.UTF8)
		}
		text := strings.Join(strings.Fields(b.String()), " ")
		if text == "" {
			continue
		}
		var duration float64
		if ev.DurationMs != nil {
			duration = float64(*ev.DurationMs) / 1000
		}
		records = append(records, transcript.Record{
			Text:     text,
			Start:    float64(*ev.StartMs) / 1000,
			Duration: duration,
		})
	}
	return records, nil
}
