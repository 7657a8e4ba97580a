package transcript

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"autocontent/internal/faults"
	"autocontent/internal/textutil"
	"autocontent/internal/timecode"
)

// DefaultArtifacts lists the characters removed by Sanitize unless overridden.
const DefaultArtifacts = "-"

// Fetcher retrieves a transcript for a video from an external service.
type Fetcher interface {
	FetchTranscript(ctx context.Context, videoID string) ([]Record, error)
}

// Source names where a transcript comes from. Exactly one field must be set.
// A non-nil empty Records slice counts as a source.
type Source struct {
	Records []Record
	Path    string
	VideoID string
}

func (s Source) count() int {
	n := 0
	if s.Records != nil {
		n++
	}
	if strings.TrimSpace(s.Path) != "" {
		n++
	}
	if strings.TrimSpace(s.VideoID) != "" {
		n++
	}
	return n
}

type options struct {
	fetcher   Fetcher
	artifacts string
	sanitize  bool
}

// Option customizes transcript construction.
type Option func(*options)

// WithFetcher sets the collaborator used for VideoID sources.
func WithFetcher(f Fetcher) Option {
	return func(o *options) {
		o.fetcher = f
	}
}

// WithArtifacts overrides the characters stripped by Sanitize.
func WithArtifacts(chars string) Option {
	return func(o *options) {
		o.artifacts = chars
	}
}

// WithoutSanitize skips the sanitize pass that normally runs after loading.
func WithoutSanitize() Option {
	return func(o *options) {
		o.sanitize = false
	}
}

// Transcript is an ordered sequence of records in arrival order. It is not
// safe for concurrent mutation.
type Transcript struct {
	records   []Record
	path      string
	videoID   string
	artifacts string
}

// New builds a transcript from exactly one source and sanitizes it unless
// WithoutSanitize is given.
func New(ctx context.Context, src Source, opts ...Option) (*Transcript, error) {
	o := options{artifacts: DefaultArtifacts, sanitize: true}
	for _, opt := range opts {
		opt(&o)
	}
	if n := src.count(); n != 1 {
		return nil, faults.Wrap(faults.ErrConstruction, "new transcript", fmt.Sprintf("expected exactly one source (records, path or video id), got %d", n), nil)
	}

	t := &Transcript{artifacts: o.artifacts}
	switch {
	case src.Records != nil:
		t.records = append([]Record{}, src.Records...)
	case strings.TrimSpace(src.Path) != "":
		abs, records, err := Load(src.Path)
		if err != nil {
			return nil, err
		}
		t.path = abs
		t.records = records
	default:
		if o.fetcher == nil {
			return nil, faults.Wrap(faults.ErrConstruction, "new transcript", "video id source requires a fetcher", nil)
		}
		t.videoID = strings.TrimSpace(src.VideoID)
		records, err := o.fetcher.FetchTranscript(ctx, t.videoID)
		if err != nil {
			return nil, fmt.Errorf("fetch transcript %s: %w", t.videoID, err)
		}
		t.records = append([]Record{}, records...)
	}

	if o.sanitize {
		t.Sanitize()
	}
	return t, nil
}

// Load reads and decodes a transcript file. The file must exist and carry a
// .json suffix. The absolute path is returned alongside the records.
func Load(path string) (string, []Record, error) {
	abs, err := filepath.Abs(strings.TrimSpace(path))
	if err != nil {
		return "", nil, faults.Wrap(faults.ErrInvalidFilePath, "load transcript", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, faults.Wrap(faults.ErrNotFound, "load transcript", abs, nil)
		}
		return "", nil, faults.Wrap(faults.ErrInvalidFilePath, "load transcript", abs, err)
	}
	if info.IsDir() || filepath.Ext(abs) != ".json" {
		return "", nil, faults.Wrap(faults.ErrInvalidFilePath, "load transcript", fmt.Sprintf("%s: expected a .json file", abs), nil)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", nil, fmt.Errorf("read transcript: %w", err)
	}
	records, err := Decode(data)
	if err != nil {
		return "", nil, err
	}
	return abs, records, nil
}

// Records returns a copy of the records.
func (t *Transcript) Records() []Record {
	return append([]Record{}, t.records...)
}

// Len returns the number of records.
func (t *Transcript) Len() int {
	return len(t.records)
}

// Path returns the absolute source file, or "" when not loaded from disk.
func (t *Transcript) Path() string {
	return t.path
}

// VideoID returns the fetched video id, or "" when not fetched.
func (t *Transcript) VideoID() string {
	return t.videoID
}

// Sanitize strips artifact characters and surrounding whitespace from every
// record in place. It is idempotent.
func (t *Transcript) Sanitize() {
	for i := range t.records {
		t.records[i].Text = textutil.StripArtifacts(t.records[i].Text, t.artifacts)
	}
}

// Cut returns a new transcript with the records that start at or after t1 and
// end no later than t2 plus their own duration. A record that starts before t2
// is therefore kept even if it runs past t2. The chunk keeps the source path
// and video id so ChunkFileName can name it.
func (t *Transcript) Cut(t1, t2 any) (*Transcript, error) {
	window, err := timecode.NewRange(t1, t2)
	if err != nil {
		return nil, fmt.Errorf("cut transcript: %w", err)
	}
	kept := make([]Record, 0, len(t.records))
	for _, rec := range t.records {
		if rec.Start >= window.Start && rec.End() <= window.End+rec.Duration {
			kept = append(kept, rec)
		}
	}
	return &Transcript{records: kept, path: t.path, videoID: t.videoID, artifacts: t.artifacts}, nil
}

// ShiftLeft subtracts the first record's start from every start so the
// transcript begins at zero. Records are not assumed sorted.
func (t *Transcript) ShiftLeft() error {
	if len(t.records) == 0 {
		return faults.Wrap(faults.ErrEmptyTranscript, "shift transcript", "no records", nil)
	}
	offset := t.records[0].Start
	for i := range t.records {
		t.records[i].Start -= offset
	}
	return nil
}

// Restructure rewraps each record's words onto exactly lines lines. Leading
// lines take the remainder words.
func (t *Transcript) Restructure(lines int) error {
	if lines <= 0 || lines >= 10 {
		return faults.Wrap(faults.ErrValidation, "restructure transcript", fmt.Sprintf("lines must be between 1 and 9, got %d", lines), nil)
	}
	for i := range t.records {
		t.records[i].Text = wrapWords(t.records[i].Text, lines)
	}
	return nil
}

func wrapWords(text string, lines int) string {
	words := strings.Fields(text)
	total := len(words)
	perLine := total / lines
	if perLine == 0 {
		perLine = total
	}
	remainder := total % lines

	out := make([]string, lines)
	left := 0
	for i := range lines {
		right := left + perLine
		if i < remainder {
			right++
		}
		out[i] = strings.Join(words[min(left, total):min(right, total)], " ")
		left = right
	}
	return strings.Join(out, "\n")
}

// ChunkFileName derives the default output path for a chunk of this
// transcript: next to the source file, or under dir for fetched and in-memory
// transcripts.
func (t *Transcript) ChunkFileName(t1, t2 float64, format, dir string) string {
	tail := fmt.Sprintf("chunk_%s_%s.%s", timecode.FormatSeconds(t1), timecode.FormatSeconds(t2), format)
	switch {
	case t.path != "":
		stem := strings.TrimSuffix(filepath.Base(t.path), filepath.Ext(t.path))
		return filepath.Join(filepath.Dir(t.path), stem+"_"+tail)
	case t.videoID != "":
		return filepath.Join(dir, t.videoID+"_"+tail)
	default:
		return filepath.Join(dir, textutil.ShortID()+"_"+tail)
	}
}
