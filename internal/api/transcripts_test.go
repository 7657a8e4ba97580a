package api

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autocontent/internal/faults"
	"autocontent/internal/logging"
	"autocontent/internal/testsupport"
)

func TestPullWritesSanitizedJSONUnderSubsDir(t *testing.T) {
	rt, cfg := newRuntime(t)
	fetcher := &staticFetcher{records: testsupport.Records()}
	rt.Fetcher = fetcher

	res, err := Pull(context.Background(), rt, PullRequest{Video: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"})
	require.NoError(t, err)

	want := filepath.Join(cfg.Paths.SubsDir, "dQw4w9WgXcQ.json")
	assert.Equal(t, want, res.Path)
	assert.Equal(t, "dQw4w9WgXcQ", res.VideoID)
	assert.Equal(t, 3, res.Records)

	records := readRecords(t, want)
	require.Len(t, records, 3)
	assert.Equal(t, "welcome back everyone", records[0].Text)
	assert.Equal(t, "and trim the captions", records[2].Text)
}

func TestPullNamedOutputRespectsForce(t *testing.T) {
	rt, cfg := newRuntime(t)
	rt.Fetcher = &staticFetcher{records: testsupport.Records()}
	ctx := context.Background()
	req := PullRequest{Video: "dQw4w9WgXcQ", Output: "talk"}

	res, err := Pull(ctx, rt, req)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Paths.SubsDir, "talk.json"), res.Path)

	_, err = Pull(ctx, rt, req)
	assert.ErrorIs(t, err, faults.ErrFileExists)

	req.Force = true
	_, err = Pull(ctx, rt, req)
	assert.NoError(t, err)
}

func TestPullFailedFetchKeepsExistingFile(t *testing.T) {
	rt, cfg := newRuntime(t)
	existing := filepath.Join(cfg.Paths.SubsDir, "dQw4w9WgXcQ.json")
	testsupport.WriteTranscript(t, existing, testsupport.Records())
	before, err := os.ReadFile(existing)
	require.NoError(t, err)
	rt.Fetcher = &staticFetcher{err: faults.Wrap(faults.ErrExternalTool, "fetch transcript", "no captions", nil)}

	_, err = Pull(context.Background(), rt, PullRequest{Video: "dQw4w9WgXcQ", Force: true})
	require.Error(t, err)

	after, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assertNoScratch(t, cfg.Paths.SubsDir)
}

func TestPullRejectsBadVideoID(t *testing.T) {
	rt, _ := newRuntime(t)
	fetcher := &staticFetcher{}
	rt.Fetcher = fetcher

	_, err := Pull(context.Background(), rt, PullRequest{Video: "short"})
	assert.ErrorIs(t, err, faults.ErrValidation)
	assert.Zero(t, fetcher.calls)
}

func TestPullUsesTranscriptCache(t *testing.T) {
	rt, cfg := newRuntime(t)
	store := testsupport.MustOpenCache(t, cfg)
	require.NoError(t, store.Put(context.Background(), "dQw4w9WgXcQ", "en", testsupport.Records()))
	require.NoError(t, store.Close())
	// Caption download would fail: the cached copy must be used instead.
	rt.Runner = &fakeTools{}

	res, err := Pull(context.Background(), rt, PullRequest{Video: "dQw4w9WgXcQ"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Records)
}

func TestConvertDefaultsNextToSource(t *testing.T) {
	rt, cfg := newRuntime(t)
	src := testsupport.WriteTranscript(t, filepath.Join(cfg.Paths.SubsDir, "talk.json"), testsupport.Records())

	res, err := Convert(context.Background(), rt, ConvertRequest{Source: src, Format: "srt"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Paths.SubsDir, "talk.srt"), res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "1\n00:00:00,000 --> 00:00:02,000\nwelcome back everyone\n"), string(data))
}

func TestConvertDefaultFormatIsTxt(t *testing.T) {
	rt, cfg := newRuntime(t)
	src := testsupport.WriteTranscript(t, filepath.Join(cfg.Paths.SubsDir, "talk.json"), testsupport.Records())

	res, err := Convert(context.Background(), rt, ConvertRequest{Source: src, Restructure: 2})
	require.NoError(t, err)
	assert.Equal(t, "txt", res.Format)
	assert.FileExists(t, filepath.Join(cfg.Paths.SubsDir, "talk.txt"))
}

func TestConvertErrors(t *testing.T) {
	rt, cfg := newRuntime(t)
	src := testsupport.WriteTranscript(t, filepath.Join(cfg.Paths.SubsDir, "talk.json"), testsupport.Records())
	ctx := context.Background()

	_, err := Convert(ctx, rt, ConvertRequest{Source: src, Format: "docx"})
	assert.ErrorIs(t, err, faults.ErrUnsupportedFormat)

	_, err = Convert(ctx, rt, ConvertRequest{Source: src, Restructure: 12})
	assert.ErrorIs(t, err, faults.ErrValidation)

	outside := filepath.Join(filepath.Dir(cfg.Paths.HomeDir), "elsewhere.txt")
	_, err = Convert(ctx, rt, ConvertRequest{Source: src, Output: outside})
	assert.ErrorIs(t, err, faults.ErrInvalidFilePath)
	assert.NoFileExists(t, outside)

	_, err = Convert(ctx, rt, ConvertRequest{Source: filepath.Join(cfg.Paths.SubsDir, "missing.json")})
	assert.ErrorIs(t, err, faults.ErrNotFound)
}

func TestChunkCutsShiftsAndNames(t *testing.T) {
	rt, cfg := newRuntime(t)
	src := testsupport.WriteTranscript(t, filepath.Join(cfg.Paths.SubsDir, "talk.json"), testsupport.Records())

	res, err := Chunk(context.Background(), rt, ChunkRequest{
		Source: src,
		Start:  "2",
		End:    "00:00:05",
		Format: "json",
		Shift:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Paths.SubsDir, "talk_chunk_2.0_5.0.json"), res.Path)

	// The record starting at 5s ends at 7.5s but is kept by the cut tolerance.
	records := readRecords(t, res.Path)
	require.Len(t, records, 2)
	assert.Equal(t, 0.0, records[0].Start)
	assert.Equal(t, 3.0, records[1].Start)
}

func TestChunkErrors(t *testing.T) {
	rt, cfg := newRuntime(t)
	src := testsupport.WriteTranscript(t, filepath.Join(cfg.Paths.SubsDir, "talk.json"), testsupport.Records())
	ctx := context.Background()

	_, err := Chunk(ctx, rt, ChunkRequest{Source: src, Start: "5", End: "2"})
	assert.ErrorIs(t, err, faults.ErrInvalidRange)

	_, err = Chunk(ctx, rt, ChunkRequest{Source: src, Start: "1:2:3:4", End: "9"})
	assert.ErrorIs(t, err, faults.ErrInvalidTimeFormat)

	_, err = Chunk(ctx, rt, ChunkRequest{Source: src, Start: "100", End: "200", Shift: true})
	assert.ErrorIs(t, err, faults.ErrEmptyTranscript)
}

func TestChunkOutputDirectory(t *testing.T) {
	rt, cfg := newRuntime(t)
	src := testsupport.WriteTranscript(t, filepath.Join(cfg.Paths.SubsDir, "talk.json"), testsupport.Records())
	outDir := filepath.Join(cfg.Paths.HomeDir, "chunks") + string(filepath.Separator)

	res, err := Chunk(context.Background(), rt, ChunkRequest{Source: src, Start: "0", End: "2", Format: "compressed", Output: outDir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Paths.HomeDir, "chunks", "talk_chunk_0.0_2.0.compressed"), res.Path)
}

func TestWorkflowsRequireConfig(t *testing.T) {
	_, err := Convert(context.Background(), Runtime{}, ConvertRequest{Source: "x.json"})
	assert.ErrorIs(t, err, faults.ErrConfiguration)
}

func TestChunkWarnsOnEmptySRT(t *testing.T) {
	rt, cfg := newRuntime(t)
	var logs bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &logs})
	require.NoError(t, err)
	rt.Logger = logger
	source := testsupport.WriteTranscript(t, filepath.Join(cfg.Paths.SubsDir, "talk.json"), testsupport.Records())

	res, err := Chunk(context.Background(), rt, ChunkRequest{Source: source, Start: "100", End: "200", Format: "srt"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Records)
	assert.FileExists(t, res.Path)
	assert.Contains(t, logs.String(), "event_type=srt_validation_failed")
	assert.Contains(t, logs.String(), "empty_subtitle_file")
}
