package api

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"autocontent/internal/logging"
	"autocontent/internal/pathguard"
	"autocontent/internal/services/youtube"
	"autocontent/internal/subtitles"
	"autocontent/internal/textutil"
	"autocontent/internal/timecode"
	"autocontent/internal/transcript"
)

// PullRequest fetches the transcript of a video into the subtitles directory.
type PullRequest struct {
	// Video is a video id or a YouTube URL.
	Video string
	// Output is a bare name (written under subs_dir) or a path.
	Output string
	Force  bool
}

// Pull fetches a transcript (cache first) and writes it as JSON to
// <subs_dir>/<output|video-id>.json.
func Pull(ctx context.Context, rt Runtime, req PullRequest) (TranscriptResult, error) {
	if err := rt.check(); err != nil {
		return TranscriptResult{}, err
	}
	id, err := youtube.Resolve(req.Video)
	if err != nil {
		return TranscriptResult{}, err
	}
	guard, err := rt.guard()
	if err != nil {
		return TranscriptResult{}, err
	}
	staged, err := guard.Stage(pathguard.Request{
		Candidate:  namedCandidate(req.Output, rt.Config.Paths.SubsDir),
		DefaultDir: rt.Config.Paths.SubsDir,
		Stem:       id,
		Format:     string(subtitles.FormatJSON),
		Force:      req.Force,
	})
	if err != nil {
		return TranscriptResult{}, err
	}

	fetcher, release := rt.fetcher()
	defer release()
	t, err := transcript.New(ctx, transcript.Source{VideoID: id}, rt.transcriptOptions(transcript.WithFetcher(fetcher))...)
	if err != nil {
		return TranscriptResult{}, err
	}
	if err := writeRecords(rt.logger("pull"), staged.Scratch(), t.Records(), subtitles.FormatJSON); err != nil {
		staged.Abort()
		return TranscriptResult{}, err
	}
	target, err := staged.Commit()
	if err != nil {
		return TranscriptResult{}, err
	}
	rt.logger("pull").Info("transcript saved",
		logging.String("video_id", id),
		logging.String("path", target.Path()),
		logging.Int("records", t.Len()),
	)
	return TranscriptResult{VideoID: id, Path: target.Path(), Format: target.Format(), Records: t.Len()}, nil
}

// ConvertRequest renders a JSON transcript in another format.
type ConvertRequest struct {
	Source string
	Format string
	// Restructure rewraps every record onto this many lines when positive.
	Restructure int
	Output      string
	Force       bool
}

// Convert writes Source in Format. Without Output the file lands next to the
// source with the new suffix.
func Convert(ctx context.Context, rt Runtime, req ConvertRequest) (TranscriptResult, error) {
	if err := rt.check(); err != nil {
		return TranscriptResult{}, err
	}
	format, err := subtitles.ParseFormat(defaultFormat(req.Format))
	if err != nil {
		return TranscriptResult{}, err
	}
	t, err := LoadTranscript(ctx, rt, req.Source)
	if err != nil {
		return TranscriptResult{}, err
	}
	if req.Restructure != 0 {
		if err := t.Restructure(req.Restructure); err != nil {
			return TranscriptResult{}, err
		}
	}
	guard, err := rt.guard()
	if err != nil {
		return TranscriptResult{}, err
	}
	target, err := guard.Resolve(pathguard.Request{
		Candidate:  req.Output,
		DefaultDir: filepath.Dir(t.Path()),
		Stem:       strings.TrimSuffix(filepath.Base(t.Path()), filepath.Ext(t.Path())),
		Format:     string(format),
		Force:      req.Force,
	})
	if err != nil {
		return TranscriptResult{}, err
	}
	if err := writeRecords(rt.logger("convert"), target, t.Records(), format); err != nil {
		return TranscriptResult{}, err
	}
	rt.logger("convert").Info("transcript converted",
		logging.String("source", t.Path()),
		logging.String("path", target.Path()),
		logging.String("format", string(format)),
	)
	return TranscriptResult{Source: t.Path(), Path: target.Path(), Format: string(format), Records: t.Len()}, nil
}

// ChunkRequest extracts a time range of a JSON transcript.
type ChunkRequest struct {
	Source string
	// Start and End accept seconds or HH:MM:SS notation.
	Start       string
	End         string
	Format      string
	Shift       bool
	Restructure int
	Output      string
	Force       bool
}

// Chunk cuts [Start, End] out of Source, optionally shifting it to zero, and
// writes it next to the source as <stem>_chunk_<t1>_<t2>.<fmt> by default.
func Chunk(ctx context.Context, rt Runtime, req ChunkRequest) (TranscriptResult, error) {
	if err := rt.check(); err != nil {
		return TranscriptResult{}, err
	}
	format, err := subtitles.ParseFormat(defaultFormat(req.Format))
	if err != nil {
		return TranscriptResult{}, err
	}
	start, end, err := timecode.ParseRange(req.Start, req.End)
	if err != nil {
		return TranscriptResult{}, err
	}
	original, err := LoadTranscript(ctx, rt, req.Source)
	if err != nil {
		return TranscriptResult{}, err
	}
	chunk, err := original.Cut(start, end)
	if err != nil {
		return TranscriptResult{}, err
	}
	if req.Shift {
		if err := chunk.ShiftLeft(); err != nil {
			return TranscriptResult{}, err
		}
	}
	if req.Restructure != 0 {
		if err := chunk.Restructure(req.Restructure); err != nil {
			return TranscriptResult{}, err
		}
	}

	defaultPath := original.ChunkFileName(start, end, string(format), rt.Config.Paths.SubsDir)
	candidate := req.Output
	if strings.TrimSpace(candidate) == "" {
		candidate = defaultPath
	}
	guard, err := rt.guard()
	if err != nil {
		return TranscriptResult{}, err
	}
	target, err := guard.Resolve(pathguard.Request{
		Candidate: candidate,
		Stem:      strings.TrimSuffix(filepath.Base(defaultPath), filepath.Ext(defaultPath)),
		Format:    string(format),
		Force:     req.Force,
	})
	if err != nil {
		return TranscriptResult{}, err
	}
	if err := writeRecords(rt.logger("chunk"), target, chunk.Records(), format); err != nil {
		return TranscriptResult{}, err
	}
	rt.logger("chunk").Info("chunk written",
		logging.String("source", original.Path()),
		logging.String("path", target.Path()),
		logging.String("range", timecode.Range{Start: start, End: end}.String()),
		logging.Int("records", chunk.Len()),
		logging.Bool("shifted", req.Shift),
	)
	return TranscriptResult{Source: original.Path(), Path: target.Path(), Format: string(format), Records: chunk.Len()}, nil
}

func writeRecords(logger *slog.Logger, target pathguard.Target, records []transcript.Record, format subtitles.Format) error {
	content, err := subtitles.Render(records, format)
	if err != nil {
		return err
	}
	if err := pathguard.WriteFile(target, []byte(content)); err != nil {
		return err
	}
	if format == subtitles.FormatSRT {
		if issues := subtitles.Validate(content, 0); len(issues) > 0 {
			logging.WarnWithContext(logger, "srt output has issues", "srt_validation_failed",
				logging.String("path", target.Path()),
				logging.String("issues", strings.Join(issues, ",")),
				logging.Int("cues", subtitles.CountCues(content)),
			)
		}
	}
	return nil
}

func defaultFormat(value string) string {
	if strings.TrimSpace(value) == "" {
		return string(subtitles.FormatTXT)
	}
	return value
}

// namedCandidate treats a bare output name as a file inside dir; anything
// that looks like a path is returned unchanged.
func namedCandidate(output, dir string) string {
	output = strings.TrimSpace(output)
	if output == "" || strings.HasPrefix(output, "~") || strings.ContainsRune(output, filepath.Separator) {
		return output
	}
	name := textutil.SanitizeFileName(output)
	if name == "" {
		return output
	}
	return filepath.Join(dir, name)
}

func rangeLabel(start, end float64) string {
	return fmt.Sprintf("%s-%s", timecode.FormatSeconds(start), timecode.FormatSeconds(end))
}
