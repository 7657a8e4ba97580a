package api

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"autocontent/internal/faults"
	"autocontent/internal/logging"
	"autocontent/internal/media"
	"autocontent/internal/pathguard"
	"autocontent/internal/services/youtube"
	"autocontent/internal/silence"
	"autocontent/internal/timecode"
)

const (
	videoFormat = "mp4"
	audioFormat = "m4a"
)

// PullVideoRequest downloads a video (or only its audio) into sources_dir.
type PullVideoRequest struct {
	Video string
	// Importer overrides download.importer.
	Importer  string
	AudioOnly bool
	Output    string
	Force     bool
}

// PullVideo downloads Video to <sources_dir>/<video-id>.mp4 (.m4a for audio
// only). Concurrent pulls of the same id wait on a lock file in sources_dir.
func PullVideo(ctx context.Context, rt Runtime, req PullVideoRequest) (VideoResult, error) {
	if err := rt.check(); err != nil {
		return VideoResult{}, err
	}
	id, err := youtube.Resolve(req.Video)
	if err != nil {
		return VideoResult{}, err
	}
	imp, err := rt.importer(req.Importer)
	if err != nil {
		return VideoResult{}, err
	}
	format := videoFormat
	if req.AudioOnly {
		format = audioFormat
	}
	guard, err := rt.guard()
	if err != nil {
		return VideoResult{}, err
	}
	staged, err := guard.Stage(pathguard.Request{
		Candidate:  namedCandidate(req.Output, rt.Config.Paths.SourcesDir),
		DefaultDir: rt.Config.Paths.SourcesDir,
		Stem:       id,
		Format:     format,
		Force:      req.Force,
	})
	if err != nil {
		return VideoResult{}, err
	}

	download := imp.Download
	if req.AudioOnly {
		download = imp.DownloadAudio
	}
	if _, err := download(ctx, youtube.Request{VideoID: id, Target: staged.Scratch()}); err != nil {
		staged.Abort()
		return VideoResult{}, err
	}
	target, err := staged.Commit()
	if err != nil {
		return VideoResult{}, err
	}
	path := target.Path()
	rt.logger("pull-video").Info("video downloaded",
		logging.String("video_id", id),
		logging.String("importer", imp.Name()),
		logging.String("path", path),
		logging.Bool("audio_only", req.AudioOnly),
	)
	return VideoResult{VideoID: id, Importer: imp.Name(), Path: path}, nil
}

// ClipRequest cuts a time range out of a local video.
type ClipRequest struct {
	Source     string
	Start      string
	End        string
	StripSound bool
	Output     string
	Force      bool
}

// Clip writes [Start, End) of Source to <sources_dir>/<stem>-clip-<t1>-<t2>.mp4
// by default.
func Clip(ctx context.Context, rt Runtime, req ClipRequest) (VideoResult, error) {
	if err := rt.check(); err != nil {
		return VideoResult{}, err
	}
	src, err := media.CheckVideoFile(req.Source, rt.Config.Media.VideoFormats)
	if err != nil {
		return VideoResult{}, err
	}
	start, end, err := timecode.ParseRange(req.Start, req.End)
	if err != nil {
		return VideoResult{}, err
	}
	stem := fmt.Sprintf("%s-clip-%s", stemOf(src), rangeLabel(start, end))
	target, err := rt.renderVideo(req.Output, stem, req.Force, func(dst string) error {
		return rt.editor().Clip(ctx, src, dst, start, end, req.StripSound)
	})
	if err != nil {
		return VideoResult{}, err
	}
	return VideoResult{Source: src, Path: target.Path()}, nil
}

// CutSilenceRequest removes silent stretches from a local video.
type CutSilenceRequest struct {
	Source   string
	Detector silence.Detector
	// DryRun reports the speaking intervals without writing a file.
	DryRun bool
	Output string
	Force  bool
}

// CutSilence decodes the audio of Source, finds the speaking intervals and
// splices them into <sources_dir>/<stem>-speaking.mp4.
func CutSilence(ctx context.Context, rt Runtime, req CutSilenceRequest) (CutSilenceResult, error) {
	if err := rt.check(); err != nil {
		return CutSilenceResult{}, err
	}
	if err := req.Detector.Validate(); err != nil {
		return CutSilenceResult{}, err
	}
	src, err := media.CheckVideoFile(req.Source, rt.Config.Media.VideoFormats)
	if err != nil {
		return CutSilenceResult{}, err
	}
	editor := rt.editor()
	probe, err := editor.Probe(ctx, src)
	if err != nil {
		return CutSilenceResult{}, err
	}
	if !probe.HasAudio() {
		return CutSilenceResult{}, faults.Wrap(faults.ErrValidation, "cut silence", fmt.Sprintf("%s has no audio track", src), nil)
	}
	pcm, err := editor.DecodeAudio(ctx, src, rt.Config.Silence.SampleRate)
	if err != nil {
		return CutSilenceResult{}, err
	}
	intervals, err := req.Detector.FindSpeaking(pcm)
	if err != nil {
		return CutSilenceResult{}, err
	}

	result := CutSilenceResult{
		Source:        src,
		DryRun:        req.DryRun,
		Intervals:     intervals,
		SourceSeconds: pcm.Duration(),
		KeptSeconds:   silence.TotalDuration(intervals),
	}
	logger := rt.logger("cut-silence")
	logger.Info("speaking intervals detected",
		logging.String("source", src),
		logging.Int("intervals", len(intervals)),
		logging.Float64("source_seconds", result.SourceSeconds),
		logging.Float64("kept_seconds", result.KeptSeconds),
	)
	if req.DryRun {
		return result, nil
	}
	if len(intervals) == 0 {
		return result, faults.Wrap(faults.ErrValidation, "cut silence", fmt.Sprintf("no speech detected in %s (lower --threshold?)", src), nil)
	}

	target, err := rt.renderVideo(req.Output, stemOf(src)+"-speaking", req.Force, func(dst string) error {
		return editor.Splice(ctx, src, dst, intervals, true)
	})
	if err != nil {
		return result, err
	}
	result.Path = target.Path()
	return result, nil
}

// ModifySpeedRequest changes the playback speed of a local video.
type ModifySpeedRequest struct {
	Source string
	Factor float64
	Output string
	Force  bool
}

// ModifySpeed writes Source played Factor times faster to
// <sources_dir>/<stem>-x<factor>.mp4.
func ModifySpeed(ctx context.Context, rt Runtime, req ModifySpeedRequest) (VideoResult, error) {
	if err := rt.check(); err != nil {
		return VideoResult{}, err
	}
	if _, err := media.AtempoChain(req.Factor); err != nil {
		return VideoResult{}, err
	}
	src, err := media.CheckVideoFile(req.Source, rt.Config.Media.VideoFormats)
	if err != nil {
		return VideoResult{}, err
	}
	editor := rt.editor()
	probe, err := editor.Probe(ctx, src)
	if err != nil {
		return VideoResult{}, err
	}
	stem := fmt.Sprintf("%s-x%s", stemOf(src), strconv.FormatFloat(req.Factor, 'f', -1, 64))
	target, err := rt.renderVideo(req.Output, stem, req.Force, func(dst string) error {
		return editor.ChangeSpeed(ctx, src, dst, req.Factor, probe.HasAudio())
	})
	if err != nil {
		return VideoResult{}, err
	}
	return VideoResult{Source: src, Path: target.Path()}, nil
}

// renderVideo runs an external tool into a scratch file beside the output
// and moves it into place once the tool succeeds. A forced run that fails
// leaves the previous output as it was.
func (rt Runtime) renderVideo(output, stem string, force bool, run func(dst string) error) (pathguard.Target, error) {
	guard, err := rt.guard()
	if err != nil {
		return pathguard.Target{}, err
	}
	staged, err := guard.Stage(pathguard.Request{
		Candidate:  output,
		DefaultDir: rt.Config.Paths.SourcesDir,
		Stem:       stem,
		Format:     videoFormat,
		Force:      force,
	})
	if err != nil {
		return pathguard.Target{}, err
	}
	dst, err := pathguard.Claim(staged.Scratch())
	if err != nil {
		return pathguard.Target{}, err
	}
	if err := run(dst); err != nil {
		staged.Abort()
		return pathguard.Target{}, err
	}
	return staged.Commit()
}

func stemOf(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
