package media

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"autocontent/internal/faults"
	"autocontent/internal/logging"
	"autocontent/internal/media/ffprobe"
	"autocontent/internal/silence"
	"autocontent/internal/toolexec"
)

// Options configures an Editor.
type Options struct {
	FFmpegBinary  string
	FFprobeBinary string
	Runner        toolexec.Runner
	Logger        *slog.Logger
}

// Editor runs ffmpeg and ffprobe on behalf of the video workflows.
type Editor struct {
	ffmpeg  string
	ffprobe string
	runner  toolexec.Runner
	logger  *slog.Logger
}

// NewEditor builds an Editor, defaulting binaries to ffmpeg/ffprobe on PATH.
func NewEditor(opts Options) *Editor {
	e := &Editor{
		ffmpeg:  strings.TrimSpace(opts.FFmpegBinary),
		ffprobe: strings.TrimSpace(opts.FFprobeBinary),
		runner:  opts.Runner,
		logger:  logging.NewComponentLogger(opts.Logger, "media"),
	}
	if e.ffmpeg == "" {
		e.ffmpeg = "ffmpeg"
	}
	if e.ffprobe == "" {
		e.ffprobe = "ffprobe"
	}
	if e.runner == nil {
		e.runner = toolexec.CommandRunner{}
	}
	return e
}

// Probe inspects a media file.
func (e *Editor) Probe(ctx context.Context, path string) (ffprobe.Result, error) {
	return ffprobe.Inspect(ctx, e.runner, e.ffprobe, path)
}

// DecodeAudio decodes the first audio track to mono 32-bit float PCM at
// sampleRate.
func (e *Editor) DecodeAudio(ctx context.Context, path string, sampleRate int) (silence.PCM, error) {
	if sampleRate <= 0 {
		return silence.PCM{}, faults.Wrap(faults.ErrValidation, "decode audio", fmt.Sprintf("sample rate must be positive, got %d", sampleRate), nil)
	}
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-f", "f32le",
		"-",
	}
	start := time.Now()
	raw, err := e.run(ctx, args)
	if err != nil {
		return silence.PCM{}, fmt.Errorf("decode audio: %w", err)
	}
	pcm := silence.PCM{Samples: decodeFloat32LE(raw), SampleRate: sampleRate, Channels: 1}
	e.logger.Debug("audio decoded",
		logging.String("source", path),
		logging.Int("samples", len(pcm.Samples)),
		logging.Float64("duration_seconds", pcm.Duration()),
		logging.Duration("elapsed", time.Since(start)),
	)
	return pcm, nil
}

func decodeFloat32LE(raw []byte) []float32 {
	samples := make([]float32, len(raw)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return samples
}

// Clip writes the [start, end) section of src to dst, re-encoding to
// H.264/AAC. stripAudio drops the audio track.
func (e *Editor) Clip(ctx context.Context, src, dst string, start, end float64, stripAudio bool) error {
	if !(start >= 0) || !(end > start) {
		return faults.Wrap(faults.ErrInvalidRange, "clip", fmt.Sprintf("start %s must be before end %s", seconds(start), seconds(end)), nil)
	}
	args := []string{
		"-hide_banner", "-loglevel", "error", "-n",
		"-i", src,
		"-ss", seconds(start),
		"-to", seconds(end),
		"-c:v", "libx264",
	}
	if stripAudio {
		args = append(args, "-an")
	} else {
		args = append(args, "-c:a", "aac")
	}
	args = append(args, dst)
	if _, err := e.run(ctx, args); err != nil {
		return fmt.Errorf("clip: %w", err)
	}
	e.logger.Info("clip written",
		logging.String("source", src),
		logging.String("output", dst),
		logging.Float64("start_seconds", start),
		logging.Float64("end_seconds", end),
		logging.Bool("audio", !stripAudio),
	)
	return nil
}

// Splice concatenates the given intervals of src into dst.
func (e *Editor) Splice(ctx context.Context, src, dst string, intervals []silence.Interval, withAudio bool) error {
	if len(intervals) == 0 {
		return faults.Wrap(faults.ErrValidation, "splice", "no intervals to keep", nil)
	}
	filter, maps := SpliceFilter(intervals, withAudio)
	args := []string{
		"-hide_banner", "-loglevel", "error", "-n",
		"-i", src,
		"-filter_complex", filter,
	}
	for _, m := range maps {
		args = append(args, "-map", m)
	}
	args = append(args, "-c:v", "libx264")
	if withAudio {
		args = append(args, "-c:a", "aac")
	} else {
		args = append(args, "-an")
	}
	args = append(args, dst)
	if _, err := e.run(ctx, args); err != nil {
		return fmt.Errorf("splice: %w", err)
	}
	e.logger.Info("splice written",
		logging.String("source", src),
		logging.String("output", dst),
		logging.Int("segments", len(intervals)),
		logging.Float64("kept_seconds", silence.TotalDuration(intervals)),
	)
	return nil
}

// SpliceFilter builds the trim/concat filter graph for intervals and returns
// it with the output labels to map.
func SpliceFilter(intervals []silence.Interval, withAudio bool) (string, []string) {
	var b strings.Builder
	var inputs strings.Builder
	for i, iv := range intervals {
		fmt.Fprintf(&b, "[0:v]trim=start=%s:end=%s,setpts=PTS-STARTPTS[v%d];", seconds(iv.Start), seconds(iv.End), i)
		fmt.Fprintf(&inputs, "[v%d]", i)
		if withAudio {
			fmt.Fprintf(&b, "[0:a]atrim=start=%s:end=%s,asetpts=PTS-STARTPTS[a%d];", seconds(iv.Start), seconds(iv.End), i)
			fmt.Fprintf(&inputs, "[a%d]", i)
		}
	}
	if withAudio {
		fmt.Fprintf(&b, "%sconcat=n=%d:v=1:a=1[outv][outa]", inputs.String(), len(intervals))
		return b.String(), []string{"[outv]", "[outa]"}
	}
	fmt.Fprintf(&b, "%sconcat=n=%d:v=1:a=0[outv]", inputs.String(), len(intervals))
	return b.String(), []string{"[outv]"}
}

// ChangeSpeed writes src to dst played back factor times faster.
func (e *Editor) ChangeSpeed(ctx context.Context, src, dst string, factor float64, withAudio bool) error {
	chain, err := AtempoChain(factor)
	if err != nil {
		return err
	}
	args := []string{
		"-hide_banner", "-loglevel", "error", "-n",
		"-i", src,
		"-filter:v", "setpts=PTS/" + seconds(factor),
	}
	if withAudio {
		args = append(args, "-filter:a", chain, "-c:a", "aac")
	} else {
		args = append(args, "-an")
	}
	args = append(args, "-c:v", "libx264", dst)
	if _, err := e.run(ctx, args); err != nil {
		return fmt.Errorf("change speed: %w", err)
	}
	e.logger.Info("speed changed",
		logging.String("source", src),
		logging.String("output", dst),
		logging.Float64("factor", factor),
	)
	return nil
}

// AtempoChain expresses factor as a chain of atempo filters, each within the
// 0.5 to 2.0 range the filter accepts.
func AtempoChain(factor float64) (string, error) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return "", faults.Wrap(faults.ErrValidation, "speed factor", fmt.Sprintf("must be positive, got %v", factor), nil)
	}
	var steps []string
	for factor > 2.0 {
		steps = append(steps, "atempo=2.0")
		factor /= 2.0
	}
	for factor < 0.5 {
		steps = append(steps, "atempo=0.5")
		factor /= 0.5
	}
	steps = append(steps, "atempo="+strconv.FormatFloat(factor, 'f', -1, 64))
	return strings.Join(steps, ","), nil
}

func (e *Editor) run(ctx context.Context, args []string) ([]byte, error) {
	e.logger.Debug("running ffmpeg", logging.String("args", strings.Join(args, " ")))
	return e.runner.Run(ctx, e.ffmpeg, args...)
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
