package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"autocontent/internal/faults"
	"autocontent/internal/toolexec"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Duration   string `json:"duration"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
	FrameRate  string `json:"avg_frame_rate"`
}

// Format captures container-level metadata.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// Inspect runs ffprobe against path and decodes the JSON response.
func Inspect(ctx context.Context, runner toolexec.Runner, binary, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, faults.Wrap(faults.ErrValidation, "ffprobe inspect", "empty path", nil)
	}

	output, err := runner.Run(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	return Parse(output)
}

// Parse decodes raw ffprobe JSON.
func Parse(output []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, faults.Wrap(faults.ErrExternalTool, "ffprobe parse", "decode json", err)
	}
	return result, nil
}

func (r Result) count(kind string) int {
	n := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, kind) {
			n++
		}
	}
	return n
}

// VideoStreamCount returns the number of video streams.
func (r Result) VideoStreamCount() int {
	return r.count("video")
}

// AudioStreamCount returns the number of audio streams.
func (r Result) AudioStreamCount() int {
	return r.count("audio")
}

// HasAudio reports whether any audio stream exists.
func (r Result) HasAudio() bool {
	return r.AudioStreamCount() > 0
}

// DurationSeconds returns the container duration, falling back to the longest
// stream. It returns 0 when nothing parses.
func (r Result) DurationSeconds() float64 {
	if d := parseFloat(r.Format.Duration); d > 0 {
		return d
	}
	var longest float64
	for _, s := range r.Streams {
		longest = max(longest, parseFloat(s.Duration))
	}
	return longest
}

// Resolution returns the first video stream's frame size as WxH.
func (r Result) Resolution() string {
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, "video") && s.Width > 0 && s.Height > 0 {
			return fmt.Sprintf("%dx%d", s.Width, s.Height)
		}
	}
	return ""
}

func parseFloat(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0
	}
	return parsed
}
