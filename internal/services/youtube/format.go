package youtube

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"autocontent/internal/faults"
)

// Metadata is the subset of yt-dlp's --dump-single-json output used here.
type Metadata struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Duration float64  `json:"duration"`
	Formats  []Format `json:"formats"`
}

// Format describes one downloadable stream.
type Format struct {
	FormatID      string   `json:"format_id"`
	Ext           string   `json:"ext"`
	Resolution    string   `json:"resolution"`
	AudioCodec    string   `json:"acodec"`
	VideoCodec    string   `json:"vcodec"`
	AudioChannels *float64 `json:"audio_channels"`
	AudioBitrate  float64  `json:"abr"`
	URL           string   `json:"url"`
}

// HasAudio reports whether the format carries at least one audio channel.
func (f Format) HasAudio() bool {
	if f.AudioChannels != nil {
		return *f.AudioChannels > 0
	}
	return f.AudioCodec != "" && f.AudioCodec != "none"
}

// AudioOnly reports whether the format has audio and no video.
func (f Format) AudioOnly() bool {
	return f.HasAudio() && (f.VideoCodec == "" || f.VideoCodec == "none")
}

// Policy constrains which muxed formats are acceptable.
type Policy struct {
	Resolutions []string
	Extensions  []string
	AudioCodec  string
}

// DefaultPolicy selects small muxed mp4/webm streams with AAC audio.
func DefaultPolicy() Policy {
	return Policy{
		Resolutions: []string{"640x360", "426x240"},
		Extensions:  []string{"mp4", "webm"},
		AudioCodec:  "mp4a.40.2",
	}
}

// ParseMetadata decodes yt-dlp JSON metadata.
func ParseMetadata(data []byte) (Metadata, error) {
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, faults.Wrap(faults.ErrExternalTool, "parse metadata", "decode yt-dlp json", err)
	}
	return meta, nil
}

// PickFormat returns the matching format with the highest numeric id. Only
// formats with audio, an allowed resolution, extension and audio codec and a
// purely numeric id are considered.
func PickFormat(formats []Format, policy Policy) (Format, error) {
	best := -1
	var chosen Format
	for _, f := range formats {
		if !f.HasAudio() ||
			!slices.Contains(policy.Resolutions, f.Resolution) ||
			!slices.Contains(policy.Extensions, f.Ext) ||
			(policy.AudioCodec != "" && f.AudioCodec != policy.AudioCodec) {
			continue
		}
		id, ok := numericID(f.FormatID)
		if !ok {
			continue
		}
		if id > best {
			best = id
			chosen = f
		}
	}
	if best < 0 {
		return Format{}, faults.Wrap(faults.ErrNotFound, "pick format", fmt.Sprintf("no format matches resolutions %v and extensions %v", policy.Resolutions, policy.Extensions), nil)
	}
	return chosen, nil
}

// PickAudioFormat returns the audio-only format with the highest bitrate,
// preferring m4a on ties.
func PickAudioFormat(formats []Format) (Format, error) {
	var chosen Format
	found := false
	for _, f := range formats {
		if !f.AudioOnly() {
			continue
		}
		if !found || f.AudioBitrate > chosen.AudioBitrate || (f.AudioBitrate == chosen.AudioBitrate && f.Ext == "m4a" && chosen.Ext != "m4a") {
			chosen = f
			found = true
		}
	}
	if !found {
		return Format{}, faults.Wrap(faults.ErrNotFound, "pick audio format", "no audio-only format available", nil)
	}
	return chosen, nil
}

func numericID(id string) (int, bool) {
	if id == "" {
		return 0, false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(id)
	return n, err == nil
}
