package config

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"autocontent/internal/faults"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directories every command reads from or writes to.
// HomeDir bounds all generated output.
type Paths struct {
	HomeDir    string `toml:"home_dir" validate:"required"`
	SubsDir    string `toml:"subs_dir" validate:"required"`
	SourcesDir string `toml:"sources_dir" validate:"required"`
	CacheDir   string `toml:"cache_dir" validate:"required"`
	LogDir     string `toml:"log_dir" validate:"required"`
}

// Transcript contains caption retrieval and cleanup settings.
type Transcript struct {
	Languages     []string `toml:"languages" validate:"min=1,dive,required"`
	ArtifactChars string   `toml:"artifact_chars"`
	Sanitize      bool     `toml:"sanitize"`
	CacheEnabled  bool     `toml:"cache_enabled"`
}

// Silence contains the speaking-interval detector parameters.
type Silence struct {
	WindowSeconds   float64 `toml:"window_seconds" validate:"gt=0"`
	VolumeThreshold float64 `toml:"volume_threshold" validate:"gte=0,lte=1"`
	EaseInSeconds   float64 `toml:"ease_in_seconds" validate:"gte=0"`
	SampleRate      int     `toml:"sample_rate" validate:"gte=1000,lte=192000"`
	KeepTail        bool    `toml:"keep_tail"`
}

// Download contains video importer settings.
type Download struct {
	Importer        string   `toml:"importer" validate:"oneof=yt-dlp youtube-dl http"`
	Resolutions     []string `toml:"resolutions" validate:"min=1,dive,required"`
	Extensions      []string `toml:"extensions" validate:"min=1,dive,required"`
	AudioCodec      string   `toml:"audio_codec"`
	YtDlpBinary     string   `toml:"ytdlp_binary" validate:"required"`
	YoutubeDLBinary string   `toml:"youtubedl_binary" validate:"required"`
	TimeoutSeconds  int      `toml:"timeout_seconds" validate:"gte=0"`
}

// Media contains ffmpeg tooling settings.
type Media struct {
	FFmpegBinary  string   `toml:"ffmpeg_binary" validate:"required"`
	FFprobeBinary string   `toml:"ffprobe_binary" validate:"required"`
	VideoFormats  []string `toml:"video_formats" validate:"min=1,dive,required"`
}

// LLM contains the chat completion connection used for title suggestions.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url" validate:"required,url"`
	Model          string `toml:"model" validate:"required"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gt=0"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format" validate:"oneof=console json"`
	Level         string `toml:"level" validate:"oneof=debug info warn error"`
	RetentionDays int    `toml:"retention_days" validate:"gte=0"`
}

// Config encapsulates all configuration values for autocontent.
//
// Configuration sections by subsystem:
//   - Paths: home root and the subtitle, source, cache and log directories
//   - Transcript: caption languages and cleanup
//   - Silence: detector window, threshold and padding
//   - Download: importer strategy and format negotiation
//   - Media: ffmpeg and ffprobe binaries
//   - LLM: title suggestion backend
//   - Logging: log format, level, and retention
type Config struct {
	Paths      Paths      `toml:"paths"`
	Transcript Transcript `toml:"transcript"`
	Silence    Silence    `toml:"silence"`
	Download   Download   `toml:"download"`
	Media      Media      `toml:"media"`
	LLM        LLM        `toml:"llm"`
	Logging    Logging    `toml:"logging"`
}

// Load reads the configuration at path, or the first of the user config
// and ./autocontent.toml when path is empty. A missing file leaves the
// defaults in place. Environment overrides apply after the file, then paths
// are expanded and every value validated. Load also reports which file it
// settled on and whether that file exists.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := locate(path)
	if err != nil {
		return nil, "", false, faults.Wrap(faults.ErrConfiguration, "locate config", path, err)
	}

	cfg := Default()
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	for _, step := range []func() error{
		func() error { return cfg.applyEnv(context.Background()) },
		cfg.normalize,
		cfg.Validate,
	} {
		if err := step(); err != nil {
			return nil, "", false, err
		}
	}
	return &cfg, resolved, exists, nil
}

// decodeFile rejects keys the Config struct does not declare so typos such
// as "windows_seconds" surface instead of silently keeping a default.
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return faults.Wrap(faults.ErrConfiguration, "read config", path, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return faults.Wrap(faults.ErrConfiguration, "parse config", path+": unknown keys\n"+strict.String(), nil)
		}
		return faults.Wrap(faults.ErrConfiguration, "parse config", path, err)
	}
	return nil
}

// EnsureDirectories creates the directories commands write into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.SubsDir, c.Paths.SourcesDir, c.Paths.CacheDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CacheDBPath returns the sqlite transcript cache location.
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.Paths.CacheDir, "transcripts.db")
}

// CreateSample writes the commented sample configuration to path, creating
// parent directories.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// LLMConfig contains the LLM connection settings.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// GetLLM returns the LLM connection settings.
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.LLM.APIKey),
		BaseURL:        strings.TrimSpace(c.LLM.BaseURL),
		Model:          strings.TrimSpace(c.LLM.Model),
		Referer:        strings.TrimSpace(c.LLM.Referer),
		Title:          strings.TrimSpace(c.LLM.Title),
		TimeoutSeconds: c.LLM.TimeoutSeconds,
	}
}
