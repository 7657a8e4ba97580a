package config

import (
	"fmt"
	"strings"

	"autocontent/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscript()
	c.normalizeDownload()
	c.normalizeMedia()
	c.normalizeLLM()
	c.normalizeLogging()
	return nil
}

// normalizePaths expands home_dir against the user's home, then every other
// directory against home_dir so a relocated home carries its defaults along.
func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.HomeDir) == "" {
		c.Paths.HomeDir = defaultHomeDir
	}
	if c.Paths.HomeDir, err = expandPath(strings.TrimSpace(c.Paths.HomeDir)); err != nil {
		return fmt.Errorf("paths.home_dir: %w", err)
	}
	home := c.Paths.HomeDir
	for _, field := range []struct {
		name  string
		value *string
		def   string
	}{
		{"paths.subs_dir", &c.Paths.SubsDir, defaultSubsDir},
		{"paths.sources_dir", &c.Paths.SourcesDir, defaultSourcesDir},
		{"paths.cache_dir", &c.Paths.CacheDir, defaultCacheDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
	} {
		raw := strings.TrimSpace(*field.value)
		if raw == "" {
			raw = field.def
		}
		if *field.value, err = expandAgainst(raw, home); err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
	}
	return nil
}

func (c *Config) normalizeTranscript() {
	langs := language.NormalizeList(c.Transcript.Languages)
	if len(langs) == 0 {
		langs = []string{defaultLanguage}
	}
	c.Transcript.Languages = langs
}

func (c *Config) normalizeDownload() {
	c.Download.Importer = strings.ToLower(strings.TrimSpace(c.Download.Importer))
	if c.Download.Importer == "" {
		c.Download.Importer = defaultImporter
	}
	c.Download.AudioCodec = strings.TrimSpace(c.Download.AudioCodec)
	c.Download.Resolutions = trimList(c.Download.Resolutions)
	c.Download.Extensions = lowerList(c.Download.Extensions)
	if strings.TrimSpace(c.Download.YtDlpBinary) == "" {
		c.Download.YtDlpBinary = defaultYtDlpBinary
	}
	if strings.TrimSpace(c.Download.YoutubeDLBinary) == "" {
		c.Download.YoutubeDLBinary = defaultYoutubeDLBinary
	}
}

func (c *Config) normalizeMedia() {
	if strings.TrimSpace(c.Media.FFmpegBinary) == "" {
		c.Media.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Media.FFprobeBinary) == "" {
		c.Media.FFprobeBinary = defaultFFprobeBinary
	}
	c.Media.VideoFormats = lowerList(c.Media.VideoFormats)
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	if c.LLM.Referer == "" {
		c.LLM.Referer = defaultLLMReferer
	}
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.Title == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch c.Logging.Level {
	case "":
		c.Logging.Level = defaultLogLevel
	case "warning":
		c.Logging.Level = "warn"
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func lowerList(values []string) []string {
	out := trimList(values)
	for i := range out {
		out[i] = strings.TrimPrefix(strings.ToLower(out[i]), ".")
	}
	return out
}
