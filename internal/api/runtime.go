package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"autocontent/internal/cache"
	"autocontent/internal/config"
	"autocontent/internal/faults"
	"autocontent/internal/logging"
	"autocontent/internal/media"
	"autocontent/internal/pathguard"
	"autocontent/internal/services/llm"
	"autocontent/internal/services/youtube"
	"autocontent/internal/silence"
	"autocontent/internal/textanalysis"
	"autocontent/internal/toolexec"
	"autocontent/internal/transcript"
)

// Runtime carries the collaborators shared by all workflows.
type Runtime struct {
	Config *config.Config
	Logger *slog.Logger

	// Runner executes ffmpeg, ffprobe and the downloaders; nil uses os/exec.
	Runner toolexec.Runner
	// Fetcher retrieves transcripts for pull; nil uses yt-dlp captions,
	// wrapped by the sqlite cache when transcript.cache_enabled is set.
	Fetcher transcript.Fetcher
	// Completer answers title prompts; nil builds an LLM client from config.
	Completer textanalysis.Completer
	// HTTPClient is used by the http importer.
	HTTPClient *http.Client
}

func (rt Runtime) check() error {
	if rt.Config == nil {
		return faults.Wrap(faults.ErrConfiguration, "workflow", "configuration is required", nil)
	}
	return nil
}

func (rt Runtime) logger(component string) *slog.Logger {
	return logging.NewComponentLogger(rt.Logger, component)
}

func (rt Runtime) runner() toolexec.Runner {
	if rt.Runner != nil {
		return rt.Runner
	}
	return toolexec.CommandRunner{}
}

func (rt Runtime) guard() (*pathguard.Guard, error) {
	return pathguard.New(rt.Config.Paths.HomeDir)
}

func (rt Runtime) editor() *media.Editor {
	return media.NewEditor(media.Options{
		FFmpegBinary:  rt.Config.Media.FFmpegBinary,
		FFprobeBinary: rt.Config.Media.FFprobeBinary,
		Runner:        rt.runner(),
		Logger:        rt.Logger,
	})
}

// fetcher returns the transcript fetcher for pull together with a release
// func that closes the cache store if one was opened.
func (rt Runtime) fetcher() (transcript.Fetcher, func()) {
	if rt.Fetcher != nil {
		return rt.Fetcher, func() {}
	}
	upstream := &youtube.TranscriptFetcher{
		Runner:    rt.runner(),
		Binary:    rt.Config.Download.YtDlpBinary,
		Languages: rt.Config.Transcript.Languages,
		Logger:    rt.Logger,
	}
	if !rt.Config.Transcript.CacheEnabled {
		return upstream, func() {}
	}
	logger := rt.logger("cache")
	store, err := cache.Open(rt.Config)
	if err != nil {
		logging.WarnWithContext(logger, "transcript cache unavailable", "cache_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "transcripts are fetched without caching"),
		)
		return upstream, func() {}
	}
	caching := &cache.CachingFetcher{
		Store:    store,
		Upstream: upstream,
		Language: rt.Config.Transcript.Languages[0],
		Logger:   logger,
	}
	return caching, func() { _ = store.Close() }
}

func (rt Runtime) importer(name string) (youtube.Importer, error) {
	if name == "" {
		name = rt.Config.Download.Importer
	}
	httpClient := rt.HTTPClient
	if httpClient == nil && rt.Config.Download.TimeoutSeconds > 0 {
		httpClient = &http.Client{Timeout: time.Duration(rt.Config.Download.TimeoutSeconds) * time.Second}
	}
	imp, err := youtube.Select(name, youtube.Deps{
		Runner:          rt.runner(),
		YtDlpBinary:     rt.Config.Download.YtDlpBinary,
		YoutubeDLBinary: rt.Config.Download.YoutubeDLBinary,
		HTTPClient:      httpClient,
		Policy: youtube.Policy{
			Resolutions: rt.Config.Download.Resolutions,
			Extensions:  rt.Config.Download.Extensions,
			AudioCodec:  rt.Config.Download.AudioCodec,
		},
		Logger: rt.Logger,
	})
	if err != nil {
		return nil, err
	}
	return youtube.WithLock(imp, rt.Config.Paths.SourcesDir), nil
}

func (rt Runtime) completer() (textanalysis.Completer, error) {
	if rt.Completer != nil {
		return rt.Completer, nil
	}
	llmCfg := rt.Config.GetLLM()
	if llmCfg.APIKey == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "suggest titles", "llm.api_key is not set (or export OPENROUTER_API_KEY)", nil)
	}
	return llm.NewClient(llm.Config{
		APIKey:         llmCfg.APIKey,
		BaseURL:        llmCfg.BaseURL,
		Model:          llmCfg.Model,
		Referer:        llmCfg.Referer,
		Title:          llmCfg.Title,
		TimeoutSeconds: llmCfg.TimeoutSeconds,
	}, llm.WithLogger(rt.Logger)), nil
}

// transcriptOptions applies the transcript section of the config.
func (rt Runtime) transcriptOptions(extra ...transcript.Option) []transcript.Option {
	opts := []transcript.Option{transcript.WithArtifacts(rt.Config.Transcript.ArtifactChars)}
	if !rt.Config.Transcript.Sanitize {
		opts = append(opts, transcript.WithoutSanitize())
	}
	return append(opts, extra...)
}

// DetectorFromConfig returns the silence detector described by the silence
// section of cfg.
func DetectorFromConfig(cfg *config.Config) silence.Detector {
	if cfg == nil {
		return silence.DefaultDetector()
	}
	return silence.Detector{
		WindowSize:      cfg.Silence.WindowSeconds,
		VolumeThreshold: cfg.Silence.VolumeThreshold,
		EaseIn:          cfg.Silence.EaseInSeconds,
		CloseTrailing:   cfg.Silence.KeepTail,
	}
}

// LoadTranscript reads a JSON transcript applying the transcript section of
// the config.
func LoadTranscript(ctx context.Context, rt Runtime, source string) (*transcript.Transcript, error) {
	if err := rt.check(); err != nil {
		return nil, err
	}
	t, err := transcript.New(ctx, transcript.Source{Path: source}, rt.transcriptOptions()...)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	return t, nil
}
