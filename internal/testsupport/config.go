package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"autocontent/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp home per test. Paths are
// already absolute, as if Load had normalized them.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.HomeDir = base
	cfgVal.Paths.SubsDir = filepath.Join(base, "subs")
	cfgVal.Paths.SourcesDir = filepath.Join(base, "sources")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.LLM.APIKey = "test"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLLMKey sets the LLM API key on the test config.
func WithLLMKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.APIKey = key
	}
}

// WithImporter selects the video importer strategy.
func WithImporter(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Download.Importer = name
	}
}

// WithStubbedBinaries puts stub executables on PATH for the named tools
// (ffmpeg, ffprobe and yt-dlp when none are named). Each stub prints
// "<name> version stub" and exits 0.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "yt-dlp"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		for _, name := range names {
			script := fmt.Sprintf("#!/bin/sh\necho '%s version stub'\nexit 0\n", name)
			if err := os.WriteFile(filepath.Join(binDir, name), []byte(script), 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Paths.HomeDir
}
