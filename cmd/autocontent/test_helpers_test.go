package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autocontent/internal/api"
	"autocontent/internal/config"
	"autocontent/internal/testsupport"
	"autocontent/internal/transcript"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	fetcher    *staticFetcher
}

type staticFetcher struct {
	records []transcript.Record
	calls   []string
}

func (f *staticFetcher) FetchTranscript(_ context.Context, videoID string) ([]transcript.Record, error) {
	f.calls = append(f.calls, videoID)
	return f.records, nil
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	t.Setenv("HOME", testsupport.BaseDir(cfg))
	for _, key := range []string{
		"AUTOCONTENT_HOME",
		"AUTOCONTENT_LOG_LEVEL",
		"AUTOCONTENT_LOG_FORMAT",
		"AUTOCONTENT_IMPORTER",
		"AUTOCONTENT_LLM_API_KEY",
		"OPENROUTER_API_KEY",
		"OPENAI_API_KEY",
	} {
		t.Setenv(key, "")
	}

	configPath := filepath.Join(testsupport.BaseDir(cfg), ".config", "autocontent", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		fetcher:    &staticFetcher{records: testsupport.Records()},
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nhome_dir = %q\nsubs_dir = %q\nsources_dir = %q\ncache_dir = %q\nlog_dir = %q\n\n[transcript]\ncache_enabled = false\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.HomeDir,
		cfg.Paths.SubsDir,
		cfg.Paths.SourcesDir,
		cfg.Paths.CacheDir,
		cfg.Paths.LogDir,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	ctx := newCommandContext()
	ctx.overrideRuntime = func(rt *api.Runtime) {
		rt.Fetcher = env.fetcher
	}
	cmd := buildRootCommand(ctx)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (env *cliTestEnv) writeTranscript(t *testing.T, name string) string {
	t.Helper()
	return testsupport.WriteTranscript(t, filepath.Join(env.cfg.Paths.SubsDir, name), testsupport.Records())
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
