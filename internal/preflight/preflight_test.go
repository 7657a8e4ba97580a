package preflight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autocontent/internal/config"
	"autocontent/internal/services/youtube"
	"autocontent/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if r := CheckDirectoryAccess("dir", dir); !r.Passed {
		t.Fatalf("expected pass, got %+v", r)
	}

	missing := filepath.Join(dir, "missing")
	if r := CheckDirectoryAccess("dir", missing); r.Passed || !strings.Contains(r.Detail, "does not exist") {
		t.Fatalf("expected missing failure, got %+v", r)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckDirectoryAccess("dir", file); r.Passed || !strings.Contains(r.Detail, "not a directory") {
		t.Fatalf("expected not-a-directory failure, got %+v", r)
	}
}

func TestCheckLLM(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": `{"ok":true}`}}},
		})
	}))
	defer server.Close()

	r := CheckLLM(context.Background(), "LLM", config.LLMConfig{APIKey: "k", BaseURL: server.URL, Model: "m"})
	if !r.Passed {
		t.Fatalf("expected pass, got %+v", r)
	}

	r = CheckLLM(context.Background(), "LLM", config.LLMConfig{BaseURL: server.URL, Model: "m"})
	if r.Passed || !r.Skipped {
		t.Fatalf("missing key should be skipped, got %+v", r)
	}
}

func TestCheckLLMFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	r := CheckLLM(context.Background(), "LLM", config.LLMConfig{APIKey: "bad", BaseURL: server.URL, Model: "m"})
	if r.Passed || r.Skipped || r.Detail == "" {
		t.Fatalf("expected failure, got %+v", r)
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLLMKey(""))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d: %+v", len(results), results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
	if last := results[len(results)-1]; !last.Skipped {
		t.Fatalf("expected LLM check skipped, got %+v", last)
	}
}

func TestSystemRequirementsFollowImporter(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithImporter(youtube.ImporterYoutubeDL))
	reqs := SystemRequirements(cfg)
	optional := map[string]bool{}
	for _, r := range reqs {
		optional[r.Name] = r.Optional
	}
	if optional["FFmpeg"] || optional["FFprobe"] || optional["yt-dlp"] || optional["youtube-dl"] {
		t.Fatalf("expected every tool required: %+v", optional)
	}

	reqs = SystemRequirements(testsupport.NewConfig(t, testsupport.WithImporter(youtube.ImporterHTTP)))
	for _, r := range reqs {
		if want := r.Name == "youtube-dl"; r.Optional != want {
			t.Fatalf("%s optional = %v with the http importer", r.Name, r.Optional)
		}
	}
}
