package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"autocontent/internal/config"
	"autocontent/internal/deps"
	"autocontent/internal/services/llm"
	"autocontent/internal/services/youtube"
	"autocontent/internal/toolexec"
)

// CheckLLM verifies that the LLM API is reachable and the key is valid.
// It uses a 30-second timeout and a single attempt (no retries).
func CheckLLM(ctx context.Context, name string, cfg config.LLMConfig) Result {
	if cfg.APIKey == "" {
		return Result{Name: name, Skipped: true, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		Referer:        cfg.Referer,
		Title:          cfg.Title,
		TimeoutSeconds: cfg.TimeoutSeconds,
	}, llm.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// SystemRequirements lists the binaries the configured commands shell out to.
// yt-dlp is always required since captions and http importer metadata come
// from it. youtube-dl is required only when selected as the importer.
func SystemRequirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Media.FFmpegBinary,
			Description: "Required for clip, cut-silence and modify-speed",
			VersionArgs: []string{"-version"},
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Media.FFprobeBinary,
			Description: "Required for media inspection",
			VersionArgs: []string{"-version"},
		},
		{
			Name:        "yt-dlp",
			Command:     cfg.Download.YtDlpBinary,
			Description: "Caption retrieval, video metadata and the yt-dlp importer",
			VersionArgs: []string{"--version"},
		},
		{
			Name:        "youtube-dl",
			Command:     cfg.Download.YoutubeDLBinary,
			Description: "Legacy importer",
			Optional:    cfg.Download.Importer != youtube.ImporterYoutubeDL,
			VersionArgs: []string{"--version"},
		},
	}
}

// CheckSystemDeps evaluates all system-level dependencies for the given config.
// runner may be nil to skip version probes.
func CheckSystemDeps(ctx context.Context, cfg *config.Config, runner toolexec.Runner) []deps.Status {
	return deps.CheckBinaries(ctx, runner, SystemRequirements(cfg))
}

// summarizeLLMError produces a human-readable summary for LLM health check failures.
func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (LLM API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (LLM API unreachable)"
	}
	return err.Error()
}
