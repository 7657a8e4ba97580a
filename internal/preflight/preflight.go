package preflight

import (
	"context"

	"autocontent/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name    string
	Passed  bool
	Skipped bool
	Detail  string
}

// RunAll executes all applicable preflight checks for the given config.
// The LLM check is skipped when no API key is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Home directory", cfg.Paths.HomeDir),
		CheckDirectoryAccess("Subtitles directory", cfg.Paths.SubsDir),
		CheckDirectoryAccess("Sources directory", cfg.Paths.SourcesDir),
	}
	if cfg.Transcript.CacheEnabled {
		results = append(results, CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir))
	}
	results = append(results, CheckLLM(ctx, "Title LLM", cfg.GetLLM()))
	return results
}

// Failed returns the checks that neither passed nor were skipped.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Skipped {
			failed = append(failed, r)
		}
	}
	return failed
}
