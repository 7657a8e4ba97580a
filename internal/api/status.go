package api

import (
	"context"
	"os"

	"autocontent/internal/cache"
	"autocontent/internal/logging"
	"autocontent/internal/preflight"
)

// CollectStatus gathers binary availability, directory access, LLM
// reachability and cache size. Problems show up as failed checks in the
// report rather than as an error.
func CollectStatus(ctx context.Context, rt Runtime) (StatusReport, error) {
	if err := rt.check(); err != nil {
		return StatusReport{}, err
	}
	cfg := rt.Config
	report := StatusReport{
		HomeDir:  cfg.Paths.HomeDir,
		Importer: cfg.Download.Importer,
	}

	for _, s := range preflight.CheckSystemDeps(ctx, cfg, rt.runner()) {
		report.Dependencies = append(report.Dependencies, DependencyStatus{
			Name:        s.Name,
			Command:     s.Command,
			Description: s.Description,
			Optional:    s.Optional,
			Available:   s.Available,
			Path:        s.Path,
			Version:     s.Version,
			Detail:      s.Detail,
		})
	}
	for _, r := range preflight.RunAll(ctx, cfg) {
		report.Checks = append(report.Checks, CheckStatus{Name: r.Name, Passed: r.Passed, Skipped: r.Skipped, Detail: r.Detail})
	}

	if cfg.Transcript.CacheEnabled {
		report.CachePath = cfg.CacheDBPath()
		if _, err := os.Stat(report.CachePath); err == nil {
			report.CacheEntries = countCache(ctx, rt, report.CachePath)
		}
	}
	return report, nil
}

func countCache(ctx context.Context, rt Runtime, path string) int {
	store, err := cache.OpenPath(path)
	if err != nil {
		logging.WarnWithContext(rt.logger("status"), "transcript cache unreadable", "cache_open_failed",
			logging.String("path", path),
			logging.Error(err),
		)
		return 0
	}
	defer func() { _ = store.Close() }()
	entries, err := store.List(ctx)
	if err != nil {
		return 0
	}
	return len(entries)
}
