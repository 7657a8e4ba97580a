package api

import "autocontent/internal/silence"

// dateTimeFormat is used for RFC3339 timestamps in result payloads.
const dateTimeFormat = "2006-01-02T15:04:05Z07:00"

// TranscriptResult describes a transcript file written by pull, convert or
// chunk.
type TranscriptResult struct {
	Source  string `json:"source,omitempty"`
	VideoID string `json:"videoId,omitempty"`
	Path    string `json:"path"`
	Format  string `json:"format"`
	Records int    `json:"records"`
}

// VideoResult describes a media file written by a video workflow.
type VideoResult struct {
	Source   string `json:"source,omitempty"`
	VideoID  string `json:"videoId,omitempty"`
	Importer string `json:"importer,omitempty"`
	Path     string `json:"path"`
}

// CutSilenceResult reports the detected speaking intervals and, unless the
// run was a dry run, the spliced output.
type CutSilenceResult struct {
	Source        string             `json:"source"`
	Path          string             `json:"path,omitempty"`
	DryRun        bool               `json:"dryRun"`
	Intervals     []silence.Interval `json:"intervals"`
	SourceSeconds float64            `json:"sourceSeconds"`
	KeptSeconds   float64            `json:"keptSeconds"`
}

// TitlesResult carries suggested titles and, when requested, the pick.
type TitlesResult struct {
	Source string   `json:"source"`
	Titles []string `json:"titles"`
	Best   string   `json:"best,omitempty"`
}

// CacheEntry summarizes a cached transcript.
type CacheEntry struct {
	VideoID   string `json:"videoId"`
	Language  string `json:"language"`
	Records   int    `json:"records"`
	FetchedAt string `json:"fetchedAt"`
}

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Path        string `json:"path,omitempty"`
	Version     string `json:"version,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// CheckStatus mirrors a preflight check result.
type CheckStatus struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Skipped bool   `json:"skipped"`
	Detail  string `json:"detail,omitempty"`
}

// StatusReport aggregates dependency, directory and service readiness.
type StatusReport struct {
	HomeDir      string             `json:"homeDir"`
	Importer     string             `json:"importer"`
	CachePath    string             `json:"cachePath,omitempty"`
	CacheEntries int                `json:"cacheEntries"`
	Dependencies []DependencyStatus `json:"dependencies"`
	Checks       []CheckStatus      `json:"checks"`
}

// Healthy reports whether every required dependency is available and no
// check failed.
func (r StatusReport) Healthy() bool {
	for _, dep := range r.Dependencies {
		if !dep.Available && !dep.Optional {
			return false
		}
	}
	for _, check := range r.Checks {
		if !check.Passed && !check.Skipped {
			return false
		}
	}
	return true
}
