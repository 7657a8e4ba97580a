package pathguard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"autocontent/internal/faults"
)

// Guard confines outputs to a home directory.
type Guard struct {
	home string
}

// New builds a Guard rooted at home. home must be an absolute or
// absolutizable path.
func New(home string) (*Guard, error) {
	home = strings.TrimSpace(home)
	if home == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "path guard", "home directory is required", nil)
	}
	abs, err := filepath.Abs(home)
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "path guard", "resolve home directory", err)
	}
	return &Guard{home: filepath.Clean(abs)}, nil
}

// Home returns the containment root.
func (g *Guard) Home() string {
	return g.home
}

// Request describes an output the caller wants to write.
type Request struct {
	// Candidate is the user-supplied path; blank selects DefaultDir.
	Candidate string
	// DefaultDir is used when Candidate is blank.
	DefaultDir string
	// Stem is the file name without suffix used for directory candidates.
	Stem string
	// Format is the suffix appended when the path has none.
	Format string
	// Force deletes an existing file instead of failing.
	Force bool
}

// Target is a resolved output path. Only Resolve constructs one.
type Target struct {
	path   string
	format string
}

// Path returns the absolute output path.
func (t Target) Path() string {
	return t.path
}

// Format returns the final suffix of the path without the dot.
func (t Target) Format() string {
	return t.format
}

func (t Target) String() string {
	return t.path
}

// Resolve turns req into a Target. With Force set an existing file is deleted
// before Resolve returns, and missing parent directories are always created,
// so resolution has side effects.
func (g *Guard) Resolve(req Request) (Target, error) {
	path, exists, err := g.plan(req)
	if err != nil {
		return Target{}, err
	}
	if exists {
		if err := os.Remove(path); err != nil {
			return Target{}, fmt.Errorf("remove existing output: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Target{}, fmt.Errorf("create output directory: %w", err)
	}
	return newTarget(path), nil
}

// plan applies every Resolve rule except deletion. exists is true only when
// req.Force allows replacing a file already at path.
func (g *Guard) plan(req Request) (path string, exists bool, err error) {
	candidate := strings.TrimSpace(req.Candidate)
	stem := strings.TrimSpace(req.Stem)
	format := strings.TrimPrefix(strings.TrimSpace(req.Format), ".")
	defaultName := stem
	if format != "" {
		defaultName = stem + "." + format
	}

	dirLike := false
	if candidate == "" {
		candidate = strings.TrimSpace(req.DefaultDir)
		if candidate == "" {
			candidate = g.home
		}
		dirLike = true
	} else if strings.HasSuffix(candidate, string(filepath.Separator)) || strings.HasSuffix(candidate, "/") {
		dirLike = true
	}

	path, err = g.absolute(candidate)
	if err != nil {
		return "", false, err
	}
	if !dirLike {
		if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			dirLike = true
		}
	}
	if dirLike {
		if stem == "" {
			return "", false, faults.Wrap(faults.ErrInvalidFilePath, "resolve output", fmt.Sprintf("%s is a directory and no file name was derived", path), nil)
		}
		path = filepath.Join(path, defaultName)
	} else if filepath.Ext(path) == "" && format != "" {
		path += "." + format
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.TrimSpace(base) == "" || base == "." {
		return "", false, faults.Wrap(faults.ErrInvalidFilePath, "resolve output", fmt.Sprintf("%s has an empty file name", path), nil)
	}
	if !g.Contains(path) {
		return "", false, faults.Wrap(faults.ErrInvalidFilePath, "resolve output", fmt.Sprintf("%s is outside %s", path, g.home), nil)
	}

	info, err := os.Lstat(path)
	switch {
	case err == nil && info.IsDir():
		return "", false, faults.Wrap(faults.ErrInvalidFilePath, "resolve output", fmt.Sprintf("%s is a directory", path), nil)
	case err == nil && !req.Force:
		return "", false, faults.Wrap(faults.ErrFileExists, "resolve output", fmt.Sprintf("%s already exists (use --force to overwrite)", path), nil)
	case err == nil:
		return path, true, nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", false, fmt.Errorf("stat output: %w", err)
	}
	return path, false, nil
}

func newTarget(path string) Target {
	return Target{path: path, format: strings.TrimPrefix(filepath.Ext(path), ".")}
}

// Contains reports whether path lies inside the home directory. The home
// directory itself counts as inside.
func (g *Guard) Contains(path string) bool {
	rel, err := filepath.Rel(g.home, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel))
}

func (g *Guard) absolute(path string) (string, error) {
	switch {
	case path == "~":
		path = g.home
	case strings.HasPrefix(path, "~/"):
		path = filepath.Join(g.home, path[2:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", faults.Wrap(faults.ErrInvalidFilePath, "resolve output", path, err)
	}
	return abs, nil
}
