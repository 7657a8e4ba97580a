package pathguard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"autocontent/internal/faults"
)

// Staged is an output built next to its destination and moved into place
// only once it is complete. Until Commit an existing file at the
// destination is left untouched.
type Staged struct {
	final   Target
	scratch Target
	force   bool
}

// Stage checks req with the same rules as Resolve but never deletes an
// existing file. The scratch file sits in the destination directory and
// keeps the destination suffix so tools that infer a container from the
// extension still work.
func (g *Guard) Stage(req Request) (*Staged, error) {
	path, _, err := g.plan(req)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	ext := filepath.Ext(path)
	name := fmt.Sprintf(".%s.partial-%s%s", strings.TrimSuffix(filepath.Base(path), ext), uuid.NewString()[:8], ext)
	return &Staged{
		final:   newTarget(path),
		scratch: newTarget(filepath.Join(dir, name)),
		force:   req.Force,
	}, nil
}

// Target returns the destination.
func (s *Staged) Target() Target {
	return s.final
}

// Scratch returns the temporary target the output is written to.
func (s *Staged) Scratch() Target {
	return s.scratch
}

// Commit renames the scratch file over the destination. Without Force a
// file that appeared at the destination in the meantime is kept and the
// scratch file is removed.
func (s *Staged) Commit() (Target, error) {
	if !s.force {
		if _, err := os.Lstat(s.final.path); err == nil {
			s.Abort()
			return Target{}, faults.Wrap(faults.ErrFileExists, "commit output", s.final.path, nil)
		}
	}
	if err := os.Rename(s.scratch.path, s.final.path); err != nil {
		s.Abort()
		return Target{}, fmt.Errorf("commit output %s: %w", s.final.path, err)
	}
	return s.final, nil
}

// Abort removes the scratch file. The destination is not touched.
func (s *Staged) Abort() {
	_ = os.Remove(s.scratch.path)
}
