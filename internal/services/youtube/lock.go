package youtube

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"autocontent/internal/faults"
)

const lockRetryDelay = 250 * time.Millisecond

// Locked serializes downloads of the same video across processes with a lock
// file in a shared directory.
type Locked struct {
	Importer
	dir string
}

// WithLock wraps imp so concurrent downloads of one video id wait for each
// other. Lock files live in dir as .<id>.lock.
func WithLock(imp Importer, dir string) *Locked {
	return &Locked{Importer: imp, dir: dir}
}

// Download implements Importer.
func (l *Locked) Download(ctx context.Context, req Request) (string, error) {
	unlock, err := l.acquire(ctx, req.VideoID)
	if err != nil {
		return "", err
	}
	defer unlock()
	return l.Importer.Download(ctx, req)
}

// DownloadAudio implements Importer.
func (l *Locked) DownloadAudio(ctx context.Context, req Request) (string, error) {
	unlock, err := l.acquire(ctx, req.VideoID)
	if err != nil {
		return "", err
	}
	defer unlock()
	return l.Importer.DownloadAudio(ctx, req)
}

func (l *Locked) acquire(ctx context.Context, videoID string) (func(), error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(filepath.Join(l.dir, "."+videoID+".lock"))
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire download lock: %w", err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrExternalTool, "acquire download lock", fmt.Sprintf("%s is locked by another download", videoID), nil)
	}
	return func() { _ = lock.Unlock() }, nil
}
