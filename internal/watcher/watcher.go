package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"autocontent/internal/logging"
)

const defaultSettle = 500 * time.Millisecond

// Handler processes one newly created file.
type Handler func(ctx context.Context, path string) error

// Options tunes which files are reported and how they are processed.
type Options struct {
	// Extensions lists accepted suffixes including the dot. Defaults to .json.
	Extensions []string
	// Settle is the pause between the create event and the handler call so
	// writers can finish. Defaults to 500ms.
	Settle time.Duration
	// MaxConcurrent bounds parallel handler calls. Defaults to 1.
	MaxConcurrent int
}

// Watcher reports files created in a single directory.
type Watcher struct {
	dir        string
	handler    Handler
	logger     *slog.Logger
	watcher    *fsnotify.Watcher
	extensions []string
	settle     time.Duration
	semaphore  chan struct{}
	wg         sync.WaitGroup
}

// New starts watching dir. Call Run to process events and Close to release
// the underlying watch.
func New(dir string, handler Handler, logger *slog.Logger, opts Options) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watcher: handler required")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	extensions := slices.Clone(opts.Extensions)
	if len(extensions) == 0 {
		extensions = []string{".json"}
	}
	for i := range extensions {
		extensions[i] = strings.ToLower(extensions[i])
	}
	settle := opts.Settle
	if settle <= 0 {
		settle = defaultSettle
	}
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Watcher{
		dir:        dir,
		handler:    handler,
		logger:     logging.NewComponentLogger(logger, "watcher"),
		watcher:    fsw,
		extensions: extensions,
		settle:     settle,
		semaphore:  make(chan struct{}, maxConcurrent),
	}, nil
}

// Run blocks until ctx is cancelled or the watch fails. In-flight handlers
// finish before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watching directory",
		logging.String("dir", w.dir),
		logging.String("extensions", strings.Join(w.extensions, ",")),
	)
	defer w.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.accepts(event.Name) {
				w.logger.Debug("ignoring file", logging.String("path", event.Name))
				continue
			}
			if err := w.dispatch(ctx, event.Name); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			logging.WarnWithContext(w.logger, "watch error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "events may have been missed"),
			)
		}
	}
}

func (w *Watcher) dispatch(ctx context.Context, path string) error {
	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()

		timer := time.NewTimer(w.settle)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		w.logger.Info("processing file", logging.String("path", path))
		if err := w.handler(ctx, path); err != nil {
			logging.ErrorWithContext(w.logger, "file processing failed", "watch_handler_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "fix the file and save it again"),
			)
		}
	}()
	return nil
}

func (w *Watcher) accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return slices.Contains(w.extensions, strings.ToLower(filepath.Ext(base)))
}

// Close stops the underlying watch.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
