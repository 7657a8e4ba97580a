package watcher_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"autocontent/internal/watcher"
)

func startWatcher(t *testing.T, dir string, handler watcher.Handler) (context.CancelFunc, <-chan error) {
	t.Helper()
	w, err := watcher.New(dir, handler, nil, watcher.Options{Settle: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return cancel, done
}

func TestWatcherReportsNewJSONFiles(t *testing.T) {
	dir := t.TempDir()
	seen := make(chan string, 8)
	cancel, done := startWatcher(t, dir, func(_ context.Context, path string) error {
		seen <- path
		return nil
	})

	for _, name := range []string{"notes.txt", ".hidden.json", "talk.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	select {
	case got := <-seen:
		if filepath.Base(got) != "talk.json" {
			t.Fatalf("unexpected file reported: %s", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v", err)
	}
	select {
	case extra := <-seen:
		t.Fatalf("unexpected extra event: %s", extra)
	default:
	}
}

func TestWatcherKeepsRunningAfterHandlerError(t *testing.T) {
	dir := t.TempDir()
	seen := make(chan string, 8)
	cancel, done := startWatcher(t, dir, func(_ context.Context, path string) error {
		seen <- path
		return errors.New("conversion failed")
	})
	defer func() {
		cancel()
		<-done
	}()

	for _, name := range []string{"a.json", "b.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		select {
		case <-seen:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %s", name)
		}
	}
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	_, err := watcher.New(filepath.Join(t.TempDir(), "missing"), func(context.Context, string) error { return nil }, nil, watcher.Options{})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
