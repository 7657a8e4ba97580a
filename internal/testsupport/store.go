package testsupport

import (
	"testing"

	"autocontent/internal/cache"
	"autocontent/internal/config"
)

// MustOpenCache opens a cache.Store for tests and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *cache.Store {
	t.Helper()

	store, err := cache.Open(cfg)
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
