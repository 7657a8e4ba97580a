package api

import (
	"context"
	"strings"

	"autocontent/internal/cache"
	"autocontent/internal/logging"
)

// ListCache returns the cached transcripts, newest first.
func ListCache(ctx context.Context, rt Runtime) ([]CacheEntry, error) {
	if err := rt.check(); err != nil {
		return nil, err
	}
	store, err := cache.Open(rt.Config)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CacheEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, CacheEntry{
			VideoID:   e.VideoID,
			Language:  e.Language,
			Records:   e.Records,
			FetchedAt: e.FetchedAt.UTC().Format(dateTimeFormat),
		})
	}
	return out, nil
}

// ClearCache removes the cached transcripts of videoID, or every entry when
// videoID is blank. It returns the number of rows removed.
func ClearCache(ctx context.Context, rt Runtime, videoID string) (int64, error) {
	if err := rt.check(); err != nil {
		return 0, err
	}
	store, err := cache.Open(rt.Config)
	if err != nil {
		return 0, err
	}
	defer func() { _ = store.Close() }()

	var removed int64
	if id := strings.TrimSpace(videoID); id != "" {
		removed, err = store.Delete(ctx, id)
	} else {
		removed, err = store.Clear(ctx)
	}
	if err != nil {
		return 0, err
	}
	rt.logger("cache").Info("transcript cache cleared",
		logging.String("video_id", videoID),
		logging.Int64("removed", removed),
	)
	return removed, nil
}
