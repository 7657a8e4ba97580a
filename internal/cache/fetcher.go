package cache

import (
	"context"
	"log/slog"

	"autocontent/internal/logging"
	"autocontent/internal/transcript"
)

// CachingFetcher serves transcripts from the store and falls through to
// Upstream on a miss. Cache failures never fail a fetch.
type CachingFetcher struct {
	Store    *Store
	Upstream transcript.Fetcher
	Language string
	Logger   *slog.Logger
}

// FetchTranscript implements transcript.Fetcher.
func (f *CachingFetcher) FetchTranscript(ctx context.Context, videoID string) ([]transcript.Record, error) {
	logger := f.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if f.Store != nil {
		records, ok, err := f.Store.Get(ctx, videoID, f.Language)
		switch {
		case err != nil:
			logging.WarnWithContext(logger, "transcript cache read failed", "cache_read_failed",
				logging.String("video_id", videoID),
				logging.Error(err),
				logging.String(logging.FieldImpact, "fetching from upstream"),
			)
		case ok:
			logger.Debug("transcript cache hit",
				logging.String("video_id", videoID),
				logging.String("language", f.Language),
				logging.Int("records", len(records)),
			)
			return records, nil
		}
	}

	records, err := f.Upstream.FetchTranscript(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if f.Store != nil {
		if err := f.Store.Put(ctx, videoID, f.Language, records); err != nil {
			logging.WarnWithContext(logger, "transcript cache write failed", "cache_write_failed",
				logging.String("video_id", videoID),
				logging.Error(err),
				logging.String(logging.FieldImpact, "next pull fetches again"),
			)
		}
	}
	return records, nil
}
