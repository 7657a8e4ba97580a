package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"autocontent/internal/config"
	"autocontent/internal/faults"
	"autocontent/internal/transcript"
)

// connPragmas run on every pooled connection.
const connPragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Store persists fetched transcripts in SQLite keyed by video id and language.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Entry summarizes one cached transcript.
type Entry struct {
	VideoID   string
	Language  string
	Records   int
	FetchedAt time.Time
}

// Open connects to the cache database under the configured cache directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.CacheDBPath())
}

// OpenPath opens or creates the cache database at path.
func OpenPath(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+connPragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	store := &Store{db: db, path: dbPath, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle. Closing a nil store is a no-op.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached records for a video and language. The boolean is
// false when nothing is cached.
func (s *Store) Get(ctx context.Context, videoID, language string) ([]transcript.Record, bool, error) {
	payload, err := withBusyRetry(ctx, func(ctx context.Context) (string, error) {
		var payload string
		err := s.db.QueryRowContext(ctx,
			"SELECT payload FROM transcripts WHERE video_id = ? AND language = ?",
			videoID, language,
		).Scan(&payload)
		return payload, err
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("read cached transcript: %w", err)
	}
	records, err := transcript.Decode([]byte(payload))
	if err != nil {
		return nil, false, fmt.Errorf("decode cached transcript %s/%s: %w", videoID, language, err)
	}
	return records, true, nil
}

const upsertTranscript = `
INSERT INTO transcripts (video_id, language, payload, record_count, fetched_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(video_id, language) DO UPDATE SET
    payload = excluded.payload,
    record_count = excluded.record_count,
    fetched_at = excluded.fetched_at`

// Put stores records for a video and language, replacing any earlier copy.
func (s *Store) Put(ctx context.Context, videoID, language string, records []transcript.Record) error {
	if strings.TrimSpace(videoID) == "" {
		return faults.Wrap(faults.ErrValidation, "cache transcript", "video id required", nil)
	}
	if records == nil {
		records = []transcript.Record{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	fetched := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := s.exec(ctx, upsertTranscript, videoID, language, string(payload), len(records), fetched); err != nil {
		return fmt.Errorf("write cached transcript: %w", err)
	}
	return nil
}

// List returns every cached transcript, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	entries, err := withBusyRetry(ctx, s.listOnce)
	if err != nil {
		return nil, fmt.Errorf("list cached transcripts: %w", err)
	}
	return entries, nil
}

func (s *Store) listOnce(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT video_id, language, record_count, fetched_at FROM transcripts ORDER BY fetched_at DESC, video_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry   Entry
			fetched string
		)
		if err := rows.Scan(&entry.VideoID, &entry.Language, &entry.Records, &fetched); err != nil {
			return nil, err
		}
		entry.FetchedAt, _ = time.Parse(time.RFC3339Nano, fetched)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Delete removes every cached language for a video and returns the number of
// rows removed.
func (s *Store) Delete(ctx context.Context, videoID string) (int64, error) {
	n, err := s.exec(ctx, "DELETE FROM transcripts WHERE video_id = ?", videoID)
	if err != nil {
		return 0, fmt.Errorf("delete cached transcript: %w", err)
	}
	return n, nil
}

// Clear removes all cached transcripts.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	n, err := s.exec(ctx, "DELETE FROM transcripts")
	if err != nil {
		return 0, fmt.Errorf("clear transcript cache: %w", err)
	}
	return n, nil
}

// exec runs a write statement and returns the affected row count.
func (s *Store) exec(ctx context.Context, query string, args ...any) (int64, error) {
	return withBusyRetry(ctx, func(ctx context.Context) (int64, error) {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
}
