package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// busyBackoff lists the pauses between attempts when another process holds
// the database lock. busy_timeout covers most contention. These retries
// catch the cases SQLite reports immediately, such as WAL snapshot upgrades.
var busyBackoff = []time.Duration{
	10 * time.Millisecond,
	20 * time.Millisecond,
	40 * time.Millisecond,
	80 * time.Millisecond,
}

func isBusy(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_BUSY
	}
	return err != nil && strings.Contains(err.Error(), "database is locked")
}

// withBusyRetry runs fn until it succeeds, fails with a non-busy error, or
// the backoff schedule runs out.
func withBusyRetry[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, pause := range busyBackoff {
		out, err := fn(ctx)
		if !isBusy(err) {
			return out, err
		}
		select {
		case <-time.After(pause):
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
	return fn(ctx)
}
