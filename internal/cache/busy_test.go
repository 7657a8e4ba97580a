package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestWithBusyRetryRetriesLockedDatabase(t *testing.T) {
	calls := 0
	got, err := withBusyRetry(context.Background(), func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, fmt.Errorf("exec: %w", errors.New("database is locked"))
		}
		return 7, nil
	})
	if err != nil || got != 7 {
		t.Fatalf("withBusyRetry = %d, %v", got, err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestWithBusyRetryStopsOnOtherErrors(t *testing.T) {
	boom := errors.New("no such table")
	calls := 0
	_, err := withBusyRetry(context.Background(), func(context.Context) (int, error) {
		calls++
		return 0, boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Fatalf("expected one failed attempt, got %d calls and %v", calls, err)
	}
}

func TestWithBusyRetryGivesUp(t *testing.T) {
	calls := 0
	_, err := withBusyRetry(context.Background(), func(context.Context) (int, error) {
		calls++
		return 0, errors.New("database is locked")
	})
	if err == nil {
		t.Fatal("expected the final busy error")
	}
	if want := len(busyBackoff) + 1; calls != want {
		t.Fatalf("expected %d attempts, got %d", want, calls)
	}
}
