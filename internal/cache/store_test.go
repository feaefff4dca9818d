// README: Concurrency tests for cache refresh (run with -race).
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrRefreshMissFetchesOnce(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	var calls int32
	payload, err := s.GetOrRefresh(context.Background(), "appointments", func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte(`["a","b"]`), nil
	})
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(payload))
	assert.EqualValues(t, 1, calls)
}

func TestGetOrRefreshFreshReadSkipsFetch(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	_, err = s.GetOrRefresh(ctx, "k", func(ctx context.Context) ([]byte, error) {
		return []byte(`1`), nil
	})
	require.NoError(t, err)

	// Second call must be served from disk without invoking fetch.
	payload, err := s.GetOrRefresh(ctx, "k", func(ctx context.Context) ([]byte, error) {
		t.Fatal("fetch invoked on fresh entry")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "1", string(payload))
}

func TestGetOrRefreshExpiredEntryRefetches(t *testing.T) {
	current := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	s, err := New(t.TempDir(), WithTTL(time.Hour), WithClock(now))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = s.GetOrRefresh(ctx, "k", func(ctx context.Context) ([]byte, error) {
		return []byte(`"old"`), nil
	})
	require.NoError(t, err)

	mu.Lock()
	current = current.Add(61 * time.Minute)
	mu.Unlock()

	payload, err := s.GetOrRefresh(ctx, "k", func(ctx context.Context) ([]byte, error) {
		return []byte(`"new"`), nil
	})
	require.NoError(t, err)
	assert.Equal(t, `"new"`, string(payload))
}

func TestConcurrentRefreshCollapsesToOneFetch(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	const callers = 16
	var fetches int32
	var wg sync.WaitGroup
	results := make(chan string, callers)
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload, err := s.GetOrRefresh(context.Background(), "shared", func(ctx context.Context) ([]byte, error) {
				atomic.AddInt32(&fetches, 1)
				// Hold the lock long enough that every other caller queues up.
				time.Sleep(50 * time.Millisecond)
				return []byte(`"snapshot"`), nil
			})
			results <- string(payload)
			errs <- err
		}()
	}

	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	for payload := range results {
		assert.Equal(t, `"snapshot"`, payload)
	}
	assert.EqualValues(t, 1, fetches, "expected exactly one fetch across %d concurrent callers", callers)
}

func TestFetchFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	wantErr := errors.New("tracker unavailable")
	_, err = s.GetOrRefresh(context.Background(), "k", func(ctx context.Context) ([]byte, error) {
		return nil, wantErr
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)

	_, _, err = s.ReadStale("k")
	assert.ErrorIs(t, err, ErrNoEntry)
}

func TestFetchFailureLeavesPreviousEntryIntact(t *testing.T) {
	current := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	s, err := New(t.TempDir(), WithTTL(time.Hour), WithClock(now))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = s.GetOrRefresh(ctx, "k", func(ctx context.Context) ([]byte, error) {
		return []byte(`"v1"`), nil
	})
	require.NoError(t, err)

	mu.Lock()
	current = current.Add(2 * time.Hour)
	mu.Unlock()

	_, err = s.GetOrRefresh(ctx, "k", func(ctx context.Context) ([]byte, error) {
		return nil, errors.New("fetch failed")
	})
	require.Error(t, err)

	// The stale entry survives for degraded fallback.
	payload, fetchedAt, err := s.ReadStale("k")
	require.NoError(t, err)
	assert.Equal(t, `"v1"`, string(payload))
	assert.False(t, fetchedAt.IsZero())
}

func TestCorruptEntryTreatedAsMiss(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "k.json"), []byte("{not json"), 0o644))

	payload, err := s.GetOrRefresh(context.Background(), "k", func(ctx context.Context) ([]byte, error) {
		return []byte(`"recovered"`), nil
	})
	require.NoError(t, err)
	assert.Equal(t, `"recovered"`, string(payload))
}

func TestEnvelopeRoundTripKeepsTimestamp(t *testing.T) {
	dir := t.TempDir()
	fixed := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	s, err := New(dir, WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	_, err = s.GetOrRefresh(context.Background(), "k", func(ctx context.Context) ([]byte, error) {
		return []byte(`{}`), nil
	})
	require.NoError(t, err)

	raw, readErr := os.ReadFile(filepath.Join(dir, "k.json"))
	require.NoError(t, readErr)
	var env struct {
		FetchedAt  time.Time `json:"fetched_at"`
		TTLSeconds int64     `json:"ttl_seconds"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.True(t, env.FetchedAt.Equal(fixed))
	assert.EqualValues(t, 3600, env.TTLSeconds)
}
