// README: File-backed TTL cache with cross-process locking and atomic replace.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

var (
	// ErrNoEntry is returned when no entry exists on disk for a key.
	ErrNoEntry = errors.New("cache entry not found")
)

const defaultTTL = time.Hour

// FetchFunc produces a fresh payload for a key. The payload must be valid
// JSON (it is embedded verbatim in the entry envelope). It is invoked at most
// once per expired key per refresh cycle, system-wide.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Store is a file-backed key/value cache. Fresh reads never take the lock;
// refreshes serialize on a per-key advisory file lock so concurrent callers
// collapse into a single fetch. Entries become visible only via atomic
// rename, so readers never observe a partial write and a crash mid-refresh
// leaves the previous entry intact.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

type Option func(*Store)

// WithTTL overrides the default 1h entry lifetime.
func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

// WithClock substitutes the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	s := &Store{dir: dir, ttl: defaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// envelope is the on-disk representation of one entry.
type envelope struct {
	FetchedAt  time.Time       `json:"fetched_at"`
	TTLSeconds int64           `json:"ttl_seconds"`
	Payload    json.RawMessage `json:"payload"`
}

// GetOrRefresh returns the cached payload for key, refreshing it via fetch
// when absent or expired. On fetch failure nothing is written and the error
// propagates; callers may fall back to ReadStale for degraded service.
func (s *Store) GetOrRefresh(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	if payload, ok := s.readFresh(key); ok {
		return payload, nil
	}

	// Expired or missing: serialize the refresh on the key's lock file.
	lock := flock.New(s.lockPath(key))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquire cache lock for %q: %w", key, err)
	}
	defer lock.Unlock()

	// Another holder may have refreshed while we waited on the lock.
	if payload, ok := s.readFresh(key); ok {
		return payload, nil
	}

	payload, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh cache key %q: %w", key, err)
	}
	if err := s.write(key, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ReadStale returns the entry payload regardless of expiry, with its fetch
// timestamp. Integration layers use this to serve degraded data after a
// failed refresh.
func (s *Store) ReadStale(key string) ([]byte, time.Time, error) {
	env, err := s.read(key)
	if err != nil {
		return nil, time.Time{}, err
	}
	return env.Payload, env.FetchedAt, nil
}

func (s *Store) readFresh(key string) ([]byte, bool) {
	env, err := s.read(key)
	if err != nil {
		return nil, false
	}
	ttl := time.Duration(env.TTLSeconds) * time.Second
	if s.now().Sub(env.FetchedAt) >= ttl {
		return nil, false
	}
	return env.Payload, true
}

func (s *Store) read(key string) (*envelope, error) {
	raw, err := os.ReadFile(s.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoEntry
		}
		return nil, fmt.Errorf("read cache entry %q: %w", key, err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// A corrupt entry is treated as a miss; the next refresh replaces it.
		return nil, ErrNoEntry
	}
	return &env, nil
}

// write lands the payload in a temp file and renames it into place. Rename
// within one directory is atomic on POSIX, so the entry is never partially
// visible.
func (s *Store) write(key string, payload []byte) error {
	env := envelope{
		FetchedAt:  s.now(),
		TTLSeconds: int64(s.ttl / time.Second),
		Payload:    json.RawMessage(payload),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode cache entry %q: %w", key, err)
	}

	tmp, err := os.CreateTemp(s.dir, sanitize(key)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, s.entryPath(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish cache entry %q: %w", key, err)
	}
	return nil
}

func (s *Store) entryPath(key string) string {
	return filepath.Join(s.dir, sanitize(key)+".json")
}

func (s *Store) lockPath(key string) string {
	return filepath.Join(s.dir, sanitize(key)+".lock")
}

// sanitize keeps keys filesystem-safe.
func sanitize(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}
