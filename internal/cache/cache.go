package cache

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Store is a key-value store with per-entry expiry.
type Store interface {
	// Lookup returns the value stored under key. ok is false on a miss or an expired entry.
	Lookup(ctx context.Context, key string) (value []byte, ok bool, err error)
	Store(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type Producer func(ctx context.Context) ([]byte, error)

// Memo memoizes producer results in a Store. Concurrent callers for the same key share one
// producer call.
type Memo struct {
	store Store
	group singleflight.Group
	log   *slog.Logger
}

func NewMemo(store Store, log *slog.Logger) *Memo {
	return &Memo{store: store, log: log}
}

// GetOrFetch returns the value cached under key, or calls produce and caches whatever it returns
// for ttl. Producer errors are returned and nothing is cached. Store failures are logged and do
// not fail the call.
func (m *Memo) GetOrFetch(ctx context.Context, key string, ttl time.Duration, produce Producer) ([]byte, error) {
	if value, ok := m.lookup(ctx, key); ok {
		return value, nil
	}

	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		if value, ok := m.lookup(ctx, key); ok {
			return value, nil
		}

		value, err := produce(ctx)
		if err != nil {
			return nil, err
		}

		if err := m.store.Store(ctx, key, value, ttl); err != nil {
			m.log.WarnContext(ctx, "cache store failed", "key", key, "error", err)
		}

		return value, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]byte), nil
}

func (m *Memo) lookup(ctx context.Context, key string) ([]byte, bool) {
	value, ok, err := m.store.Lookup(ctx, key)
	if err != nil {
		m.log.WarnContext(ctx, "cache lookup failed", "key", key, "error", err)
		return nil, false
	}

	if ok {
		m.log.DebugContext(ctx, "cache hit", "key", key)
	}

	return value, ok
}
