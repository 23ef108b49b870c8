// Package cache keeps rendered public listings and signals page revalidation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Listing keys.
const (
	KeyJobs          = "devfest:listing:jobs"
	KeyAgenda        = "devfest:listing:agenda"
	KeyAgendaTracks  = "devfest:listing:agenda-tracks"
	KeyAnnouncements = "devfest:listing:announcements"
)

var (
	// ErrMiss reports an absent key.
	ErrMiss = errors.New("cache miss")
	// ErrStale reports a conditional write whose key was invalidated after the
	// generation was read.
	ErrStale = errors.New("cache key invalidated")
)

// Store is a byte cache with a revalidation channel. Every key carries a
// generation that Delete advances.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Generation returns the current generation of key.
	Generation(ctx context.Context, key string) (int64, error)
	// SetIfGeneration writes value only while key is still at gen, otherwise ErrStale.
	SetIfGeneration(ctx context.Context, key string, gen int64, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// PublishRevalidate announces the page paths whose content changed.
	PublishRevalidate(ctx context.Context, paths ...string) error
}

// Listings is the read-through cache used by the catalog services.
type Listings struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewListings wraps store. A nil store disables caching.
func NewListings(store Store, ttl time.Duration, logger *zap.Logger) *Listings {
	return &Listings{store: store, ttl: ttl, logger: logger}
}

// Fetch returns the cached value of key, calling load and storing its result
// on a miss. The result is only written back when no invalidation of key
// happened while load ran. Cache faults fall through to load.
func Fetch[T any](ctx context.Context, l *Listings, key string, load func(context.Context) (T, error)) (T, error) {
	if l == nil || l.store == nil {
		return load(ctx)
	}

	raw, err := l.store.Get(ctx, key)
	if err == nil {
		var cached T
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached, nil
		}
		l.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	} else if !errors.Is(err, ErrMiss) {
		l.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	gen, genErr := l.store.Generation(ctx, key)
	if genErr != nil {
		l.logger.Warn("cache generation read failed", zap.String("key", key), zap.Error(genErr))
	}

	value, err := load(ctx)
	if err != nil || genErr != nil {
		return value, err
	}
	encoded, jsonErr := json.Marshal(value)
	if jsonErr != nil {
		return value, nil
	}
	switch setErr := l.store.SetIfGeneration(ctx, key, gen, encoded, l.ttl); {
	case errors.Is(setErr, ErrStale):
		l.logger.Debug("skipping write of invalidated listing", zap.String("key", key))
	case setErr != nil:
		l.logger.Warn("cache write failed", zap.String("key", key), zap.Error(setErr))
	}
	return value, nil
}

// MemoryStore is an in-process Store. Published paths are kept for inspection.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	gens      map[string]int64
	published []string
	now       func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}, gens: map[string]int64{}, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok || (!entry.expiresAt.IsZero() && m.now().After(entry.expiresAt)) {
		delete(m.entries, key)
		return nil, ErrMiss
	}
	return append([]byte(nil), entry.value...), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(key, value, ttl)
	return nil
}

func (m *MemoryStore) set(key string, value []byte, ttl time.Duration) {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = entry
}

func (m *MemoryStore) Generation(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens[key], nil
}

func (m *MemoryStore) SetIfGeneration(_ context.Context, key string, gen int64, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gens[key] != gen {
		return ErrStale
	}
	m.set(key, value, ttl)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
		m.gens[key]++
	}
	return nil
}

func (m *MemoryStore) PublishRevalidate(_ context.Context, paths ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, paths...)
	return nil
}

// Published returns every path announced so far.
func (m *MemoryStore) Published() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.published...)
}
