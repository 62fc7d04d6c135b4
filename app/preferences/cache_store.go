package preferences

import (
	"context"
	"errors"
	"time"

	"github.com/joefazee/atlas/internal/cache"
	"github.com/joefazee/atlas/models"
)

var knownKeys = []string{KeyFavorites, KeyTheme, KeySort}

func cacheKey(clientID, key string) string {
	return "prefs:" + clientID + ":" + key
}

func clientKeys(clientID string) []string {
	keys := make([]string, len(knownKeys))
	for i, key := range knownKeys {
		keys[i] = cacheKey(clientID, key)
	}
	return keys
}

// CacheStore keeps preferences in the shared cache (memory or redis) only
type CacheStore struct {
	cache cache.Cache[string]
	ttl   time.Duration
}

var _ ClientStore = (*CacheStore)(nil)

// NewCacheStore creates a store; zero ttl keeps entries forever
func NewCacheStore(c cache.Cache[string], ttl time.Duration) *CacheStore {
	return &CacheStore{cache: c, ttl: ttl}
}

func (s *CacheStore) Get(ctx context.Context, clientID, key string) (string, error) {
	v, err := s.cache.Get(ctx, cacheKey(clientID, key))
	if errors.Is(err, cache.ErrCacheMiss) {
		return "", models.ErrPreferenceNotFound
	}
	return v, err
}

func (s *CacheStore) Set(ctx context.Context, clientID, key, value string) error {
	if err := models.NewPreference(clientID, key, value).Validate(); err != nil {
		return err
	}
	return s.cache.Set(ctx, cacheKey(clientID, key), value, s.ttl)
}

// All reads the known keys in one round trip; keys never set are left out
func (s *CacheStore) All(ctx context.Context, clientID string) (map[string]string, error) {
	vals, errs := s.cache.MGet(ctx, clientKeys(clientID)...)
	values := make(map[string]string, len(knownKeys))
	for i, key := range knownKeys {
		if errs[i] != nil {
			if errors.Is(errs[i], cache.ErrCacheMiss) {
				continue
			}
			return nil, errs[i]
		}
		values[key] = vals[i]
	}
	return values, nil
}

func (s *CacheStore) Purge(ctx context.Context, clientID string) error {
	return s.cache.Delete(ctx, clientKeys(clientID)...)
}

// CachedStore reads through the cache in front of another ClientStore and
// writes to both
type CachedStore struct {
	next  ClientStore
	cache cache.Cache[string]
	ttl   time.Duration
}

var _ ClientStore = (*CachedStore)(nil)

func NewCachedStore(next ClientStore, c cache.Cache[string], ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, cache: c, ttl: ttl}
}

func (s *CachedStore) Get(ctx context.Context, clientID, key string) (string, error) {
	ck := cacheKey(clientID, key)
	if v, err := s.cache.Get(ctx, ck); err == nil {
		return v, nil
	}

	v, err := s.next.Get(ctx, clientID, key)
	if err != nil {
		return "", err
	}
	// a failed fill only costs the next read a trip to the store
	_ = s.cache.Set(ctx, ck, v, s.ttl)
	return v, nil
}

func (s *CachedStore) Set(ctx context.Context, clientID, key, value string) error {
	if err := s.next.Set(ctx, clientID, key, value); err != nil {
		return err
	}
	return s.cache.Set(ctx, cacheKey(clientID, key), value, s.ttl)
}

// All goes to the backing store, which holds every key
func (s *CachedStore) All(ctx context.Context, clientID string) (map[string]string, error) {
	return s.next.All(ctx, clientID)
}

func (s *CachedStore) Purge(ctx context.Context, clientID string) error {
	if err := s.next.Purge(ctx, clientID); err != nil {
		return err
	}
	return s.cache.Delete(ctx, clientKeys(clientID)...)
}
