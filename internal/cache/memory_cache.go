package cache

import (
	"context"
	"sync"
	"time"
)

type item[V any] struct {
	value      V
	expiration int64 // Unix nanoseconds; zero = no expire
}

type evictedItem[V any] struct {
	key   string
	value V
}

type shard[V any] struct {
	sync.RWMutex
	items map[string]item[V]
}

type MemoryCache[V any] struct {
	shards []*shard[V]
	quit   chan struct{}

	evictMu sync.RWMutex
	onEvict func(key string, value V)
}

// NewMemoryCache creates a 64-shard cache with a 1s janitor by default.
func NewMemoryCache[V any]() *MemoryCache[V] {
	return NewMemoryCacheWithOptions[V](64, 1*time.Second)
}

// NewMemoryCacheWithOptions allows customizing shard count & janitor interval.
func NewMemoryCacheWithOptions[V any](shardCount int, janitorInterval time.Duration) *MemoryCache[V] {
	mc := &MemoryCache[V]{
		shards: make([]*shard[V], shardCount),
		quit:   make(chan struct{}),
	}
	for i := 0; i < shardCount; i++ {
		mc.shards[i] = &shard[V]{items: make(map[string]item[V])}
	}
	go mc.startJanitor(janitorInterval)
	return mc
}

// Stop terminates the janitor goroutine and releases resources.
func (mc *MemoryCache[V]) Stop() {
	select {
	case <-mc.quit:
	default:
		close(mc.quit)
	}
}

// OnEvict registers fn to run for every entry dropped because it expired.
// Explicit deletes and overwrites do not trigger it. fn runs without shard locks held.
func (mc *MemoryCache[V]) OnEvict(fn func(key string, value V)) {
	mc.evictMu.Lock()
	mc.onEvict = fn
	mc.evictMu.Unlock()
}

func (mc *MemoryCache[V]) evicted(key string, value V) {
	mc.evictMu.RLock()
	fn := mc.onEvict
	mc.evictMu.RUnlock()
	if fn != nil {
		fn(key, value)
	}
}

func (mc *MemoryCache[V]) getShard(key string) *shard[V] {
	h := fnv32(key)
	return mc.shards[int(h)%len(mc.shards)]
}

func fnv32(key string) uint32 {
	const offset = 2166136261
	const prime = 16777619
	h := uint32(offset)
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= prime
	}
	return h
}

// Get does an atomic lock/unlock to avoid the RLock→Lock race.
func (mc *MemoryCache[V]) Get(_ context.Context, key string) (V, error) {
	var zero V
	now := time.Now().UnixNano()
	s := mc.getShard(key)

	s.Lock()
	itm, ok := s.items[key]
	if ok && itm.expiration > 0 && now > itm.expiration {
		delete(s.items, key)
		s.Unlock()
		mc.evicted(key, itm.value)
		return zero, ErrCacheMiss
	}
	s.Unlock()
	if ok {
		return itm.value, nil
	}
	return zero, ErrCacheMiss
}

func (mc *MemoryCache[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}
	s := mc.getShard(key)
	s.Lock()
	s.items[key] = item[V]{value: value, expiration: exp}
	s.Unlock()
	return nil
}

// Len counts live entries; expired ones the janitor has not reaped yet are skipped.
func (mc *MemoryCache[V]) Len() int {
	now := time.Now().UnixNano()
	n := 0
	for _, s := range mc.shards {
		s.RLock()
		for _, itm := range s.items {
			if itm.expiration == 0 || now <= itm.expiration {
				n++
			}
		}
		s.RUnlock()
	}
	return n
}

func (mc *MemoryCache[V]) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s := mc.getShard(key)
		s.Lock()
		delete(s.items, key)
		s.Unlock()
	}
	return nil
}

func (mc *MemoryCache[V]) MGet(_ context.Context, keys ...string) ([]V, []error) {
	results := make([]V, len(keys))
	errs := make([]error, len(keys))

	type req struct {
		idx int
		key string
	}
	groups := make(map[*shard[V]][]req, len(mc.shards))
	for i, k := range keys {
		sh := mc.getShard(k)
		groups[sh] = append(groups[sh], req{i, k})
	}

	var expired []evictedItem[V]
	for sh, reqs := range groups {
		now := time.Now().UnixNano()
		sh.Lock()
		for _, r := range reqs {
			itm, ok := sh.items[r.key]
			if !ok || (itm.expiration > 0 && now > itm.expiration) {
				if ok {
					delete(sh.items, r.key)
					expired = append(expired, evictedItem[V]{r.key, itm.value})
				}
				errs[r.idx] = ErrCacheMiss
			} else {
				results[r.idx] = itm.value
			}
		}
		sh.Unlock()
	}
	for _, e := range expired {
		mc.evicted(e.key, e.value)
	}
	return results, errs
}

func (mc *MemoryCache[V]) startJanitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now().UnixNano()
			for _, sh := range mc.shards {
				go func(s *shard[V]) {
					var expired []evictedItem[V]
					s.Lock()
					for k, itm := range s.items {
						if itm.expiration > 0 && now > itm.expiration {
							delete(s.items, k)
							expired = append(expired, evictedItem[V]{k, itm.value})
						}
					}
					s.Unlock()
					for _, e := range expired {
						mc.evicted(e.key, e.value)
					}
				}(sh)
			}
		case <-mc.quit:
			return
		}
	}
}
