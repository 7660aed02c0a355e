// Package cache provides the object cache service ("cache" in the container).
// It is a thin wrapper over go-cache with the default TTL taken from the
// application config, plus a Remember helper for memoised computation.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/stylepress/go-stylepress/config"
)

// Store is a TTL-bounded in-process key/value cache.
type Store struct {
	c *gocache.Cache
}

// New creates a Store whose entries live for ttl and are swept every sweep
// interval. ttl <= 0 means entries never expire.
func New(ttl, sweep time.Duration) *Store {
	return &Store{c: gocache.New(ttl, sweep)}
}

// FromConfig builds a Store from the cache section of the application config.
// This is the factory registered in the container, with "config" as its
// declared dependency.
func FromConfig(cfg *config.Config) *Store {
	return New(cfg.Cache.TTL, cfg.Cache.Sweep)
}

// Get returns the value stored under key, if present and not expired.
func (s *Store) Get(key string) (any, bool) {
	return s.c.Get(key)
}

// Set stores value under key with the default TTL.
func (s *Store) Set(key string, value any) {
	s.c.SetDefault(key, value)
}

// SetFor stores value under key with an explicit TTL.
func (s *Store) SetFor(key string, value any, ttl time.Duration) {
	s.c.Set(key, value, ttl)
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) {
	s.c.Delete(key)
}

// Flush removes every entry.
func (s *Store) Flush() {
	s.c.Flush()
}

// ItemCount returns the number of entries, expired ones included.
func (s *Store) ItemCount() int {
	return s.c.ItemCount()
}

// Remember returns the cached value under key, computing and storing it via
// fn on a miss. A failed fn caches nothing, so the next call retries.
func (s *Store) Remember(key string, fn func() (any, error)) (any, error) {
	if v, ok := s.c.Get(key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return nil, err
	}
	s.c.SetDefault(key, v)
	return v, nil
}
