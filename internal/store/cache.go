package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when no value is stored under a key.
	ErrNotFound = errors.New("cache entry not found")
	// ErrCorrupt is returned when a stored record cannot be parsed.
	ErrCorrupt = errors.New("cache entry corrupt")
	// ErrExpired is returned by ReadFresh for entries older than the TTL.
	ErrExpired = errors.New("cache entry expired")
)

// KV is a raw key/value backend. Set overwrites the whole value.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Entry is the persisted envelope around every cached value.
type Entry struct {
	Timestamp int64           `json:"timestamp"` // unix milliseconds
	Data      json.RawMessage `json:"data"`
}

// Cache stamps values with their write time. Freshness is decided by the
// reader, never at write time.
type Cache struct {
	kv  KV
	now func() time.Time
}

// NewCache wraps kv with the cache policy.
func NewCache(kv KV) *Cache {
	return &Cache{kv: kv, now: time.Now}
}

// WithClock overrides the clock used to stamp and age entries.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Write serializes v and stores it under key with the current time.
func (c *Cache) Write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	raw, err := json.Marshal(Entry{Timestamp: c.now().UnixMilli(), Data: data})
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", key, err)
	}

	if err := c.kv.Set(key, raw); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// Read decodes the value stored under key into v and returns its write time.
// The value is returned whatever its age.
func (c *Cache) Read(key string, v any) (time.Time, error) {
	e, err := c.load(key)
	if err != nil {
		return time.Time{}, err
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return time.UnixMilli(e.Timestamp), nil
}

// ReadFresh is Read with a TTL: entries whose age is ttl or more yield
// ErrExpired and leave v untouched.
func (c *Cache) ReadFresh(key string, ttl time.Duration, v any) (time.Time, error) {
	e, err := c.load(key)
	if err != nil {
		return time.Time{}, err
	}

	written := time.UnixMilli(e.Timestamp)
	if c.now().Sub(written) >= ttl {
		return written, ErrExpired
	}

	if err := json.Unmarshal(e.Data, v); err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return written, nil
}

func (c *Cache) load(key string) (Entry, error) {
	raw, err := c.kv.Get(key)
	if err != nil {
		return Entry{}, err
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil || len(e.Data) == 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrCorrupt, key)
	}
	return e, nil
}

// Purge deletes key.
func (c *Cache) Purge(key string) error {
	return c.kv.Delete(key)
}

// Close closes the backend.
func (c *Cache) Close() error {
	return c.kv.Close()
}
