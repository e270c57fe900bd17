package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name    string   `json:"name"`
	Country string   `json:"country"`
	Tags    []string `json:"tags"`
	Approx  bool     `json:"approx"`
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func backends(t *testing.T) map[string]KV {
	t.Helper()

	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]KV{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestCacheRoundTrip(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			clock := &fakeClock{t: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)}
			c := NewCache(kv).WithClock(clock.Now)

			in := record{Name: "Paris", Country: "France", Tags: []string{"a", "b"}, Approx: true}
			require.NoError(t, c.Write("geo_48.857_2.352_en", in))

			clock.t = clock.t.Add(time.Hour)

			var out record
			written, err := c.ReadFresh("geo_48.857_2.352_en", 12*time.Hour, &out)
			require.NoError(t, err)
			assert.Equal(t, in, out)
			assert.Equal(t, clock.t.Add(-time.Hour).UnixMilli(), written.UnixMilli())
		})
	}
}

func TestCacheReadFreshExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)}
	c := NewCache(NewMemoryStore()).WithClock(clock.Now)
	require.NoError(t, c.Write("k", record{Name: "old"}))

	clock.t = clock.t.Add(12 * time.Hour)

	var out record
	_, err := c.ReadFresh("k", 12*time.Hour, &out)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Empty(t, out.Name)

	// Read ignores age.
	_, err = c.Read("k", &out)
	require.NoError(t, err)
	assert.Equal(t, "old", out.Name)
}

func TestCacheOverwrite(t *testing.T) {
	c := NewCache(NewMemoryStore())
	require.NoError(t, c.Write("k", record{Name: "a", Tags: []string{"x"}}))
	require.NoError(t, c.Write("k", record{Name: "b"}))

	var out record
	_, err := c.Read("k", &out)
	require.NoError(t, err)
	assert.Equal(t, record{Name: "b"}, out)
}

func TestCacheMissingAndCorrupt(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := NewCache(kv)

			var out record
			_, err := c.Read("missing", &out)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Set("broken", []byte("{not json")))
			_, err = c.Read("broken", &out)
			assert.ErrorIs(t, err, ErrCorrupt)

			require.NoError(t, kv.Set("wrong-shape", []byte(`{"timestamp":1,"data":"text"}`)))
			_, err = c.Read("wrong-shape", &out)
			assert.ErrorIs(t, err, ErrCorrupt)

			require.NoError(t, c.Purge("broken"))
			_, err = c.Read("broken", &out)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, NewCache(s).Write(lastKey, record{Name: "London"}))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	var out record
	_, err = NewCache(s).Read(lastKey, &out)
	require.NoError(t, err)
	assert.Equal(t, "London", out.Name)
}

const lastKey = "last_weather"
