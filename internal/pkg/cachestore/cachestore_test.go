package cachestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetAfterSetWithinTTL(t *testing.T) {
	s := New[int](10)
	s.Set("a", 42, time.Minute)

	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestStore_MissAfterExpiry(t *testing.T) {
	s := New[string](10)
	clock := time.Now()
	s.now = func() time.Time { return clock }

	s.Set("k", "v", 30*time.Second)

	clock = clock.Add(29 * time.Second)
	_, ok := s.Get("k")
	assert.True(t, ok, "entry should still be live just before TTL")

	clock = clock.Add(2 * time.Second)
	_, ok = s.Get("k")
	assert.False(t, ok, "entry should expire after TTL")
}

func TestStore_MissOnUnknownKey(t *testing.T) {
	s := New[int](10)
	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestStore_EvictsOldestWhenOverBound(t *testing.T) {
	s := New[int](3)
	clock := time.Now()
	s.now = func() time.Time { return clock }

	for i, key := range []string{"a", "b", "c", "d"} {
		clock = clock.Add(time.Second)
		s.Set(key, i, time.Hour)
	}

	assert.Equal(t, 3, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok, "oldest entry should be evicted")
	for _, key := range []string{"b", "c", "d"} {
		_, ok := s.Get(key)
		assert.True(t, ok, "newer entry %q should survive", key)
	}
}

func TestStore_SetReplacesValue(t *testing.T) {
	s := New[int](10)
	s.Set("k", 1, time.Minute)
	s.Set("k", 2, time.Minute)

	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, s.Len())
}

func TestStore_UnboundedWhenZeroMax(t *testing.T) {
	s := New[int](0)
	for i := 0; i < 100; i++ {
		s.Set(string(rune('a'+i%26))+string(rune('0'+i/26)), i, time.Minute)
	}
	assert.Equal(t, 100, s.Len())
}
