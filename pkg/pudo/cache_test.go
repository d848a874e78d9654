package pudo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_GetMissOnEmpty(t *testing.T) {
	cache := NewCache(time.Hour)

	_, ok := cache.Get("FR")
	assert.False(t, ok)
}

func TestCache_PutAndGet(t *testing.T) {
	cache := NewCache(time.Hour)

	cache.Put("FR", Result{Country: "FR", TotalFound: 3, Filtered: 2})

	result, ok := cache.Get("FR")
	assert.True(t, ok)
	assert.Equal(t, "FR", result.Country)
	assert.Equal(t, 3, result.TotalFound)
}

func TestCache_ExpiredEntryIsMiss(t *testing.T) {
	cache := NewCache(time.Hour)

	now := time.Now()
	cache.now = func() time.Time { return now }
	cache.Put("FR", Result{Country: "FR"})

	// Advance past the TTL
	cache.now = func() time.Time { return now.Add(time.Hour + time.Minute) }

	_, ok := cache.Get("FR")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len(), "expired entry should be removed")
}

func TestCache_PerCountryKeys(t *testing.T) {
	cache := NewCache(time.Hour)

	cache.Put("FR", Result{Country: "FR"})
	cache.Put("PL", Result{Country: "PL"})

	fr, ok := cache.Get("FR")
	assert.True(t, ok, "FR entry must survive a PL store")
	assert.Equal(t, "FR", fr.Country)

	pl, ok := cache.Get("PL")
	assert.True(t, ok)
	assert.Equal(t, "PL", pl.Country)
}

func TestCache_PutReplaces(t *testing.T) {
	cache := NewCache(time.Hour)

	cache.Put("FR", Result{Country: "FR", TotalFound: 1})
	cache.Put("FR", Result{Country: "FR", TotalFound: 5})

	result, ok := cache.Get("FR")
	assert.True(t, ok)
	assert.Equal(t, 5, result.TotalFound)
}
