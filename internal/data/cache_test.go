package data

import (
	"testing"
	"time"

	"grid-backtest/internal/series"

	"github.com/stretchr/testify/assert"
)

func TestResponseCacheExpiry(t *testing.T) {
	c := NewResponseCache(time.Minute)
	defer c.Close()

	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	c.Set("161725", []series.RawPoint{{Timestamp: 1, Price: 1}})
	got, ok := c.Get("161725")
	assert.True(t, ok)
	assert.Len(t, got, 1)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("161725")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.evictExpired()
	assert.Zero(t, c.Len())
}

func TestResponseCacheClearAndNil(t *testing.T) {
	c := NewResponseCache(0)
	c.Set("a", nil)
	c.Clear()
	assert.Zero(t, c.Len())
	c.Close()
	c.Close()

	var nilCache *ResponseCache
	nilCache.Set("a", nil)
	_, ok := nilCache.Get("a")
	assert.False(t, ok)
	assert.Zero(t, nilCache.Len())
	nilCache.Close()
}
