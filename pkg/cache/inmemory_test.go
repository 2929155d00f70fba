package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetFromCache(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	c.Set("log", "Timestamp,LeadQuality", DefaultExpiration)
	c.Set("count", 3, DefaultExpiration)

	got, ok := GetFromCache[string](c, "log")
	assert.True(t, ok)
	assert.Equal(t, "Timestamp,LeadQuality", got)

	got, ok = GetFromCache[string](c, "count")
	assert.False(t, ok, "wrong type must not be returned")
	assert.Empty(t, got)

	_, ok = GetFromCache[string](c, "missing")
	assert.False(t, ok)
}

func TestCache_UpdateConcurrent(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Update("rows", DefaultExpiration, func(current interface{}, found bool) interface{} {
				if !found {
					return 1
				}
				return current.(int) + 1
			})
		}()
	}
	wg.Wait()

	got, ok := GetFromCache[int](c, "rows")
	assert.True(t, ok)
	assert.Equal(t, 50, got)
}

func TestCache_UpdateExpires(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	c.Update("k", 20*time.Millisecond, func(interface{}, bool) interface{} { return "v" })

	assert.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
