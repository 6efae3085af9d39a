package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiter_AllowsBurstThenDenies(t *testing.T) {
	limiter := NewIPRateLimiter(3)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "request %d", i)
	}
	assert.False(t, limiter.Allow("10.0.0.1"))

	// Other IPs have their own buckets.
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestIPRateLimiter_RefillsOverTime(t *testing.T) {
	limiter := NewIPRateLimiter(1200) // one token per 50ms
	assert.True(t, limiter.Allow("10.0.0.1"))
	for limiter.Allow("10.0.0.1") {
	}

	time.Sleep(120 * time.Millisecond)
	assert.True(t, limiter.Allow("10.0.0.1"))
}

func TestIPRateLimiter_SweepDropsIdleBuckets(t *testing.T) {
	limiter := NewIPRateLimiter(3)
	assert.True(t, limiter.Allow("10.0.0.1"))

	// Age the bucket past the idle cutoff and make the next Allow sweep.
	limiter.mu.Lock()
	limiter.buckets["10.0.0.1"].lastRefill = time.Now().Add(-time.Hour)
	limiter.lastSweep = time.Now().Add(-time.Hour)
	limiter.mu.Unlock()

	assert.True(t, limiter.Allow("10.0.0.2"))

	limiter.mu.Lock()
	_, ok := limiter.buckets["10.0.0.1"]
	limiter.mu.Unlock()
	assert.False(t, ok, "idle bucket should be pruned")
}
