package auth

import (
	"sync"
	"time"
)

// sweepInterval bounds how often idle buckets are pruned. Buckets idle
// for twice this long are full again and safe to forget.
const sweepInterval = 5 * time.Minute

// IPRateLimiter applies token-bucket rate limiting per client IP. The
// interactions endpoint is open to visitors, so it is the one surface
// that needs spam protection.
type IPRateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	maxTokens  int
	refillRate time.Duration
	lastSweep  time.Time
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// NewIPRateLimiter creates a limiter allowing perMinute requests per IP,
// refilled continuously. Idle buckets are pruned inline from Allow, so
// the limiter owns no goroutine and needs no shutdown.
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	return &IPRateLimiter{
		buckets:    make(map[string]*bucket),
		maxTokens:  perMinute,
		refillRate: time.Minute / time.Duration(perMinute),
		lastSweep:  time.Now(),
	}
}

// Allow reports whether a request from the given IP may proceed, and
// consumes a token when it may.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.sweep(now)

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{tokens: l.maxTokens, lastRefill: now}
		l.buckets[ip] = b
	}

	refill := int(now.Sub(b.lastRefill) / l.refillRate)
	if refill > 0 {
		b.tokens = min(b.tokens+refill, l.maxTokens)
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// sweep drops buckets idle long enough to be full again. Caller holds l.mu.
func (l *IPRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	l.lastSweep = now
	for ip, b := range l.buckets {
		if now.Sub(b.lastRefill) > 2*sweepInterval {
			delete(l.buckets, ip)
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
