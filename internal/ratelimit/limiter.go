// Package ratelimit throttles MCP tool calls with per-tool token buckets.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Limiter is a token bucket keyed by string. Each key starts with a full
// bucket of burst tokens and refills at rate tokens per second. It is safe
// for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64
	burst   int
	now     func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewLimiter creates a limiter refilling at rate tokens/sec up to burst.
func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		burst:   burst,
		now:     time.Now,
	}
}

// Allow takes one token for key and reports whether one was available.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.burst), last: now}
		l.buckets[key] = b
	}

	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = min(b.tokens+l.rate*elapsed, float64(l.burst))
		b.last = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// ToolLimiters maps MCP tool names to their limiters.
type ToolLimiters map[string]*Limiter

// NewToolLimiters returns the default limits. stylo_signature may fetch a
// remote page per call, so it gets the tightest budget.
func NewToolLimiters() ToolLimiters {
	return ToolLimiters{
		"stylo_signature": NewLimiter(10.0/60.0, 3), // 10/minute, burst 3
		"stylo_attribute": NewLimiter(30.0/60.0, 5), // 30/minute, burst 5
		"stylo_authors":   NewLimiter(1.0, 10),      // 60/minute, burst 10
	}
}

// CheckLimit returns an error when tool has exhausted its budget. Tools
// without a limiter are never throttled.
func CheckLimit(limiters ToolLimiters, tool string) error {
	l, ok := limiters[tool]
	if !ok {
		return nil
	}
	if !l.Allow(tool) {
		return fmt.Errorf("rate limit exceeded for %s, please try again shortly", tool)
	}
	return nil
}
