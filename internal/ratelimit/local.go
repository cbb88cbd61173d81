package ratelimit

import (
	"sync"
	"time"
)

// localBucket is an in-process token bucket used when no redis address is
// configured. It applies the same refill math as the redis script, but per
// instance rather than fleet-wide.
type localBucket struct {
	mu      sync.Mutex
	entries map[string]*localEntry
}

type localEntry struct {
	tokens float64
	ts     time.Time
}

func newLocalBucket() *localBucket {
	return &localBucket{entries: make(map[string]*localEntry)}
}

func (b *localBucket) Allow(key string, rate float64, burst int) *Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	entry, ok := b.entries[key]
	if !ok {
		entry = &localEntry{tokens: float64(burst), ts: now}
		b.entries[key] = entry
	} else {
		elapsed := now.Sub(entry.ts).Seconds()
		if elapsed > 0 {
			entry.tokens += elapsed * rate
			if entry.tokens > float64(burst) {
				entry.tokens = float64(burst)
			}
		}
		entry.ts = now
	}

	if entry.tokens >= 1 {
		entry.tokens--
		return &Result{Allowed: true, Remaining: int(entry.tokens)}
	}

	needed := 1 - entry.tokens
	return &Result{
		Allowed:    false,
		Remaining:  0,
		RetryAfter: time.Duration(needed / rate * float64(time.Second)),
	}
}
