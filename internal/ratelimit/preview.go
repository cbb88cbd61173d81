package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/pedalroom/pedalroom/internal/config"
)

const keyPreviewClient = "preview:client:%s"

// PreviewLimiter throttles the anonymous line item preview endpoints per
// client address. Previews are the only unauthenticated compute-heavy
// surface, so they get their own bucket. A nil limiter allows everything.
type PreviewLimiter struct {
	enabled bool

	bucket *TokenBucket
	local  *localBucket
	rate   float64
	burst  int
}

func NewPreviewLimiter(cfg config.Config) (*PreviewLimiter, error) {
	if !cfg.RateLimitEnabled {
		return nil, nil
	}

	if cfg.RateLimitRate <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, errors.New("preview rate limit must be positive")
	}

	limiter := &PreviewLimiter{
		enabled: true,
		rate:    cfg.RateLimitRate,
		burst:   int(cfg.RateLimitBurst),
	}

	// Without redis the bucket falls back to per-instance state, which is
	// good enough for single-node deployments.
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		limiter.local = newLocalBucket()
		return limiter, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})
	limiter.bucket = NewTokenBucket(client)
	return limiter, nil
}

func (l *PreviewLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *PreviewLimiter) Allow(ctx context.Context, clientIP string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}

	key := fmt.Sprintf(keyPreviewClient, strings.TrimSpace(clientIP))
	if l.local != nil {
		return l.local.Allow(key, l.rate, l.burst), nil
	}
	return l.bucket.Allow(ctx, key, l.rate, l.burst)
}
