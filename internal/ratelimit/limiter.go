// Package ratelimit provides short-lived one-shot keys used to throttle
// actions like OTP resends. The redis backend shares state across instances;
// the memory backend is for single-process deployments and tests.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter interface {
	// Acquire takes the key for ttl. It returns false when the key is still
	// held from a previous call, i.e. the action is on cooldown.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type redisLimiter struct {
	client *redis.Client
}

var _ Limiter = (*redisLimiter)(nil)

func NewRedisLimiter(redisURL string) (*redisLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &redisLimiter{client: redis.NewClient(opts)}, nil
}

func (l *redisLimiter) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, "ratelimit:"+key, 1, ttl).Result()
}

type memoryLimiter struct {
	mu      sync.Mutex
	expires map[string]time.Time
}

var _ Limiter = (*memoryLimiter)(nil)

func NewMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{expires: make(map[string]time.Time)}
}

func (l *memoryLimiter) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if exp, ok := l.expires[key]; ok && now.Before(exp) {
		return false, nil
	}

	// drop whatever else has expired while we hold the lock
	for k, exp := range l.expires {
		if !now.Before(exp) {
			delete(l.expires, k)
		}
	}

	l.expires[key] = now.Add(ttl)
	return true, nil
}
