package auth

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLoginLimiter implements LoginLimiter on a shared Redis
// instance so lockout state survives restarts and is shared across
// replicas. Every failure refreshes the key TTL to the lockout
// window, which gives the same sliding-window semantics as the
// in-memory limiter: the counter only expires once the window has
// elapsed since the most recent failure.
//
// Redis errors degrade open: an unreachable Redis never blocks
// logins, it only suspends the throttle.
type RedisLoginLimiter struct {
	rdb         *redis.Client
	maxAttempts int
	window      time.Duration
	prefix      string
}

func NewRedisLoginLimiter(rdb *redis.Client, maxAttempts int, window time.Duration) *RedisLoginLimiter {
	return &RedisLoginLimiter{
		rdb:         rdb,
		maxAttempts: maxAttempts,
		window:      window,
		prefix:      "login_attempts:",
	}
}

func (l *RedisLoginLimiter) key(id string) string { return l.prefix + id }

func (l *RedisLoginLimiter) RecordFailure(ctx context.Context, id string) {
	pipe := l.rdb.TxPipeline()
	pipe.Incr(ctx, l.key(id))
	pipe.Expire(ctx, l.key(id), l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("warn: login limiter: record failure for %q: %v", id, err)
	}
}

func (l *RedisLoginLimiter) IsLocked(ctx context.Context, id string) bool {
	n, err := l.rdb.Get(ctx, l.key(id)).Int()
	if err != nil {
		if err != redis.Nil {
			log.Printf("warn: login limiter: read count for %q: %v", id, err)
		}
		return false
	}
	return n >= l.maxAttempts
}

func (l *RedisLoginLimiter) RemainingLockout(ctx context.Context, id string) int {
	if !l.IsLocked(ctx, id) {
		return 0
	}
	ttl, err := l.rdb.TTL(ctx, l.key(id)).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return int(ttl.Seconds())
}

func (l *RedisLoginLimiter) Clear(ctx context.Context, id string) {
	if err := l.rdb.Del(ctx, l.key(id)).Err(); err != nil {
		log.Printf("warn: login limiter: clear %q: %v", id, err)
	}
}
