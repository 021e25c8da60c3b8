package auth

import (
	"context"
	"sync"
	"time"
)

// LoginLimiter tracks failed login attempts per identifier (email)
// and enforces a lockout window. Implementations must be safe for
// concurrent use; the limiter map is the only cross-request mutable
// state in the process.
type LoginLimiter interface {
	// RecordFailure registers a failed attempt at the current time.
	RecordFailure(ctx context.Context, id string)
	// IsLocked reports whether the identifier is currently locked
	// out. The lockout is a sliding window measured from the most
	// recent failure, not the first.
	IsLocked(ctx context.Context, id string) bool
	// RemainingLockout returns the seconds left in the lockout
	// window, or 0 when not locked.
	RemainingLockout(ctx context.Context, id string) int
	// Clear forgets the identifier. Called on successful login.
	Clear(ctx context.Context, id string)
}

// loginAttempts is the per-identifier tracking state.
type loginAttempts struct {
	count       int
	lastAttempt time.Time
}

// MemoryLoginLimiter is the default in-process limiter: a
// mutex-guarded map keyed by login identifier. State is not
// persisted and resets on process restart, an accepted trade-off
// for single-instance deployments.
type MemoryLoginLimiter struct {
	mu          sync.Mutex
	attempts    map[string]loginAttempts
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// NewMemoryLoginLimiter builds a limiter locking an identifier after
// maxAttempts failures within the sliding window.
func NewMemoryLoginLimiter(maxAttempts int, window time.Duration) *MemoryLoginLimiter {
	return &MemoryLoginLimiter{
		attempts:    make(map[string]loginAttempts),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

func (l *MemoryLoginLimiter) RecordFailure(_ context.Context, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	a, ok := l.attempts[id]
	if !ok || now.Sub(a.lastAttempt) > l.window {
		// First failure, or the previous window went stale.
		l.attempts[id] = loginAttempts{count: 1, lastAttempt: now}
		return
	}
	a.count++
	a.lastAttempt = now
	l.attempts[id] = a
}

func (l *MemoryLoginLimiter) IsLocked(_ context.Context, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.attempts[id]
	if !ok {
		return false
	}
	return a.count >= l.maxAttempts && l.now().Sub(a.lastAttempt) <= l.window
}

func (l *MemoryLoginLimiter) RemainingLockout(ctx context.Context, id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.attempts[id]
	if !ok || a.count < l.maxAttempts {
		return 0
	}
	remaining := l.window - l.now().Sub(a.lastAttempt)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds())
}

func (l *MemoryLoginLimiter) Clear(_ context.Context, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, id)
}
