package middleware

import (
	"context"
	"fmt"
	"log"
	"time"
)

// AttemptStore is the Redis surface used for failed-login counters
type AttemptStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// BruteForceProtection handles brute force protection using Redis.
// A nil *BruteForceProtection never locks anyone out.
type BruteForceProtection struct {
	store AttemptStore
	scope string
}

// NewBruteForceProtection creates a protection whose counters are namespaced by scope
func NewBruteForceProtection(store AttemptStore, scope string) *BruteForceProtection {
	return &BruteForceProtection{
		store: store,
		scope: scope,
	}
}

func (b *BruteForceProtection) keys(ip string) (attemptKey, lockKey string) {
	return fmt.Sprintf("brute_force:%s:attempts:%s", b.scope, ip),
		fmt.Sprintf("brute_force:%s:lock:%s", b.scope, ip)
}

// LockedFor reports how long the IP remains locked out, or zero
func (b *BruteForceProtection) LockedFor(ctx context.Context, ip string) time.Duration {
	if b == nil {
		return 0
	}
	_, lockKey := b.keys(ip)

	locked, err := b.store.Exists(ctx, lockKey)
	if err != nil || !locked {
		// Redis being down must not block legitimate users
		return 0
	}

	ttl, err := b.store.TTL(ctx, lockKey)
	if err != nil || ttl <= 0 {
		return time.Minute
	}
	return ttl
}

// LockoutFor is the lockout applied after the given number of failures
func LockoutFor(attempts int64) time.Duration {
	switch {
	case attempts >= 25:
		return 24 * time.Hour
	case attempts >= 10:
		return time.Hour
	case attempts >= 5:
		return 2 * time.Minute
	}
	return 0
}

// RecordFailedAttempt records a failed login attempt and applies progressive lockouts
func (b *BruteForceProtection) RecordFailedAttempt(ctx context.Context, ip string) {
	if b == nil {
		return
	}
	attemptKey, lockKey := b.keys(ip)

	attempts, err := b.store.Increment(ctx, attemptKey)
	if err != nil {
		return
	}

	// Attempts are counted over a 15 minute window
	if attempts == 1 {
		if err := b.store.Expire(ctx, attemptKey, 15*time.Minute); err != nil {
			log.Printf("Failed to set attempt window: %v", err)
		}
	}

	if lock := LockoutFor(attempts); lock > 0 {
		if err := b.store.Set(ctx, lockKey, "locked", lock); err != nil {
			log.Printf("Failed to lock out %s: %v", ip, err)
		}
	}
}

// RecordSuccessfulAttempt clears failed attempts on successful login
func (b *BruteForceProtection) RecordSuccessfulAttempt(ctx context.Context, ip string) {
	if b == nil {
		return
	}
	attemptKey, lockKey := b.keys(ip)
	if err := b.store.Delete(ctx, attemptKey, lockKey); err != nil {
		log.Printf("Failed to clear login attempts: %v", err)
	}
}

// LockoutMessage is shown on the login form while an IP is locked out
func LockoutMessage(d time.Duration) string {
	return fmt.Sprintf("Too many failed attempts. Try again in %d seconds.", int(d.Round(time.Second).Seconds()))
}
