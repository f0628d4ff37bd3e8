package cache

import (
	"context"
	"errors"
	"time"
)

const sessionOpTimeout = 3 * time.Second

// SessionStorage stores fiber sessions in Redis. It implements fiber.Storage.
type SessionStorage struct {
	cache  *RedisCache
	prefix string
}

// NewSessionStorage creates a session storage; keys are namespaced with prefix
func NewSessionStorage(cache *RedisCache, prefix string) *SessionStorage {
	if prefix == "" {
		prefix = "session:"
	}
	return &SessionStorage{cache: cache, prefix: prefix}
}

// Get returns nil, nil for a missing key, as fiber.Storage requires
func (s *SessionStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), sessionOpTimeout)
	defer cancel()

	val, err := s.cache.GetBytes(ctx, s.prefix+key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return val, err
}

func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), sessionOpTimeout)
	defer cancel()

	return s.cache.Set(ctx, s.prefix+key, val, exp)
}

func (s *SessionStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), sessionOpTimeout)
	defer cancel()

	return s.cache.Delete(ctx, s.prefix+key)
}

// Reset removes every session
func (s *SessionStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), sessionOpTimeout)
	defer cancel()

	keys, err := s.cache.Keys(ctx, s.prefix+"*")
	if err != nil {
		return err
	}
	return s.cache.Delete(ctx, keys...)
}

// Close is a no-op; the Redis client is shared and closed by its owner
func (s *SessionStorage) Close() error {
	return nil
}
