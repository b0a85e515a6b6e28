// Package redisstore provides a session.Storage backed by Redis. Each client gets
// its own key namespace so one Redis instance can hold many browser sessions.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable wraps every Redis transport failure.
var ErrUnavailable = errors.New("redis unavailable")

// Storage is a session.Storage over one client's namespace.
type Storage struct {
	redis  redis.UniversalClient
	prefix string
	client string
	ttl    time.Duration
}

// New binds a storage to clientID. Values expire after ttl; zero keeps them
// until removed.
func New(client redis.UniversalClient, prefix, clientID string, ttl time.Duration) *Storage {
	if prefix == "" {
		prefix = "gg"
	}
	return &Storage{
		redis:  client,
		prefix: prefix,
		client: clientID,
		ttl:    ttl,
	}
}

func (s *Storage) key(key string) string {
	return s.prefix + ":" + s.client + ":" + key
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.redis.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return v, true, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	if err := s.redis.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Clear removes every key of this client. It scans the namespace, so keep it
// off request hot paths.
func (s *Storage) Clear(ctx context.Context) error {
	pattern := s.prefix + ":" + s.client + ":*"
	var cursor uint64
	for {
		keys, next, err := s.redis.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if len(keys) > 0 {
			if err := s.redis.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Storage) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return time.Since(start), nil
}
