package rate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds login throttle tuning parameters.
type Config struct {
	Prefix      string
	MaxAttempts int
	Cooldown    time.Duration
	PerIP       bool
}

// Limiter counts failed logins per email, and optionally per IP, in Redis
// fixed windows.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	if cfg.Prefix == "" {
		cfg.Prefix = "gg"
	}
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// Check returns [ErrRateLimited] when the email or IP has used up its
// failure budget for the current window.
func (l *Limiter) Check(ctx context.Context, email, ip string) error {
	if err := l.checkCounter(ctx, l.emailKey(email)); err != nil {
		return err
	}

	if l.config.PerIP && ip != "" {
		if err := l.checkCounter(ctx, l.ipKey(ip)); err != nil {
			return err
		}
	}

	return nil
}

// RecordFailure counts one rejected login.
func (l *Limiter) RecordFailure(ctx context.Context, email, ip string) error {
	if _, err := l.incrementWithTTL(ctx, l.emailKey(email)); err != nil {
		return err
	}

	if l.config.PerIP && ip != "" {
		if _, err := l.incrementWithTTL(ctx, l.ipKey(ip)); err != nil {
			return err
		}
	}

	return nil
}

// Reset clears the email counter after a successful login. The IP counter
// is left to expire so one valid account cannot unlock guessing at others.
func (l *Limiter) Reset(ctx context.Context, email string) error {
	if err := l.redis.Del(ctx, l.emailKey(email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Attempts returns the current failure count for email.
func (l *Limiter) Attempts(ctx context.Context, email string) (int, error) {
	count, err := l.redis.Get(ctx, l.emailKey(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

func (l *Limiter) emailKey(email string) string {
	return l.config.Prefix + ":rl:login:" + strings.ToLower(strings.TrimSpace(email))
}

func (l *Limiter) ipKey(ip string) string {
	return l.config.Prefix + ":rl:ip:" + ip
}

func (l *Limiter) checkCounter(ctx context.Context, key string) error {
	count, err := l.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count >= int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}

	return nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed window: the first hit starts the cooldown.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Cooldown).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}
