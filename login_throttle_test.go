package goGate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goGate/storage/memory"
)

func newThrottledEngine(t *testing.T, maxAttempts int) (*Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := testConfig()
	cfg.Login.MaxAttempts = maxAttempts
	cfg.Login.Cooldown = time.Minute
	cfg.Login.ThrottleByIP = true

	engine, err := New().WithConfig(cfg).WithRedis(rdb).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, mr
}

func TestLoginThrottleBlocksAfterFailures(t *testing.T) {
	engine, mr := newThrottledEngine(t, 2)
	ctx := WithClientIP(context.Background(), "203.0.113.5")

	sessions, err := engine.Sessions(memory.New(nil))
	if err != nil {
		t.Fatalf("sessions failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := sessions.Login(ctx, Credentials{Email: "admin@example.com", Password: "wrong-pass"}); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	// The right password is refused while the window is open.
	if _, err := sessions.Login(ctx, Credentials{Email: "admin@example.com", Password: "admin123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected throttled login to fail, got %v", err)
	}
	if got := engine.MetricsSnapshot().Counters[MetricLoginThrottled]; got != 1 {
		t.Fatalf("expected one throttled login, got %d", got)
	}

	mr.FastForward(time.Minute + time.Second)
	if _, err := sessions.Login(ctx, Credentials{Email: "admin@example.com", Password: "admin123"}); err != nil {
		t.Fatalf("expected login after cooldown, got %v", err)
	}
}

func TestLoginThrottleResetsOnSuccess(t *testing.T) {
	engine, mr := newThrottledEngine(t, 3)
	ctx := context.Background()

	sessions, _ := engine.Sessions(memory.New(nil))
	_, _ = sessions.Login(ctx, Credentials{Email: "user@example.com", Password: "wrong-pass"})
	if _, err := sessions.Login(ctx, Credentials{Email: "user@example.com", Password: "user123"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if mr.Exists("gg:rl:login:user@example.com") {
		t.Fatal("expected failure counter cleared after success")
	}
}

func TestBuildRequiresRedisForThrottle(t *testing.T) {
	cfg := testConfig()
	cfg.Login.MaxAttempts = 5
	if _, err := New().WithConfig(cfg).Build(); !errors.Is(err, ErrRedisRequired) {
		t.Fatalf("expected ErrRedisRequired, got %v", err)
	}
}

func TestSecurityReportShowsThrottle(t *testing.T) {
	engine, _ := newThrottledEngine(t, 4)
	r := engine.SecurityReport()
	if !r.LoginThrottle || r.LoginMaxAttempts != 4 {
		t.Fatalf("expected throttle with 4 attempts, got %+v", r)
	}
}
