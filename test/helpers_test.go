package test

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/storage/redisstore"
)

func testConfig() goGate.Config {
	cfg := goGate.DefaultConfig()
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	return cfg
}

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

func newEngine(t *testing.T, cfg goGate.Config) *goGate.Engine {
	t.Helper()
	engine, err := goGate.New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

// clientStorage is the storage of one browser profile kept in Redis.
func clientStorage(rdb redis.UniversalClient, clientID string) *redisstore.Storage {
	return redisstore.New(rdb, "gg", clientID, 0)
}

type navigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *navigator) Redirect(_ context.Context, path string, _ goGate.RedirectOptions) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
	return nil
}

func (n *navigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}
