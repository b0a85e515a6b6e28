// Command gogate-loadtest signs in a population of browser clients against
// Redis-backed session storage and then hammers session reload and route
// evaluation from many goroutines.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/directory"
	"github.com/MrEthical07/goGate/session"
	"github.com/MrEthical07/goGate/storage/redisstore"
)

var paths = []string{"/", "/employees", "/emails", "/files", "/settings", "/login", "/employees/42", "/unknown"}

type browser struct {
	store     *session.Store
	principal *session.Principal
}

type options struct {
	clients   int
	workers   int
	ops       int
	redisAddr string
	prefix    string
}

func main() {
	var o options
	flag.IntVar(&o.clients, "clients", 300, "signed-in browsers to simulate")
	flag.IntVar(&o.workers, "concurrency", 256, "concurrent workers per phase")
	flag.IntVar(&o.ops, "ops", 200000, "operations per phase")
	flag.StringVar(&o.redisAddr, "redis-addr", os.Getenv("REDIS_ADDR"), "redis address; miniredis when empty")
	flag.StringVar(&o.prefix, "prefix", "gg", "storage key prefix")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	if o.clients <= 0 || o.workers <= 0 || o.ops <= 0 {
		logger.Error("clients, concurrency and ops must be positive")
		os.Exit(2)
	}
	if err := run(context.Background(), logger, o); err != nil {
		logger.Fatal("load test failed", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, o options) error {
	rdb, closeRedis, err := connect(o.redisAddr)
	if err != nil {
		return err
	}
	defer closeRedis()

	cfg := goGate.DefaultConfig()
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Metrics.EnableLatencyHistograms = true
	cfg.Audit.Enabled = false

	engine, err := goGate.New().WithConfig(cfg).WithLogger(logger).Build()
	if err != nil {
		return fmt.Errorf("engine build: %w", err)
	}
	defer engine.Close()

	started := time.Now()
	browsers, err := signIn(ctx, engine, rdb, o, cfg.Session.Lifetime)
	if err != nil {
		return err
	}
	logger.Info("clients signed in", zap.Int("clients", len(browsers)), zap.Duration("took", time.Since(started).Round(time.Millisecond)))

	reload := phase{name: "current", ops: o.ops, workers: o.workers}.run(func(r *rand.Rand) bool {
		_, ok := browsers[r.IntN(len(browsers))].store.Current(ctx)
		return ok
	})
	evaluate := phase{name: "evaluate", ops: o.ops, workers: o.workers}.run(func(r *rand.Rand) bool {
		b := browsers[r.IntN(len(browsers))]
		engine.Evaluate(ctx, b.principal, paths[r.IntN(len(paths))])
		return true
	})

	for _, res := range []result{reload, evaluate} {
		logger.Info("phase done",
			zap.String("phase", res.name),
			zap.Int("ops", res.ops),
			zap.Int64("failures", res.failures),
			zap.Duration("total", res.total.Round(time.Millisecond)),
			zap.Float64("ops_per_sec", res.rate()),
			zap.Duration("p50", res.quantile(0.50)),
			zap.Duration("p95", res.quantile(0.95)),
			zap.Duration("p99", res.quantile(0.99)),
		)
	}

	snap := engine.MetricsSnapshot()
	logger.Info("decisions",
		zap.Uint64("allow", snap.Counters[goGate.MetricDecisionAllow]),
		zap.Uint64("redirect_to_login", snap.Counters[goGate.MetricDecisionLogin]),
		zap.Uint64("redirect_to_access_denied", snap.Counters[goGate.MetricDecisionDenied]),
	)
	return nil
}

func connect(addr string) (redis.UniversalClient, func(), error) {
	if addr != "" {
		rdb := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		return rdb, func() { _ = rdb.Close() }, nil
	}
	mr, err := miniredis.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("start miniredis: %w", err)
	}
	rdb := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	return rdb, func() {
		_ = rdb.Close()
		mr.Close()
	}, nil
}

// signIn gives each browser its own storage namespace and logs it in as one
// of the console users, round robin.
func signIn(ctx context.Context, engine *goGate.Engine, rdb redis.UniversalClient, o options, ttl time.Duration) ([]browser, error) {
	users := directory.ConsoleUsers()
	out := make([]browser, o.clients)
	for i := range out {
		store, err := engine.Sessions(redisstore.New(rdb, o.prefix, uuid.NewString(), ttl))
		if err != nil {
			return nil, fmt.Errorf("sessions: %w", err)
		}
		u := users[i%len(users)]
		p, err := store.Login(ctx, session.Credentials{Email: u.Email, Password: u.Password})
		if err != nil {
			return nil, fmt.Errorf("login %s: %w", u.Email, err)
		}
		out[i] = browser{store: store, principal: p}
	}
	return out, nil
}

type phase struct {
	name    string
	ops     int
	workers int
}

type result struct {
	name     string
	ops      int
	failures int64
	total    time.Duration
	samples  []time.Duration
}

// run shares p.ops calls of op among p.workers goroutines. Each worker keeps
// its own samples; they are merged once all workers stop.
func (p phase) run(op func(*rand.Rand) bool) result {
	var (
		next     atomic.Int64
		failures atomic.Int64
		wg       sync.WaitGroup
	)
	perWorker := make([][]time.Duration, p.workers)

	start := time.Now()
	for w := range perWorker {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(w)))
			for next.Add(1) <= int64(p.ops) {
				t0 := time.Now()
				if !op(r) {
					failures.Add(1)
				}
				perWorker[w] = append(perWorker[w], time.Since(t0))
			}
		}()
	}
	wg.Wait()

	res := result{name: p.name, failures: failures.Load(), total: time.Since(start)}
	for _, s := range perWorker {
		res.samples = append(res.samples, s...)
	}
	slices.Sort(res.samples)
	res.ops = len(res.samples)
	return res
}

func (r result) rate() float64 {
	if r.total <= 0 {
		return 0
	}
	return float64(r.ops) / r.total.Seconds()
}

// quantile returns the nearest-rank sample at q in [0, 1].
func (r result) quantile(q float64) time.Duration {
	if len(r.samples) == 0 {
		return 0
	}
	idx := int(q * float64(len(r.samples)-1))
	idx = max(0, min(idx, len(r.samples)-1))
	return r.samples[idx].Round(time.Microsecond)
}
