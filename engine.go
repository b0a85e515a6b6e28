package goGate

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goGate/guard"
	"github.com/MrEthical07/goGate/internal/audit"
	"github.com/MrEthical07/goGate/policy"
	"github.com/MrEthical07/goGate/preferences"
	"github.com/MrEthical07/goGate/session"
	"go.uber.org/zap"
)

// Engine holds the process-wide pieces of the access layer: configuration,
// the frozen route table, the user directory and token codec, plus audit,
// metrics and logging. Per-client state lives in the session stores and
// guards it hands out. An Engine is safe for concurrent use.
type Engine struct {
	config    Config
	table     *policy.Table
	directory session.Directory
	codec     session.Codec
	audit     *audit.Dispatcher
	metrics   *Metrics
	logger    *zap.Logger
	closed    atomic.Bool
}

// Sessions returns a session store over one client's storage.
func (e *Engine) Sessions(storage session.Storage) (*session.Store, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if storage == nil {
		return nil, ErrStorageRequired
	}
	store := session.NewStore(storage, e.codec, e.directory, session.Config{
		TokenKey:     e.config.Session.TokenKey,
		Lifetime:     e.config.Session.Lifetime,
		LoginTimeout: e.config.Login.Timeout,
	})
	return store.WithHooks(e.sessionHooks()), nil
}

// Guard returns a route guard for one client. Redirects go through nav.
func (e *Engine) Guard(storage session.Storage, nav guard.Navigator) (*guard.Guard, error) {
	sessions, err := e.Sessions(storage)
	if err != nil {
		return nil, err
	}
	if nav == nil {
		return nil, ErrNavigatorRequired
	}
	g := guard.New(sessions, e.table, nav, guard.Config{
		LoginPath:        e.config.Routes.LoginPath,
		AccessDeniedPath: e.config.Routes.AccessDeniedPath,
		HomePath:         e.config.Routes.HomePath,
	})
	return g.WithHooks(guard.Hooks{
		Decided:        e.recordDecision,
		LoginDiscarded: e.loginDiscarded,
	}), nil
}

// Preferences returns the dashboard layout store over one client's storage.
func (e *Engine) Preferences(storage session.Storage) (*preferences.Store, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if storage == nil {
		return nil, ErrStorageRequired
	}
	return preferences.NewStore(storage, func(msg string, err error) {
		e.logger.Warn(msg, zap.Error(err))
	}), nil
}

// Evaluate decides whether p may render path. It does not redirect; use a
// Guard for that.
func (e *Engine) Evaluate(ctx context.Context, p *session.Principal, path string) Decision {
	if e == nil || e.table == nil {
		return policy.RedirectToLogin
	}

	var start time.Time
	if e.metrics.LatencyEnabled() {
		start = time.Now()
	}

	req, ok := e.table.Lookup(path)
	if !ok {
		req = policy.Requirement{Path: path}
	}
	d := policy.Evaluate(p, req)

	if !start.IsZero() {
		e.metrics.Observe(MetricEvaluateLatency, time.Since(start))
	}
	e.recordDecision(ctx, policy.CleanPath(path), d, p)
	return d
}

// Menu returns the navigation entries p may see.
func (e *Engine) Menu(p *session.Principal) []policy.Requirement {
	if e == nil || e.table == nil {
		return nil
	}
	return policy.FilterVisible(p, e.table.Menu())
}

// Routes returns every registered route.
func (e *Engine) Routes() []policy.Requirement {
	if e == nil || e.table == nil {
		return nil
	}
	return e.table.Routes()
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	if e == nil {
		return Config{}
	}
	return cloneConfig(e.config)
}

// Logger returns the engine logger.
func (e *Engine) Logger() *zap.Logger {
	if e == nil || e.logger == nil {
		return zap.NewNop()
	}
	return e.logger
}

// AuditDropped returns the number of audit events lost to backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// AuditStats reports audit delivery counters.
func (e *Engine) AuditStats() AuditStats {
	if e == nil {
		return AuditStats{}
	}
	return e.audit.Stats()
}

// MetricsSnapshot returns a copy of all counters. It is empty when metrics
// are disabled.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Close flushes pending audit events. Stores and guards handed out earlier
// keep working; new ones are refused.
func (e *Engine) Close() {
	if e == nil || !e.closed.CompareAndSwap(false, true) {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
	_ = e.logger.Sync()
}

func (e *Engine) ready() error {
	if e == nil || e.codec == nil || e.directory == nil || e.table == nil {
		return ErrEngineNotReady
	}
	if e.closed.Load() {
		return ErrEngineClosed
	}
	return nil
}
