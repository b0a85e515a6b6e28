package guard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/MrEthical07/goGate/policy"
	"github.com/MrEthical07/goGate/session"
)

// Sessions is the subset of [session.Store] the guard needs.
type Sessions interface {
	Current(ctx context.Context) (*session.Principal, bool)
	Login(ctx context.Context, creds session.Credentials) (*session.Principal, error)
	Logout(ctx context.Context) error
}

// RedirectOptions control how the navigator changes the visible view.
type RedirectOptions struct {
	// ReplaceHistory replaces the current history entry instead of pushing.
	ReplaceHistory bool
	// RememberOriginalPath is the path login should return to, if any.
	RememberOriginalPath string
}

// Navigator is the guard's only way to change the visible view.
type Navigator interface {
	Redirect(ctx context.Context, path string, opts RedirectOptions) error
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(ctx context.Context, path string, opts RedirectOptions) error

// Redirect calls f.
func (f NavigatorFunc) Redirect(ctx context.Context, path string, opts RedirectOptions) error {
	return f(ctx, path, opts)
}

// State is the client's position in the access state machine.
type State int

const (
	Unauthenticated State = iota
	AuthenticatedNoAccess
	AuthenticatedAccess
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AuthenticatedNoAccess:
		return "authenticated_no_access"
	case AuthenticatedAccess:
		return "authenticated_access"
	default:
		return "unknown"
	}
}

// Outcome describes what the guard did for one event.
type Outcome struct {
	Path       string
	Decision   policy.Decision
	Render     bool
	RedirectTo string
	Stale      bool
	Principal  *session.Principal
}

// Config names the well-known routes. Zero fields take the policy defaults.
type Config struct {
	LoginPath        string
	AccessDeniedPath string
	HomePath         string
}

// Hooks observe guard events. Nil callbacks are ignored.
type Hooks struct {
	Decided        func(ctx context.Context, path string, d policy.Decision, p *session.Principal)
	LoginDiscarded func(ctx context.Context)
}

// Guard enforces route requirements for one client. It is safe for
// concurrent use.
type Guard struct {
	sessions Sessions
	table    *policy.Table
	nav      Navigator
	cfg      Config
	hooks    Hooks

	generation atomic.Uint64
	logins     atomic.Uint64

	mu         sync.Mutex
	state      State
	remembered string
}

// New builds a guard.
func New(sessions Sessions, table *policy.Table, nav Navigator, cfg Config) *Guard {
	if cfg.LoginPath == "" {
		cfg.LoginPath = policy.LoginPath
	}
	if cfg.AccessDeniedPath == "" {
		cfg.AccessDeniedPath = policy.AccessDeniedPath
	}
	if cfg.HomePath == "" {
		cfg.HomePath = policy.HomePath
	}
	return &Guard{
		sessions: sessions,
		table:    table,
		nav:      nav,
		cfg:      cfg,
		state:    Unauthenticated,
	}
}

// WithHooks installs hooks and returns the guard.
func (g *Guard) WithHooks(h Hooks) *Guard {
	g.hooks = h
	return g
}

// Navigate handles a navigation to path.
func (g *Guard) Navigate(ctx context.Context, path string) (Outcome, error) {
	g.generation.Add(1)
	path = policy.CleanPath(path)

	p, _ := g.sessions.Current(ctx)
	req, ok := g.table.Lookup(path)
	if !ok {
		req = policy.Requirement{Path: path}
	}
	d := policy.Evaluate(p, req)
	g.decided(ctx, path, d, p)

	out := Outcome{Path: path, Decision: d, Principal: p}
	var opts RedirectOptions

	g.mu.Lock()
	switch d {
	case policy.Allow:
		out.Render = true
		g.state = stateFor(p)
	case policy.RedirectToLogin:
		g.state = Unauthenticated
		g.remembered = path
		out.RedirectTo = g.cfg.LoginPath
		opts = RedirectOptions{ReplaceHistory: true, RememberOriginalPath: path}
	default:
		g.state = AuthenticatedNoAccess
		out.RedirectTo = g.cfg.AccessDeniedPath
		opts = RedirectOptions{ReplaceHistory: true}
	}
	g.mu.Unlock()

	if out.Render {
		return out, nil
	}
	return out, g.redirect(ctx, out.RedirectTo, opts)
}

// Remember sets the path a later successful login returns to. HTTP adapters
// use it to restore the path carried by the login form.
func (g *Guard) Remember(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.remembered = g.safeReturn(path)
}

// Login authenticates and, unless a navigation happened meanwhile, redirects
// to the remembered path or home. Failures leave the state Unauthenticated.
// A login overtaken by a navigation or logout is discarded: its token is
// removed, State is left as the navigation set it, and no redirect is made.
func (g *Guard) Login(ctx context.Context, creds session.Credentials) (Outcome, error) {
	gen := g.generation.Load()
	seq := g.logins.Add(1)

	p, err := g.sessions.Login(ctx, creds)
	if gen != g.generation.Load() {
		if g.hooks.LoginDiscarded != nil {
			g.hooks.LoginDiscarded(ctx)
		}
		// The token was already written; remove it unless a later login
		// owns the storage now.
		if err == nil && seq == g.logins.Load() {
			if lerr := g.sessions.Logout(ctx); lerr != nil {
				return Outcome{Stale: true}, fmt.Errorf("guard: discard stale login: %w", lerr)
			}
		}
		return Outcome{Stale: true}, nil
	}
	if err != nil {
		g.mu.Lock()
		g.state = Unauthenticated
		g.mu.Unlock()
		return Outcome{Path: g.cfg.LoginPath, Decision: policy.RedirectToLogin}, err
	}

	g.mu.Lock()
	target := g.safeReturn(g.remembered)
	g.remembered = ""
	g.mu.Unlock()

	req, ok := g.table.Lookup(target)
	if !ok {
		req = policy.Requirement{Path: target}
	}
	d := policy.Evaluate(p, req)
	g.decided(ctx, target, d, p)

	out := Outcome{Path: target, Decision: d, Principal: p, RedirectTo: target}
	state := AuthenticatedAccess
	if d != policy.Allow {
		state = AuthenticatedNoAccess
		out.RedirectTo = g.cfg.AccessDeniedPath
	}
	g.mu.Lock()
	g.state = state
	g.mu.Unlock()

	return out, g.redirect(ctx, out.RedirectTo, RedirectOptions{ReplaceHistory: true})
}

// Logout ends the session and redirects to login.
func (g *Guard) Logout(ctx context.Context) (Outcome, error) {
	g.generation.Add(1)
	if err := g.sessions.Logout(ctx); err != nil {
		return Outcome{}, err
	}

	g.mu.Lock()
	g.state = Unauthenticated
	g.remembered = ""
	g.mu.Unlock()

	out := Outcome{Path: g.cfg.LoginPath, Decision: policy.RedirectToLogin, RedirectTo: g.cfg.LoginPath}
	return out, g.redirect(ctx, g.cfg.LoginPath, RedirectOptions{ReplaceHistory: true})
}

// State reports the state after the most recent event.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// RememberedPath reports the path login will return to.
func (g *Guard) RememberedPath() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remembered
}

// Menu returns the navigation entries visible to the current principal.
func (g *Guard) Menu(ctx context.Context) []policy.Requirement {
	p, _ := g.sessions.Current(ctx)
	return policy.FilterVisible(p, g.table.Menu())
}

func (g *Guard) redirect(ctx context.Context, path string, opts RedirectOptions) error {
	if g.nav == nil {
		return nil
	}
	if err := g.nav.Redirect(ctx, path, opts); err != nil {
		return fmt.Errorf("guard: redirect to %s: %w", path, err)
	}
	return nil
}

func (g *Guard) decided(ctx context.Context, path string, d policy.Decision, p *session.Principal) {
	if g.hooks.Decided != nil {
		g.hooks.Decided(ctx, path, d, p)
	}
}

// safeReturn keeps login from returning to itself, to the access-denied
// view, or off-site.
func (g *Guard) safeReturn(path string) string {
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return g.cfg.HomePath
	}
	path = policy.CleanPath(path)
	if path == g.cfg.LoginPath || path == g.cfg.AccessDeniedPath {
		return g.cfg.HomePath
	}
	return path
}

func stateFor(p *session.Principal) State {
	if p == nil {
		return Unauthenticated
	}
	return AuthenticatedAccess
}
