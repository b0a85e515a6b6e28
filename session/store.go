package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidCredentials is returned by [Store.Login] when the directory
	// rejects the credentials, the lookup fails, or the lookup times out.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned by a [Directory] when no user matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrTokenMalformed is returned by a [Codec] for undecodable tokens.
	ErrTokenMalformed = errors.New("malformed session token")
	// ErrTokenExpired is returned by a [Codec] for tokens past their expiry.
	ErrTokenExpired = errors.New("session token expired")
	// ErrPersistFailed is returned by [Store.Login] when the token could not be written.
	ErrPersistFailed = errors.New("session token persist failed")
	// ErrStoreNotReady is returned when the store is missing a collaborator.
	ErrStoreNotReady = errors.New("session store not initialized")
)

// Reasons passed to [Hooks] callbacks.
const (
	ReasonUserNotFound = "user_not_found"
	ReasonEmptyRoles   = "empty_roles"
	ReasonLookupFailed = "lookup_failed"
	ReasonTimeout      = "timeout"
	ReasonCanceled     = "canceled"
	ReasonExpired      = "expired"
	ReasonMalformed    = "malformed"
	ReasonStorageRead  = "storage_read"
)

const (
	// DefaultTokenKey is the storage key holding the session token.
	DefaultTokenKey = "token"
	// DefaultLifetime is the fixed session lifetime.
	DefaultLifetime = time.Hour
	// DefaultLoginTimeout bounds a single directory lookup.
	DefaultLoginTimeout = 10 * time.Second
)

// Config tunes a [Store].
type Config struct {
	TokenKey     string
	Lifetime     time.Duration
	LoginTimeout time.Duration
	Now          func() time.Time
}

// Hooks lets the owner observe session transitions without this package
// importing it. Nil callbacks are ignored.
type Hooks struct {
	LoginSucceeded func(ctx context.Context, p *Principal)
	LoginFailed    func(ctx context.Context, email, reason string)
	LoggedOut      func(ctx context.Context)
	TokenDiscarded func(ctx context.Context, reason string)
	Warn           func(msg string, err error)
}

// Store is the single source of truth for who is logged in on one client.
// It holds no principal in memory; every read goes through storage.
type Store struct {
	storage   Storage
	codec     Codec
	directory Directory
	cfg       Config
	hooks     Hooks
}

// NewStore builds a store over the given client storage. Zero config fields
// fall back to the package defaults.
func NewStore(storage Storage, codec Codec, directory Directory, cfg Config) *Store {
	if cfg.TokenKey == "" {
		cfg.TokenKey = DefaultTokenKey
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = DefaultLifetime
	}
	if cfg.LoginTimeout <= 0 {
		cfg.LoginTimeout = DefaultLoginTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{
		storage:   storage,
		codec:     codec,
		directory: directory,
		cfg:       cfg,
	}
}

// WithHooks returns the store with hooks installed.
func (s *Store) WithHooks(h Hooks) *Store {
	s.hooks = h
	return s
}

// Login validates credentials with the directory and persists a fresh token.
// Every directory failure, including timeout, is reported as
// [ErrInvalidCredentials] and leaves storage untouched.
func (s *Store) Login(ctx context.Context, creds Credentials) (*Principal, error) {
	if s == nil || s.storage == nil || s.codec == nil || s.directory == nil {
		return nil, ErrStoreNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}
	email := strings.TrimSpace(creds.Email)

	if email == "" || creds.Password == "" {
		s.loginFailed(ctx, email, ReasonUserNotFound)
		return nil, ErrInvalidCredentials
	}

	rec, err := s.lookup(ctx, email, creds.Password)
	if err != nil {
		reason := ReasonLookupFailed
		switch {
		case errors.Is(err, ErrUserNotFound):
			reason = ReasonUserNotFound
		case errors.Is(err, context.DeadlineExceeded):
			reason = ReasonTimeout
		case errors.Is(err, context.Canceled):
			reason = ReasonCanceled
		}
		s.loginFailed(ctx, email, reason)
		if reason == ReasonUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, reason)
	}

	p := NewPrincipal(rec.ID, rec.DisplayName, rec.Roles, s.cfg.Now(), s.cfg.Lifetime)
	if len(p.Roles) == 0 {
		s.loginFailed(ctx, email, ReasonEmptyRoles)
		return nil, ErrInvalidCredentials
	}

	token, err := s.codec.Encode(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	if err := s.storage.Set(ctx, s.cfg.TokenKey, token); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	if s.hooks.LoginSucceeded != nil {
		s.hooks.LoginSucceeded(ctx, p)
	}
	return p.Clone(), nil
}

// lookup bounds the directory call by LoginTimeout even when the directory
// ignores its context.
func (s *Store) lookup(ctx context.Context, email, password string) (UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.LoginTimeout)
	defer cancel()

	type result struct {
		rec UserRecord
		err error
	}
	done := make(chan result, 1)
	go func() {
		rec, err := s.directory.Lookup(ctx, email, password)
		done <- result{rec: rec, err: err}
	}()

	select {
	case r := <-done:
		return r.rec, r.err
	case <-ctx.Done():
		return UserRecord{}, ctx.Err()
	}
}

// Logout removes the token. Calling it without a session is not an error.
func (s *Store) Logout(ctx context.Context) error {
	if s == nil || s.storage == nil {
		return ErrStoreNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.storage.Remove(ctx, s.cfg.TokenKey); err != nil {
		return err
	}
	if s.hooks.LoggedOut != nil {
		s.hooks.LoggedOut(ctx)
	}
	return nil
}

// Current returns the principal stored on this client, or false when there
// is none. Expired and undecodable tokens are removed on the way out.
func (s *Store) Current(ctx context.Context) (*Principal, bool) {
	if s == nil || s.storage == nil || s.codec == nil {
		return nil, false
	}
	if ctx == nil {
		ctx = context.Background()
	}

	raw, ok, err := s.storage.Get(ctx, s.cfg.TokenKey)
	if err != nil {
		s.warn("session: token read failed", err)
		s.discarded(ctx, ReasonStorageRead)
		return nil, false
	}
	if !ok || raw == "" {
		return nil, false
	}

	now := s.cfg.Now()
	p, err := s.codec.Decode(raw, now)
	switch {
	case err != nil && errors.Is(err, ErrTokenExpired):
		s.clear(ctx, ReasonExpired)
		return nil, false
	case err != nil:
		s.clear(ctx, ReasonMalformed)
		return nil, false
	case p == nil || len(p.Roles) == 0:
		s.clear(ctx, ReasonMalformed)
		return nil, false
	case !p.ExpiresAt.After(now):
		s.clear(ctx, ReasonExpired)
		return nil, false
	}

	return p, true
}

// IsAuthenticated is Current reduced to a boolean.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.Current(ctx)
	return ok
}

// Lifetime reports the configured session lifetime.
func (s *Store) Lifetime() time.Duration {
	return s.cfg.Lifetime
}

func (s *Store) clear(ctx context.Context, reason string) {
	if err := s.storage.Remove(ctx, s.cfg.TokenKey); err != nil {
		s.warn("session: stale token removal failed", err)
	}
	s.discarded(ctx, reason)
}

func (s *Store) discarded(ctx context.Context, reason string) {
	if s.hooks.TokenDiscarded != nil {
		s.hooks.TokenDiscarded(ctx, reason)
	}
}

func (s *Store) loginFailed(ctx context.Context, email, reason string) {
	if s.hooks.LoginFailed != nil {
		s.hooks.LoginFailed(ctx, email, reason)
	}
}

func (s *Store) warn(msg string, err error) {
	if s.hooks.Warn != nil {
		s.hooks.Warn(msg, err)
	}
}
