package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/session"
)

// ErrDuplicateEmail is returned by [Memory.Add] when the email is taken.
var ErrDuplicateEmail = errors.New("email already registered")

// User is a directory entry before hashing.
type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	Roles       []string
	AvatarURL   string
}

type entry struct {
	record session.UserRecord
	hash   string
}

var _ session.Directory = (*Memory)(nil)

// Memory is a mutex-guarded directory keyed by normalized email.
type Memory struct {
	hasher  *password.Argon2
	latency time.Duration

	mu    sync.RWMutex
	users map[string]entry
}

// Option configures a [Memory] directory.
type Option func(*Memory)

// WithLatency delays every lookup, honoring context cancellation.
func WithLatency(d time.Duration) Option {
	return func(m *Memory) { m.latency = d }
}

// NewMemory creates an empty directory hashing with hasher.
func NewMemory(hasher *password.Argon2, opts ...Option) *Memory {
	m := &Memory{
		hasher: hasher,
		users:  make(map[string]entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Add hashes the user's password and stores the entry. An empty ID is
// replaced with a random UUID.
func (m *Memory) Add(u User) (session.UserRecord, error) {
	email := normalizeEmail(u.Email)
	if email == "" {
		return session.UserRecord{}, errors.New("directory: email required")
	}
	hash, err := m.hasher.Hash(u.Password)
	if err != nil {
		return session.UserRecord{}, fmt.Errorf("directory: %s: %w", email, err)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	rec := session.UserRecord{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Roles:       session.NormalizeRoles(u.Roles),
		AvatarURL:   u.AvatarURL,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[email]; exists {
		return session.UserRecord{}, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
	}
	m.users[email] = entry{record: rec, hash: hash}
	return rec, nil
}

// Lookup returns the record for email when password matches.
func (m *Memory) Lookup(ctx context.Context, email, pwd string) (session.UserRecord, error) {
	if m.latency > 0 {
		t := time.NewTimer(m.latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return session.UserRecord{}, ctx.Err()
		case <-t.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return session.UserRecord{}, err
	}

	m.mu.RLock()
	e, ok := m.users[normalizeEmail(email)]
	m.mu.RUnlock()
	if !ok {
		return session.UserRecord{}, session.ErrUserNotFound
	}

	match, err := m.hasher.Verify(pwd, e.hash)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooLong) {
			return session.UserRecord{}, session.ErrUserNotFound
		}
		return session.UserRecord{}, err
	}
	if !match {
		return session.UserRecord{}, session.ErrUserNotFound
	}

	rec := e.record
	rec.Roles = append([]string(nil), rec.Roles...)
	return rec, nil
}

// Len returns the number of users.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
