package session

import (
	"context"
	"time"
)

// Principal is the authenticated identity and role set carried by a session
// token. A nil *Principal means anonymous; an authenticated principal always
// holds at least one role.
type Principal struct {
	ID          string
	DisplayName string
	Roles       []string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// NewPrincipal builds a principal issued at now and expiring after lifetime.
// Roles are deduplicated and empty role names are dropped.
func NewPrincipal(id, displayName string, roles []string, now time.Time, lifetime time.Duration) *Principal {
	return &Principal{
		ID:          id,
		DisplayName: displayName,
		Roles:       NormalizeRoles(roles),
		IssuedAt:    now,
		ExpiresAt:   now.Add(lifetime),
	}
}

// Valid reports whether the principal is still usable at now.
func (p *Principal) Valid(now time.Time) bool {
	return p != nil && len(p.Roles) > 0 && now.Before(p.ExpiresAt)
}

// HasRole reports whether the principal holds role. Role names are case-sensitive.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the principal holds at least one of roles.
func (p *Principal) HasAnyRole(roles []string) bool {
	if p == nil {
		return false
	}
	for _, want := range roles {
		if p.HasRole(want) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate a shared role slice.
func (p *Principal) Clone() *Principal {
	if p == nil {
		return nil
	}
	out := *p
	out.Roles = append([]string(nil), p.Roles...)
	return &out
}

// NormalizeRoles drops empty names and duplicates while keeping first-seen order.
func NormalizeRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Credentials is the login form payload. Password is never logged.
type Credentials struct {
	Email    string
	Password string
}

// UserRecord is the directory entry returned by a successful lookup.
type UserRecord struct {
	ID          string
	DisplayName string
	Roles       []string
	AvatarURL   string
}

// Directory validates credentials against a user directory. Implementations
// return [ErrUserNotFound] when no user matches.
type Directory interface {
	Lookup(ctx context.Context, email, password string) (UserRecord, error)
}

// Storage is the persistent client-side key-value store holding the token.
// Get reports false for a missing key.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Codec converts a principal into an opaque token and back. Decode must
// reject tokens whose expiry is not after now.
type Codec interface {
	Encode(p *Principal) (string, error)
	Decode(token string, now time.Time) (*Principal, error)
}
