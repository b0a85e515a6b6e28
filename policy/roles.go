package policy

import (
	"errors"
	"sort"
	"sync"
)

// Roles used by the console routes.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// RoleSet is the closed set of role names routes may require. Like [Table] it
// is configured during initialization and frozen before use.
type RoleSet struct {
	mu     sync.RWMutex
	roles  map[string]struct{}
	frozen bool
}

// NewRoleSet creates a role set holding names.
func NewRoleSet(names ...string) (*RoleSet, error) {
	rs := &RoleSet{roles: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if err := rs.Register(n); err != nil {
			return nil, err
		}
	}
	return rs, nil
}

// Register adds a role name. Names are case-sensitive.
func (rs *RoleSet) Register(name string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.frozen {
		return errors.New("role set frozen")
	}
	if name == "" {
		return errors.New("role name empty")
	}
	if _, exists := rs.roles[name]; exists {
		return errors.New("role already registered: " + name)
	}
	rs.roles[name] = struct{}{}
	return nil
}

// Known reports whether name is registered.
func (rs *RoleSet) Known(name string) bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	_, ok := rs.roles[name]
	return ok
}

// Names returns the registered roles sorted.
func (rs *RoleSet) Names() []string {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	out := make([]string, 0, len(rs.roles))
	for n := range rs.roles {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Freeze prevents further registrations.
func (rs *RoleSet) Freeze() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.frozen = true
}

// Count returns the number of registered roles.
func (rs *RoleSet) Count() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.roles)
}
