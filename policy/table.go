package policy

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrTableFrozen is returned by [Table.Register] after [Table.Freeze].
	ErrTableFrozen = errors.New("route table frozen")
	// ErrInvalidRoute is returned for an empty or duplicate path, or a
	// public route that also requires roles.
	ErrInvalidRoute = errors.New("invalid route")
	// ErrUnknownRole is returned when a route names a role outside the
	// table's role set.
	ErrUnknownRole = errors.New("unknown role")
)

// HomePath is the default fallback route.
const HomePath = "/"

// Table maps route paths to requirements. Register routes during
// initialization, call Freeze, then share the table across goroutines.
type Table struct {
	mu       sync.RWMutex
	byPath   map[string]Requirement
	order    []string
	roles    *RoleSet
	fallback string
	frozen   bool
}

// NewTable creates an empty table. When roles is non-nil every required role
// must be registered in it.
func NewTable(roles *RoleSet) *Table {
	return &Table{
		byPath:   make(map[string]Requirement),
		roles:    roles,
		fallback: HomePath,
	}
}

// Register adds a route. Paths are normalized with [CleanPath].
func (t *Table) Register(req Requirement) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frozen {
		return ErrTableFrozen
	}
	if strings.TrimSpace(req.Path) == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidRoute)
	}
	req = req.Clone()
	req.Path = CleanPath(req.Path)
	if _, exists := t.byPath[req.Path]; exists {
		return fmt.Errorf("%w: %s already registered", ErrInvalidRoute, req.Path)
	}
	if req.Public && len(req.RequiredRoles) > 0 {
		return fmt.Errorf("%w: %s is public but requires roles", ErrInvalidRoute, req.Path)
	}
	for _, role := range req.RequiredRoles {
		if role == "" {
			return fmt.Errorf("%w: %s has an empty role", ErrInvalidRoute, req.Path)
		}
		if t.roles != nil && !t.roles.Known(role) {
			return fmt.Errorf("%w: %s on %s", ErrUnknownRole, role, req.Path)
		}
	}

	t.byPath[req.Path] = req
	t.order = append(t.order, req.Path)
	return nil
}

// SetFallback selects the route unknown paths resolve to. It must already be
// registered.
func (t *Table) SetFallback(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frozen {
		return ErrTableFrozen
	}
	path = CleanPath(path)
	if _, ok := t.byPath[path]; !ok {
		return fmt.Errorf("%w: fallback %s not registered", ErrInvalidRoute, path)
	}
	t.fallback = path
	return nil
}

// Freeze prevents further registrations.
func (t *Table) Freeze() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frozen = true
}

// Frozen reports whether Freeze has been called.
func (t *Table) Frozen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frozen
}

// Lookup resolves path to its requirement. The exact path wins, then the
// longest registered non-public prefix ending at a segment boundary, then
// the fallback. Public routes match only their exact path. The boolean is
// false only when the fallback itself is not registered.
func (t *Table) Lookup(path string) (Requirement, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	path = CleanPath(path)
	if req, ok := t.byPath[path]; ok {
		return req.Clone(), true
	}
	for p := path; p != "/"; {
		i := strings.LastIndex(p, "/")
		if i <= 0 {
			break
		}
		p = p[:i]
		if req, ok := t.byPath[p]; ok && !req.Public {
			return req.Clone(), true
		}
	}
	req, ok := t.byPath[t.fallback]
	if !ok {
		return Requirement{}, false
	}
	return req.Clone(), true
}

// Routes returns every requirement in registration order.
func (t *Table) Routes() []Requirement {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Requirement, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, t.byPath[p].Clone())
	}
	return out
}

// Menu returns the navigation entries in registration order.
func (t *Table) Menu() []Requirement {
	all := t.Routes()
	out := all[:0]
	for _, req := range all {
		if req.InMenu() {
			out = append(out, req)
		}
	}
	return out
}

// Count returns the number of registered routes.
func (t *Table) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}
