package policy

import (
	"path"
	"strings"
)

// Requirement is the access rule attached to one route. RequiredRoles is an
// any-of set; an empty set admits every authenticated principal.
type Requirement struct {
	Path          string
	RequiredRoles []string
	Public        bool
	Title         string
	Icon          string
}

// Clone returns a copy that does not share the role slice.
func (r Requirement) Clone() Requirement {
	r.RequiredRoles = append([]string(nil), r.RequiredRoles...)
	return r
}

// InMenu reports whether the requirement is a navigation entry.
func (r Requirement) InMenu() bool {
	return !r.Public && r.Title != ""
}

// CleanPath normalizes a request path for lookup: leading slash, dot
// segments resolved, no trailing slash except for the root, no query or
// fragment.
func CleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
