package policy

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// ErrInvalidManifest is returned when a route manifest cannot be decoded or
// declares an inconsistent table.
var ErrInvalidManifest = errors.New("invalid route manifest")

// Manifest is the TOML form of a route table:
//
//	roles = ["admin", "manager", "user"]
//	fallback = "/"
//
//	[[route]]
//	path = "/employees"
//	title = "Employees"
//	icon = "people"
//	roles = ["admin", "manager"]
type Manifest struct {
	Roles    []string        `toml:"roles"`
	Fallback string          `toml:"fallback"`
	Routes   []ManifestRoute `toml:"route"`
}

// ManifestRoute is one [[route]] entry.
type ManifestRoute struct {
	Path   string   `toml:"path"`
	Title  string   `toml:"title"`
	Icon   string   `toml:"icon"`
	Roles  []string `toml:"roles"`
	Public bool     `toml:"public"`
}

// LoadManifest decodes a TOML manifest into a frozen table. When the manifest
// lists roles, routes may only require those roles.
func LoadManifest(r io.Reader) (*Table, error) {
	var m Manifest
	md, err := toml.NewDecoder(r).Decode(&m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %s", ErrInvalidManifest, undecoded[0])
	}
	return m.Table()
}

// LoadManifestFile reads a manifest from disk.
func LoadManifestFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	defer f.Close()
	return LoadManifest(f)
}

// Table builds a frozen table from the manifest.
func (m Manifest) Table() (*Table, error) {
	if len(m.Routes) == 0 {
		return nil, fmt.Errorf("%w: no routes", ErrInvalidManifest)
	}

	var roles *RoleSet
	if len(m.Roles) > 0 {
		rs, err := NewRoleSet(m.Roles...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
		rs.Freeze()
		roles = rs
	}

	t := NewTable(roles)
	for _, r := range m.Routes {
		err := t.Register(Requirement{
			Path:          r.Path,
			RequiredRoles: r.Roles,
			Public:        r.Public,
			Title:         r.Title,
			Icon:          r.Icon,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
	}
	fallback := m.Fallback
	if fallback == "" {
		fallback = HomePath
	}
	if err := t.SetFallback(fallback); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	t.Freeze()
	return t, nil
}
