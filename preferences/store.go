package preferences

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrEthical07/goGate/session"
)

// KeyPrefix prefixes the storage key of every stored layout.
const KeyPrefix = "dashboardLayout:"

var (
	// ErrInvalidLayout is returned by Save for documents failing the schema.
	ErrInvalidLayout = errors.New("invalid dashboard layout")
	// ErrUserRequired is returned when no user id is given.
	ErrUserRequired = errors.New("user id required")
)

// Layout modes.
const (
	ModeDefault = "default"
	ModeCustom  = "custom"
)

// Widget places one dashboard widget.
type Widget struct {
	ID     string `json:"id"`
	Column int    `json:"column"`
	Order  int    `json:"order"`
	Hidden bool   `json:"hidden,omitempty"`
}

// Layout is a user's dashboard arrangement.
type Layout struct {
	Mode    string   `json:"mode"`
	Widgets []Widget `json:"widgets"`
}

// DefaultLayout is the arrangement shown until a user customizes it.
func DefaultLayout() Layout {
	return Layout{
		Mode: ModeDefault,
		Widgets: []Widget{
			{ID: "stats", Column: 0, Order: 0},
			{ID: "overview", Column: 0, Order: 1},
			{ID: "performance", Column: 0, Order: 2},
			{ID: "projects", Column: 1, Order: 0},
			{ID: "activity", Column: 1, Order: 1},
			{ID: "tasks", Column: 1, Order: 2},
			{ID: "calendar", Column: 1, Order: 3},
		},
	}
}

// Store reads and writes layouts in client storage.
type Store struct {
	storage session.Storage
	warn    func(msg string, err error)
}

// NewStore creates a store over storage. warn, if non-nil, receives
// discarded stored documents.
func NewStore(storage session.Storage, warn func(msg string, err error)) *Store {
	return &Store{storage: storage, warn: warn}
}

// Key returns the storage key for userID.
func Key(userID string) string {
	return KeyPrefix + userID
}

// Validate checks raw against the layout schema and decodes it.
func Validate(raw []byte) (Layout, error) {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return Layout{}, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if dec.More() {
		return Layout{}, fmt.Errorf("%w: trailing data", ErrInvalidLayout)
	}
	if err := compiledLayout.Validate(doc); err != nil {
		return Layout{}, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}

	var l Layout
	if err := json.Unmarshal(raw, &l); err != nil {
		return Layout{}, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	return l, nil
}

// Save validates raw and stores it for userID, replacing any earlier layout.
func (s *Store) Save(ctx context.Context, userID string, raw []byte) (Layout, error) {
	if userID == "" {
		return Layout{}, ErrUserRequired
	}
	l, err := Validate(raw)
	if err != nil {
		return Layout{}, err
	}
	if err := s.storage.Set(ctx, Key(userID), string(raw)); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// SaveLayout encodes l and saves it.
func (s *Store) SaveLayout(ctx context.Context, userID string, l Layout) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return err
	}
	_, err = s.Save(ctx, userID, raw)
	return err
}

// Load returns the stored layout, or [DefaultLayout] when none is stored or
// the stored document no longer validates.
func (s *Store) Load(ctx context.Context, userID string) (Layout, error) {
	if userID == "" {
		return Layout{}, ErrUserRequired
	}
	raw, ok, err := s.storage.Get(ctx, Key(userID))
	if err != nil {
		return Layout{}, err
	}
	if !ok {
		return DefaultLayout(), nil
	}
	l, err := Validate([]byte(raw))
	if err != nil {
		if s.warn != nil {
			s.warn("preferences: stored layout discarded", err)
		}
		return DefaultLayout(), nil
	}
	return l, nil
}

// Reset removes the stored layout.
func (s *Store) Reset(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrUserRequired
	}
	return s.storage.Remove(ctx, Key(userID))
}
