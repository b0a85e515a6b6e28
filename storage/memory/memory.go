// Package memory provides an in-process session.Storage.
package memory

import (
	"context"
	"sync"
)

// Storage is a mutex-guarded string map. The zero value is not usable; call New.
type Storage struct {
	mu   sync.RWMutex
	data map[string]string
}

// New returns an empty storage, optionally seeded.
func New(seed map[string]string) *Storage {
	s := &Storage{data: make(map[string]string, len(seed))}
	for k, v := range seed {
		s.data[k] = v
	}
	return s
}

func (s *Storage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Storage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *Storage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Len reports the number of stored keys.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
