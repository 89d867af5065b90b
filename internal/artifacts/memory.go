package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by MemoryStore for an unknown artifact name.
var ErrNotFound = errors.New("artifact not found")

// MemoryStore is an in-memory Store used by tests and the trainer's dry-run
// mode. Values round-trip through JSON exactly like the Redis store so
// serialization behavior is covered.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, name string, value any) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode artifact %q: %w", name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = blob
	return nil
}

func (s *MemoryStore) Get(_ context.Context, name string, dest any) error {
	s.mu.RLock()
	blob, ok := s.blobs[name]
	s.mu.RUnlock()
	if !ok {
		return &ArtifactLoadError{Name: name, Err: ErrNotFound}
	}
	if err := json.Unmarshal(blob, dest); err != nil {
		return &ArtifactLoadError{Name: name, Err: err}
	}
	return nil
}
