package artifact

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// InMemoryStore is an in‑process Store. Data is copied on save and retrieval
// so callers cannot mutate stored buffers.
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]Artifact
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore returns an empty in‑memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{artifacts: make(map[string]Artifact)}
}

// LoadFile stores the file at path under key, guessing the content type from
// its extension.
func (s *InMemoryStore) LoadFile(ctx context.Context, key, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load artifact %s: %w", key, err)
	}
	return s.Save(ctx, Artifact{
		Key:         key,
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	})
}

// Save stores (or overwrites) the artifact.
func (s *InMemoryStore) Save(_ context.Context, a Artifact) error {
	if a.Key == "" {
		return fmt.Errorf("artifact key must not be empty")
	}
	a.Data = clone(a.Data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[a.Key] = a
	return nil
}

// Get returns a copy of the artifact or ErrNotFound.
func (s *InMemoryStore) Get(_ context.Context, key string) (*Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.artifacts[key]
	if !ok {
		return nil, ErrNotFound
	}
	a.Data = clone(a.Data)
	return &a, nil
}

// List returns the sorted keys starting with prefix.
func (s *InMemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.artifacts))
	for k := range s.artifacts {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes the artifact or returns ErrNotFound.
func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.artifacts[key]; !ok {
		return ErrNotFound
	}
	delete(s.artifacts, key)
	return nil
}

func clone(b []byte) []byte {
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
