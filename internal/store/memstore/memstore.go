// Package memstore provides an in-memory store implementation for testing.
package memstore

import (
	"context"
	"sync"

	"github.com/discochess/repertoire/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is an in-memory store for testing. Corpora are held decompressed.
type Store struct {
	mu      sync.RWMutex
	corpora map[string][]byte
	reads   int
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		corpora: make(map[string][]byte),
	}
}

// SetCorpus sets the text of a corpus (for test setup).
// The data is copied to prevent caller mutations from affecting the store.
func (s *Store) SetCorpus(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.corpora[name] = copied
}

// ReadCorpus reads a corpus from memory.
func (s *Store) ReadCorpus(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++

	data, ok := s.corpora[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

// Reads returns how many times ReadCorpus has been called.
func (s *Store) Reads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reads
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}
