// Package diskstore implements a disk-based filesystem storage backend.
package diskstore

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/discochess/repertoire/internal/codec"
	"github.com/discochess/repertoire/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store reads corpora from files under a root directory.
type Store struct {
	root  string
	codec codec.Codec
}

// Option configures a Store.
type Option func(*Store)

// WithCodec forces every corpus through c instead of detecting the codec
// from the file extension.
func WithCodec(c codec.Codec) Option {
	return func(s *Store) {
		s.codec = c
	}
}

// New creates a new disk store rooted at the given directory.
// The directory must exist.
func New(root string, opts ...Option) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	s := &Store{root: root}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the directory the store reads from.
func (s *Store) Root() string {
	return s.root
}

// ReadCorpus reads and decompresses the named corpus file. Names are
// slash-separated paths relative to the root and may not escape it.
func (s *Store) ReadCorpus(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("corpus name %q escapes store root", name)
	}

	compressed, err := os.ReadFile(filepath.Join(s.root, rel))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	return store.Decode(name, s.codec, bytes.NewReader(compressed))
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return nil
}
