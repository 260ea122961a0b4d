// Package store defines the storage backend interface for reading game corpora.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/discochess/repertoire/internal/codec"
	"github.com/discochess/repertoire/internal/codec/detect"
)

// ErrNotFound is returned when a corpus does not exist in the store.
var ErrNotFound = errors.New("store: corpus not found")

// Store defines the interface for storage backends.
// Implementations handle path formats and storage details internally.
type Store interface {
	// ReadCorpus reads the decompressed content of the named corpus.
	ReadCorpus(ctx context.Context, name string) ([]byte, error)

	// Close releases any resources held by the store.
	Close() error
}

// Decode reads r to the end through c. When c is nil the codec is chosen
// from the extension of name.
func Decode(name string, c codec.Codec, r io.Reader) ([]byte, error) {
	if c == nil {
		c = detect.ForName(name)
	}

	decompressor, err := c.Reader(r)
	if err != nil {
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	defer decompressor.Close()

	data, err := io.ReadAll(decompressor)
	if err != nil {
		return nil, fmt.Errorf("decompressing corpus: %w", err)
	}
	return data, nil
}
