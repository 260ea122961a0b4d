// Package gzipcodec reads and writes gzip streams (*.pgn.gz).
package gzipcodec

import (
	"compress/gzip"
	"io"

	"github.com/discochess/repertoire/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements gzip compression.
type Codec struct{}

// New returns a new gzip codec.
func New() *Codec {
	return &Codec{}
}

// Reader wraps r to decompress gzip data. Concatenated members, as
// produced by appending archives, are read as one stream.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	zr.Multistream(true)
	return zr, nil
}

// Writer wraps w to compress data with gzip.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, gzip.BestCompression)
}

// Extension returns "gz".
func (c *Codec) Extension() string {
	return "gz"
}
