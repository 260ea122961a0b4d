// Package detect picks a codec from a corpus file name.
package detect

import (
	"path"
	"strings"

	"github.com/discochess/repertoire/internal/codec"
	"github.com/discochess/repertoire/internal/codec/gzipcodec"
	"github.com/discochess/repertoire/internal/codec/noopcodec"
	"github.com/discochess/repertoire/internal/codec/zstdcodec"
)

// ForName returns the codec matching the final extension of name.
// Names without a known compression extension are read as plain text.
func ForName(name string) codec.Codec {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "zst", "zstd":
		return zstdcodec.New()
	case "gz", "gzip":
		return gzipcodec.New()
	default:
		return noopcodec.New()
	}
}
