package store

import (
	"bytes"
	"testing"

	"github.com/discochess/repertoire/internal/codec/gzipcodec"
	"github.com/discochess/repertoire/internal/codec/noopcodec"
)

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := gzipcodec.New().Writer(&buf)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return buf.Bytes()
}

func TestDecode_DetectsCodec(t *testing.T) {
	want := []byte("[Event \"x\"]\n\n1. e4 1-0\n")

	got, err := Decode("games.pgn.gz", nil, bytes.NewReader(gzipped(t, want)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Decode() = %q, want %q", got, want)
	}
}

func TestDecode_ForcedCodec(t *testing.T) {
	raw := []byte("plain text")

	// The forced codec wins over the extension.
	got, err := Decode("games.pgn.gz", noopcodec.New(), bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("Decode() = %q, want %q", got, raw)
	}
}

func TestDecode_CorruptData(t *testing.T) {
	if _, err := Decode("games.pgn.gz", nil, bytes.NewReader([]byte("garbage"))); err == nil {
		t.Error("Decode() with corrupt gzip data should return error")
	}
}
