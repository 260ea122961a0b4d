// Package location opens a corpus store from a location string:
// "gs://bucket/prefix", "s3://bucket/prefix" or a local directory.
package location

import (
	"context"
	"fmt"
	"strings"

	"github.com/discochess/repertoire/internal/store"
	"github.com/discochess/repertoire/internal/store/diskstore"
	"github.com/discochess/repertoire/internal/store/gcsstore"
	"github.com/discochess/repertoire/internal/store/s3store"
)

// Schemes recognised by Parse.
const (
	SchemeFile = "file"
	SchemeGCS  = "gs"
	SchemeS3   = "s3"
)

// Location identifies a store.
type Location struct {
	Scheme string
	// Bucket is empty for SchemeFile.
	Bucket string
	// Prefix is the object key prefix for buckets, with a trailing slash
	// when non-empty, or the directory for SchemeFile.
	Prefix string
}

// Parse parses loc. Strings without a recognised scheme are directories.
func Parse(loc string) (Location, error) {
	scheme, rest, ok := strings.Cut(loc, "://")
	if !ok {
		if loc == "" {
			return Location{}, fmt.Errorf("empty store location")
		}
		return Location{Scheme: SchemeFile, Prefix: loc}, nil
	}

	switch scheme {
	case SchemeFile:
		if rest == "" {
			return Location{}, fmt.Errorf("invalid location %q: missing path", loc)
		}
		return Location{Scheme: SchemeFile, Prefix: rest}, nil
	case SchemeGCS, SchemeS3:
	default:
		return Location{}, fmt.Errorf("invalid location %q: unsupported scheme %q", loc, scheme)
	}

	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("invalid location %q: missing bucket name", loc)
	}
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return Location{Scheme: scheme, Bucket: bucket, Prefix: prefix}, nil
}

// String formats l back into location syntax.
func (l Location) String() string {
	if l.Scheme == SchemeFile {
		return l.Prefix
	}
	return l.Scheme + "://" + l.Bucket + "/" + l.Prefix
}

// Open parses loc and opens the matching store.
func Open(ctx context.Context, loc string) (store.Store, error) {
	l, err := Parse(loc)
	if err != nil {
		return nil, err
	}

	switch l.Scheme {
	case SchemeGCS:
		s, err := gcsstore.New(ctx, l.Bucket, gcsstore.WithPrefix(l.Prefix))
		if err != nil {
			return nil, err
		}
		return s, nil
	case SchemeS3:
		s, err := s3store.New(ctx, l.Bucket, s3store.WithPrefix(l.Prefix))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := diskstore.New(l.Prefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
