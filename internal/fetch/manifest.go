package fetch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ManifestFilename is the name of the manifest file in a data directory.
const ManifestFilename = "manifest.json"

// Entry records one fetched corpus.
type Entry struct {
	Name      string    `json:"name"`
	SourceURL string    `json:"source_url"`
	Size      int64     `json:"size"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Manifest lists the corpora fetched into a data directory.
type Manifest struct {
	Version int     `json:"version"`
	Corpora []Entry `json:"corpora"`
}

const manifestVersion = 1

// Put adds e, replacing any entry with the same name. Entries stay sorted
// by name.
func (m *Manifest) Put(e Entry) {
	for i := range m.Corpora {
		if m.Corpora[i].Name == e.Name {
			m.Corpora[i] = e
			return
		}
	}
	m.Corpora = append(m.Corpora, e)
	sort.Slice(m.Corpora, func(i, j int) bool {
		return m.Corpora[i].Name < m.Corpora[j].Name
	})
}

// WriteManifest writes the manifest to the data directory.
func WriteManifest(dir string, m *Manifest) error {
	m.Version = manifestVersion
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFilename), data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest reads the manifest from a data directory. A directory
// without one yields an empty manifest.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFilename))
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{Version: manifestVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
