// Package storage provides the persistence port implementations: a
// file-backed document store for local mode and a Postgres-backed one
// for real mode. Both save full collection snapshots.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File persists each collection as a JSON document under a directory,
// mirroring the browser local-storage layout of the client.
type File struct {
	mu  sync.Mutex
	dir string
}

// NewFile creates the data directory if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &File{dir: dir}, nil
}

// Load reads a collection document into v. A missing file leaves v
// untouched and returns nil.
func (f *File) Load(_ context.Context, collection string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(collection))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Save writes the collection document atomically (temp file + rename).
func (f *File) Save(_ context.Context, collection string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := f.path(collection) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path(collection))
}

func (f *File) path(collection string) string {
	return filepath.Join(f.dir, collection+".json")
}
