package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps each corpus as a pretty-printed JSON file under one
// directory. Writes go through a temp file and a rename so a crash
// mid-write never leaves a truncated corpus behind.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(corpus string) string {
	return filepath.Join(f.dir, corpus+".json")
}

// Load reads a corpus file, (nil, nil) when it does not exist.
func (f *FileStore) Load(_ context.Context, corpus string) ([]byte, error) {
	data, err := os.ReadFile(f.path(corpus))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save writes a corpus file atomically.
func (f *FileStore) Save(_ context.Context, corpus string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, corpus+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path(corpus)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Ping verifies the directory is still writable.
func (f *FileStore) Ping(_ context.Context) error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", f.dir)
	}
	return nil
}

// Close is a no-op for the file backend.
func (f *FileStore) Close() {}
