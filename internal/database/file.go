package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// documentMode is the permission of newly created documents
const documentMode fs.FileMode = 0o644

// FileBackend keeps each document as a file under a data directory
type FileBackend struct {
	root string
}

// NewFileBackend creates a file backend rooted at dir
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{root: dir}
}

// Read returns the raw contents of a document
func (fb *FileBackend) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(fb.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// Write replaces a document. The data is written to a temporary file in the
// same directory and renamed over the target.
func (fb *FileBackend) Write(ctx context.Context, name string, data []byte) error {
	target := fb.path(name)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	mode := documentMode
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set mode of %s: %w", name, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// Close is a no-op for files
func (fb *FileBackend) Close() error {
	return nil
}

func (fb *FileBackend) path(name string) string {
	return filepath.Join(fb.root, filepath.FromSlash(name))
}
