package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStorage abstracts where uploaded payment images live. The core only
// ever hands bytes in and gets an opaque path back.
type FileStorage interface {
	Save(ctx context.Context, ext string, r io.Reader) (path string, size int64, err error)
	Remove(ctx context.Context, path string) error
	ListPaths(ctx context.Context) ([]string, error)
}

// localStorage stores files on the local filesystem
type localStorage struct {
	dir string
}

// NewLocalStorage creates a disk-backed FileStorage rooted at dir,
// creating the directory if needed.
func NewLocalStorage(dir string) (FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localStorage{dir: dir}, nil
}

// Save writes the reader to a new file named payment-<uuid><ext> and
// returns its path relative to nothing in particular — treat it as opaque.
func (s *localStorage) Save(ctx context.Context, ext string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	name := "payment-" + uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return "", 0, err
	}

	return path, size, nil
}

// Remove deletes a stored file. A missing file is not an error; the record
// is what matters.
func (s *localStorage) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ListPaths returns the paths of all stored files
func (s *localStorage) ListPaths(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, e.Name()))
	}
	return paths, nil
}
