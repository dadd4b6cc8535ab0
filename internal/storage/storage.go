package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ImageStorage persists uploaded images under a generated name.
type ImageStorage interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	URL(name string) string
}

// LocalStorage writes files to a directory served under /static/.
type LocalStorage struct {
	dir       string
	urlPrefix string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, urlPrefix: "/static/"}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid file name %q", name)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return f.Close()
}

func (s *LocalStorage) URL(name string) string {
	return s.urlPrefix + name
}
