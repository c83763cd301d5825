package staging

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore stages reports on the local filesystem. Used for development and
// tests; deployments use S3Store.
type LocalStore struct {
	baseDir string
}

var _ Store = (*LocalStore)(nil)

func NewLocalStore(dir string) (*LocalStore, error) {
	baseDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", dir, err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) fullpath(key string) string {
	return filepath.Join(s.baseDir, key)
}

func (s *LocalStore) Put(ctx context.Context, obj Object) error {
	path := s.fullpath(obj.Key)
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for %s/%s: %w", s.baseDir, obj.Key, err)
	}
	if err := os.WriteFile(path, obj.Body, 0644); err != nil {
		return fmt.Errorf("failed to write file %s/%s: %w", s.baseDir, obj.Key, err)
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.fullpath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s/%s: %w", s.baseDir, key, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to read file %s/%s: %w", s.baseDir, key, err)
	}
	return data, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.fullpath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file %s/%s: %w", s.baseDir, key, err)
	}
	return nil
}
