// Package fs is the filesystem implementation of the storage.Store
// interface. Entries live as plain files under a base directory, one
// subdirectory per folder.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/binweave/pageapi/pkg/pageapi/pathsafe"
	"github.com/binweave/pageapi/pkg/pageapi/storage"
)

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Base directory for stored pages and assets
}

// Backend is a filesystem implementation of the storage.Store interface
type Backend struct {
	baseDir string
}

// New creates a new filesystem storage backend. The base directory is
// created if it does not exist.
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &Backend{baseDir: config.BaseDir}, nil
}

// CreateExclusive writes a new file with O_EXCL so that two concurrent
// creators of the same path cannot both succeed.
func (b *Backend) CreateExclusive(ctx context.Context, folder, filename string, data []byte) error {
	path, err := pathsafe.Resolve(b.baseDir, folder, filename)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return storage.ErrKeyExists
	} else if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

// Read returns the full contents of an entry.
func (b *Backend) Read(ctx context.Context, folder, filename string) ([]byte, error) {
	path, err := pathsafe.Resolve(b.baseDir, folder, filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, storage.ErrKeyNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Overwrite replaces an entry by writing to a temp file in the same
// directory and renaming it over the target, so readers never observe a
// partial write.
func (b *Backend) Overwrite(ctx context.Context, folder, filename string, data []byte) error {
	path, err := pathsafe.Resolve(b.baseDir, folder, filename)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filename+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}

// Exists reports whether the entry is present.
func (b *Backend) Exists(ctx context.Context, folder, filename string) (bool, error) {
	path, err := pathsafe.Resolve(b.baseDir, folder, filename)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return true, nil
}

// FolderExists reports whether the folder directory is present.
func (b *Backend) FolderExists(ctx context.Context, folder string) (bool, error) {
	dir, err := pathsafe.ResolveFolder(b.baseDir, folder)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to stat folder: %w", err)
	}
	return info.IsDir(), nil
}

// EnsureFolder creates the folder directory and any missing ancestors.
func (b *Backend) EnsureFolder(ctx context.Context, folder string) error {
	dir, err := pathsafe.ResolveFolder(b.baseDir, folder)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}
	return nil
}
