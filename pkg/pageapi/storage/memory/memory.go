// Package memory is an in-memory implementation of the storage.Store
// interface, used in tests and local development.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/binweave/pageapi/pkg/pageapi/pathsafe"
	"github.com/binweave/pageapi/pkg/pageapi/storage"
)

// Backend stores entries in a map keyed by "folder/filename".
type Backend struct {
	mu      sync.RWMutex
	entries map[string][]byte
	folders map[string]bool
}

// New creates a new in-memory storage backend.
func New() *Backend {
	return &Backend{
		entries: make(map[string][]byte),
		folders: make(map[string]bool),
	}
}

func validate(folder, filename string) error {
	if err := pathsafe.ValidateFolder(folder); err != nil {
		return err
	}
	return pathsafe.ValidateFilename(filename)
}

// CreateExclusive inserts a new entry while holding the write lock, so
// check and insert are a single atomic step.
func (b *Backend) CreateExclusive(ctx context.Context, folder, filename string, data []byte) error {
	if err := validate(folder, filename); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.folders[folder] {
		return storage.ErrFolderNotFound
	}
	key := pathsafe.Key(folder, filename)
	if _, ok := b.entries[key]; ok {
		return storage.ErrKeyExists
	}
	b.entries[key] = append([]byte(nil), data...)
	return nil
}

// Read returns a copy of the entry contents.
func (b *Backend) Read(ctx context.Context, folder, filename string) ([]byte, error) {
	if err := validate(folder, filename); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.entries[pathsafe.Key(folder, filename)]
	if !ok {
		return nil, storage.ErrKeyNotFound
	}
	return append([]byte(nil), data...), nil
}

// Overwrite replaces the entry contents.
func (b *Backend) Overwrite(ctx context.Context, folder, filename string, data []byte) error {
	if err := validate(folder, filename); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[pathsafe.Key(folder, filename)] = append([]byte(nil), data...)
	return nil
}

// Exists reports whether the entry is present.
func (b *Backend) Exists(ctx context.Context, folder, filename string) (bool, error) {
	if err := validate(folder, filename); err != nil {
		return false, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.entries[pathsafe.Key(folder, filename)]
	return ok, nil
}

// FolderExists reports whether the folder has been created.
func (b *Backend) FolderExists(ctx context.Context, folder string) (bool, error) {
	if err := pathsafe.ValidateFolder(folder); err != nil {
		return false, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.folders[folder], nil
}

// EnsureFolder registers the folder and all its ancestors.
func (b *Backend) EnsureFolder(ctx context.Context, folder string) error {
	if err := pathsafe.ValidateFolder(folder); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	segs := strings.Split(folder, "/")
	for i := range segs {
		b.folders[strings.Join(segs[:i+1], "/")] = true
	}
	return nil
}
