// Package storage defines the blob store interface the page service persists
// through. Backends address entries by a logical (folder, filename) pair.
package storage

import (
	"context"
	"errors"
)

// Sentinel errors shared by all backends.
var (
	// ErrKeyExists indicates an exclusive create hit an existing entry.
	ErrKeyExists = errors.New("entry already exists")

	// ErrKeyNotFound indicates the entry does not exist.
	ErrKeyNotFound = errors.New("entry not found")

	// ErrFolderNotFound indicates the target folder does not exist and the
	// caller did not ask for it to be created.
	ErrFolderNotFound = errors.New("folder not found")
)

// Store is the persistence interface for page content and image assets.
//
// CreateExclusive must be atomic: two concurrent creators of the same
// (folder, filename) see exactly one success and one ErrKeyExists. Overwrite
// must never leave a partially written entry visible to readers.
type Store interface {
	// CreateExclusive writes a new entry, failing with ErrKeyExists if the
	// entry is already present. The folder must already exist.
	CreateExclusive(ctx context.Context, folder, filename string, data []byte) error

	// Read returns the full contents of an entry, or ErrKeyNotFound.
	Read(ctx context.Context, folder, filename string) ([]byte, error)

	// Overwrite replaces an existing entry in place.
	Overwrite(ctx context.Context, folder, filename string, data []byte) error

	// Exists reports whether the entry is present.
	Exists(ctx context.Context, folder, filename string) (bool, error)

	// FolderExists reports whether the folder is present.
	FolderExists(ctx context.Context, folder string) (bool, error)

	// EnsureFolder creates the folder and any missing ancestors.
	EnsureFolder(ctx context.Context, folder string) error
}
