// Package pathsafe confines logical (folder, filename) locations to a single
// path under a storage root. Folder and filename come from clients and are
// never trusted: every segment is validated before any filesystem operation.
package pathsafe

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsafe indicates a folder or filename that would resolve outside the
// storage root, or that contains disallowed segments.
var ErrUnsafe = errors.New("path escapes storage root")

// ResolveFolder validates folder and returns the absolute folder path under
// root. Folder may contain /-separated segments; each segment must be a plain
// name (no empty, "." or ".." segments, no separators).
func ResolveFolder(root, folder string) (string, error) {
	if err := validateFolder(folder); err != nil {
		return "", err
	}
	return filepath.Join(root, filepath.FromSlash(folder)), nil
}

// Resolve validates the (folder, filename) pair and returns the absolute file
// path under root. The resolved path is lexically confined to root/folder.
func Resolve(root, folder, filename string) (string, error) {
	dir, err := ResolveFolder(root, folder)
	if err != nil {
		return "", err
	}
	if err := validateSegment(filename); err != nil {
		return "", fmt.Errorf("filename %q: %w", filename, err)
	}

	path := filepath.Join(dir, filename)

	// Belt and braces: Join cleans the path, so re-check confinement.
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q/%q: %w", folder, filename, ErrUnsafe)
	}
	return path, nil
}

// Key returns the /-separated storage key for a validated (folder, filename)
// pair, as used by non-filesystem backends and public URLs.
func Key(folder, filename string) string {
	return folder + "/" + filename
}

// SanitizeFilename drops every character outside [A-Za-z0-9._-]. The result
// may be empty, which callers must treat as a missing filename.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateFolder checks folder without resolving it against a root. Used by
// backends that address blobs by key rather than by filesystem path.
func ValidateFolder(folder string) error {
	return validateFolder(folder)
}

// ValidateFilename checks that filename is a single plain path segment.
func ValidateFilename(filename string) error {
	if err := validateSegment(filename); err != nil {
		return fmt.Errorf("filename %q: %w", filename, err)
	}
	return nil
}

func validateFolder(folder string) error {
	if folder == "" {
		return fmt.Errorf("empty folder: %w", ErrUnsafe)
	}
	for _, seg := range strings.Split(folder, "/") {
		if err := validateSegment(seg); err != nil {
			return fmt.Errorf("folder %q: %w", folder, err)
		}
	}
	return nil
}

func validateSegment(seg string) error {
	switch seg {
	case "", ".", "..":
		return ErrUnsafe
	}
	if strings.ContainsAny(seg, `/\`) || strings.ContainsRune(seg, 0) {
		return ErrUnsafe
	}
	return nil
}
