package pageapi

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrMissingFolderOrTitle indicates a create with no folder or no
	// resolvable title
	ErrMissingFolderOrTitle = errors.New("missing folder or title")

	// ErrMissingFolder indicates an update with no folder
	ErrMissingFolder = errors.New("missing folder")

	// ErrNoUpdateFields indicates an update that supplies neither content
	// nor title
	ErrNoUpdateFields = errors.New("no content or title provided to update")

	// ErrArticleExists indicates a create hit an existing article file
	ErrArticleExists = errors.New("article file already exists")

	// ErrArticleNotFound indicates an update target that does not exist
	ErrArticleNotFound = errors.New("article file does not exist")

	// ErrFolderCreationDisabled indicates a missing target folder while
	// folder creation is disabled in configuration
	ErrFolderCreationDisabled = errors.New("folder does not exist and creation is disabled")

	// ErrMissingUploadParams indicates an upload missing folder, image
	// data or filename
	ErrMissingUploadParams = errors.New("missing required parameters")

	// ErrInvalidImageFormat indicates image data that is not a base64
	// image data URI
	ErrInvalidImageFormat = errors.New("invalid image format")

	// ErrImageDecode indicates a base64 payload that failed to decode
	ErrImageDecode = errors.New("base64 decoding failed")

	// ErrUnsupportedImageType indicates decoded bytes whose sniffed type
	// is not an accepted raster image type
	ErrUnsupportedImageType = errors.New("unsupported file type")

	// ErrImageTooLarge indicates a decoded payload over the size limit
	ErrImageTooLarge = errors.New("file size exceeds 5MB limit")

	// ErrImageExists indicates an upload hit an existing image file
	ErrImageExists = errors.New("image file already exists")

	// ErrUploadDisabled indicates the image upload feature is switched off
	ErrUploadDisabled = errors.New("image upload is disabled")
)

// StorageError represents a failed read or write against the backing store
type StorageError struct {
	Op       string
	Folder   string
	Filename string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for %s/%s: %v", e.Op, e.Folder, e.Filename, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
