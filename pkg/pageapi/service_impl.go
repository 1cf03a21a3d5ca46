package pageapi

import (
	"context"
	"errors"
	"log/slog"

	"github.com/binweave/pageapi/pkg/pageapi/frontmatter"
	"github.com/binweave/pageapi/pkg/pageapi/pathsafe"
	"github.com/binweave/pageapi/pkg/pageapi/storage"
)

// CreateArticle stores a new article
func (s *service) CreateArticle(ctx context.Context, req CreateArticleRequest) (*Article, error) {
	folder := req.Folder
	if folder == "" {
		folder = s.defaultFolder
	}
	filename := req.Filename
	if filename == "" {
		filename = DefaultCreateFilename
	}
	title := req.Title
	if title == "" {
		title = frontmatter.ExtractTitle(req.Content)
	}

	if folder == "" || title == "" {
		return nil, ErrMissingFolderOrTitle
	}

	if err := s.ensureFolder(ctx, folder); err != nil {
		return nil, err
	}

	// A body that already carries a frontmatter block is written verbatim;
	// otherwise a minimal title-only block is synthesized.
	doc := req.Content
	if !frontmatter.HasFrontmatter(doc) {
		doc = frontmatter.Join(frontmatter.MergeTitle("", title), req.Content)
	}

	if err := s.store.CreateExclusive(ctx, folder, filename, []byte(doc)); err != nil {
		switch {
		case errors.Is(err, storage.ErrKeyExists):
			return nil, ErrArticleExists
		case errors.Is(err, pathsafe.ErrUnsafe):
			return nil, err
		default:
			return nil, &StorageError{Op: "create", Folder: folder, Filename: filename, Err: err}
		}
	}

	s.fireEvent(ctx, "article_created", s.sink.ArticleCreated(ctx, folder, filename))

	fm, body := frontmatter.Split(doc)
	return &Article{
		Folder:      folder,
		Filename:    filename,
		Title:       title,
		Frontmatter: fm,
		Body:        body,
	}, nil
}

// UpdateArticle merges a new title and/or body into an existing article
func (s *service) UpdateArticle(ctx context.Context, req UpdateArticleRequest) (*Article, error) {
	if req.Folder == "" {
		return nil, ErrMissingFolder
	}
	if req.Content == nil && req.Title == nil {
		return nil, ErrNoUpdateFields
	}
	filename := req.Filename
	if filename == "" {
		filename = DefaultUpdateFilename
	}

	data, err := s.store.Read(ctx, req.Folder, filename)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrKeyNotFound):
			return nil, ErrArticleNotFound
		case errors.Is(err, pathsafe.ErrUnsafe):
			return nil, err
		default:
			return nil, &StorageError{Op: "read", Folder: req.Folder, Filename: filename, Err: err}
		}
	}

	fm, body := frontmatter.Split(string(data))
	if req.Title != nil {
		fm = frontmatter.MergeTitle(fm, *req.Title)
	}
	if req.Content != nil {
		body = *req.Content
	}
	doc := frontmatter.Join(fm, body)

	if err := s.store.Overwrite(ctx, req.Folder, filename, []byte(doc)); err != nil {
		if errors.Is(err, pathsafe.ErrUnsafe) {
			return nil, err
		}
		return nil, &StorageError{Op: "write", Folder: req.Folder, Filename: filename, Err: err}
	}

	s.fireEvent(ctx, "article_updated", s.sink.ArticleUpdated(ctx, req.Folder, filename))

	fm, body = frontmatter.Split(doc)
	return &Article{
		Folder:      req.Folder,
		Filename:    filename,
		Title:       frontmatter.ExtractTitle(doc),
		Frontmatter: fm,
		Body:        body,
	}, nil
}

// UploadImage decodes, validates and stores an image asset
func (s *service) UploadImage(ctx context.Context, req UploadImageRequest) (*Image, error) {
	folder := req.Folder
	if folder == "" {
		folder = s.defaultFolder
	}
	if folder == "" || req.Image == "" || req.Filename == "" {
		return nil, ErrMissingUploadParams
	}

	filename := pathsafe.SanitizeFilename(req.Filename)
	if filename == "" {
		return nil, ErrMissingUploadParams
	}

	data, declared, err := decodeImageDataURI(req.Image)
	if err != nil {
		return nil, err
	}

	mimeType := sniffImageType(data)
	if !allowedImageTypes[mimeType] {
		return nil, ErrUnsupportedImageType
	}
	if int64(len(data)) > s.maxImageBytes {
		return nil, ErrImageTooLarge
	}

	if err := s.ensureFolder(ctx, folder); err != nil {
		return nil, err
	}

	if err := s.store.CreateExclusive(ctx, folder, filename, data); err != nil {
		switch {
		case errors.Is(err, storage.ErrKeyExists):
			return nil, ErrImageExists
		case errors.Is(err, pathsafe.ErrUnsafe):
			return nil, err
		default:
			return nil, &StorageError{Op: "create", Folder: folder, Filename: filename, Err: err}
		}
	}

	s.fireEvent(ctx, "image_uploaded", s.sink.ImageUploaded(ctx, folder, filename, mimeType, int64(len(data))))

	return &Image{
		Folder:       folder,
		Filename:     filename,
		MimeType:     mimeType,
		DeclaredType: declared,
		Size:         int64(len(data)),
		URL:          s.publicBase + "/" + folder + "/" + filename,
	}, nil
}

// GetArticle reads an article back in split form
func (s *service) GetArticle(ctx context.Context, folder, filename string) (*Article, error) {
	if folder == "" {
		return nil, ErrMissingFolder
	}
	if filename == "" {
		filename = DefaultCreateFilename
	}

	data, err := s.store.Read(ctx, folder, filename)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrKeyNotFound):
			return nil, ErrArticleNotFound
		case errors.Is(err, pathsafe.ErrUnsafe):
			return nil, err
		default:
			return nil, &StorageError{Op: "read", Folder: folder, Filename: filename, Err: err}
		}
	}

	doc := string(data)
	fm, body := frontmatter.Split(doc)
	return &Article{
		Folder:      folder,
		Filename:    filename,
		Title:       frontmatter.ExtractTitle(doc),
		Frontmatter: fm,
		Body:        body,
	}, nil
}

// ensureFolder applies the folder-creation policy. A folder created here is
// left in place even if a later step of the request fails.
func (s *service) ensureFolder(ctx context.Context, folder string) error {
	exists, err := s.store.FolderExists(ctx, folder)
	if err != nil {
		if errors.Is(err, pathsafe.ErrUnsafe) {
			return err
		}
		return &StorageError{Op: "stat", Folder: folder, Err: err}
	}
	if exists {
		return nil
	}

	if !s.allowFolderCreation {
		return ErrFolderCreationDisabled
	}
	if err := s.store.EnsureFolder(ctx, folder); err != nil {
		if errors.Is(err, pathsafe.ErrUnsafe) {
			return err
		}
		return &StorageError{Op: "mkdir", Folder: folder, Err: err}
	}
	return nil
}

// fireEvent logs a failed audit delivery; sink errors never fail a request.
func (s *service) fireEvent(ctx context.Context, event string, err error) {
	if err != nil {
		slog.WarnContext(ctx, "audit sink failed", "event", event, "error", err)
	}
}
