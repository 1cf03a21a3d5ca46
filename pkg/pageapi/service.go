package pageapi

import (
	"context"
	"errors"

	"github.com/binweave/pageapi/pkg/pageapi/audit"
	"github.com/binweave/pageapi/pkg/pageapi/storage"
)

// Service is the main interface for article and image operations
type Service interface {
	// CreateArticle stores a new article. The write is atomic-if-absent:
	// of two concurrent creators of the same (folder, filename), exactly
	// one succeeds and the other receives ErrArticleExists.
	CreateArticle(ctx context.Context, req CreateArticleRequest) (*Article, error)

	// UpdateArticle merges new title and/or body into an existing
	// article. Last writer wins; there is no optimistic concurrency
	// check.
	UpdateArticle(ctx context.Context, req UpdateArticleRequest) (*Article, error)

	// UploadImage decodes, validates and stores an image asset.
	UploadImage(ctx context.Context, req UploadImageRequest) (*Image, error)

	// GetArticle reads an article back in split form.
	GetArticle(ctx context.Context, folder, filename string) (*Article, error)
}

// service implements the Service interface
type service struct {
	store               storage.Store
	sink                audit.Sink
	defaultFolder       string
	publicBase          string
	allowFolderCreation bool
	maxImageBytes       int64
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithStore sets the storage backend for the service
func WithStore(store storage.Store) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithAuditSink sets the audit sink for the service
func WithAuditSink(sink audit.Sink) Option {
	return func(s *service) {
		s.sink = sink
	}
}

// WithDefaultFolder sets the fallback folder used when a request omits one
func WithDefaultFolder(folder string) Option {
	return func(s *service) {
		s.defaultFolder = folder
	}
}

// WithPublicBase sets the URL prefix under which stored assets are served
func WithPublicBase(base string) Option {
	return func(s *service) {
		s.publicBase = base
	}
}

// WithFolderCreation controls whether missing target folders are created
func WithFolderCreation(allow bool) Option {
	return func(s *service) {
		s.allowFolderCreation = allow
	}
}

// WithMaxImageBytes overrides the decoded-size limit for uploads
func WithMaxImageBytes(n int64) Option {
	return func(s *service) {
		s.maxImageBytes = n
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		sink:                audit.NewNoopSink(),
		defaultFolder:       "blog",
		publicBase:          "/pages",
		allowFolderCreation: true,
		maxImageBytes:       MaxImageBytes,
	}

	for _, option := range options {
		option(s)
	}

	if s.store == nil {
		return nil, errors.New("a storage backend is required")
	}
	return s, nil
}
