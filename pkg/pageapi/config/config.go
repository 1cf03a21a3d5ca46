// Package config builds a configured page service from defaults, programmatic
// options and environment variables.
package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/binweave/pageapi/pkg/pageapi"
	"github.com/binweave/pageapi/pkg/pageapi/audit"
	auditpg "github.com/binweave/pageapi/pkg/pageapi/audit/pg"
	"github.com/binweave/pageapi/pkg/pageapi/storage"
	fsstorage "github.com/binweave/pageapi/pkg/pageapi/storage/fs"
	memorystorage "github.com/binweave/pageapi/pkg/pageapi/storage/memory"
	s3storage "github.com/binweave/pageapi/pkg/pageapi/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:                "8080",
		Environment:         "development",
		StorageType:         "fs",
		PagesDir:            "./data/pages",
		PublicBase:          "/pages",
		DefaultFolder:       "blog",
		AllowImageUpload:    true,
		AllowFolderCreation: true,
	}
}

// ServerConfig represents server configuration for the page API service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Authentication
	RequireAuth bool
	APIToken    string

	// Content policy
	DefaultFolder       string
	AllowImageUpload    bool
	AllowFolderCreation bool
	PublicBase          string // URL prefix for stored assets

	// Storage configuration
	StorageType string // "fs", "memory", "s3"
	PagesDir    string // base directory for the fs backend
	S3          S3Config

	// Optional Postgres audit log
	DatabaseURL string
}

// S3Config carries the settings of the S3 storage backend.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	KeyPrefix       string
	CreateBucket    bool
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.StorageType {
	case "fs":
		if c.PagesDir == "" {
			return errors.New("pages_dir is required when using fs storage")
		}
	case "memory":
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required when using s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}

	if c.RequireAuth && c.APIToken == "" {
		// Session auth may still be wired by the host; warn-level concern,
		// but an API deployed standalone would lock everyone out.
		return errors.New("api_token is required when require_auth is set without host sessions")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration.
func (c *ServerConfig) BuildService(ctx context.Context) (pageapi.Service, error) {
	store, err := c.buildStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build storage backend: %w", err)
	}

	sink, err := c.buildSink(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build audit sink: %w", err)
	}

	return pageapi.New(
		pageapi.WithStore(store),
		pageapi.WithAuditSink(sink),
		pageapi.WithDefaultFolder(c.DefaultFolder),
		pageapi.WithPublicBase(c.PublicBase),
		pageapi.WithFolderCreation(c.AllowFolderCreation),
	)
}

func (c *ServerConfig) buildStore() (storage.Store, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: c.PagesDir})
	case "s3":
		return s3storage.New(s3storage.Config{
			Bucket:                 c.S3.Bucket,
			Region:                 c.S3.Region,
			Endpoint:               c.S3.Endpoint,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			UsePathStyle:           c.S3.UsePathStyle,
			KeyPrefix:              c.S3.KeyPrefix,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}

func (c *ServerConfig) buildSink(ctx context.Context) (audit.Sink, error) {
	if c.DatabaseURL == "" {
		return audit.NewLogSink(nil), nil
	}
	return auditpg.NewFromURL(ctx, c.DatabaseURL)
}
