package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// WithEnv loads configuration from environment variables, optionally
// restricted to names carrying the given prefix (e.g. "PAGEAPI_"). Variables
// that are unset leave the current value untouched.
//
// Recognized variables:
//
//	PORT, ENVIRONMENT
//	REQUIRE_AUTH, API_TOKEN
//	DEFAULT_FOLDER, ALLOW_IMAGE_UPLOAD, ALLOW_FOLDER_CREATION, PUBLIC_BASE
//	STORAGE_URL  (memory://, file://./data/pages, s3://bucket?region=...)
//	PAGES_DIR    (filesystem storage at the given directory)
//	DATABASE_URL (enables the Postgres audit log)
func WithEnv(prefix string) Option {
	return func(cfg *ServerConfig) error {
		get := func(name string) (string, bool) {
			return os.LookupEnv(prefix + name)
		}

		if v, ok := get("PORT"); ok {
			cfg.Port = v
		}
		if v, ok := get("ENVIRONMENT"); ok {
			cfg.Environment = v
		}
		if v, ok := get("API_TOKEN"); ok {
			cfg.APIToken = v
		}
		if v, ok := get("DEFAULT_FOLDER"); ok {
			cfg.DefaultFolder = v
		}
		if v, ok := get("PUBLIC_BASE"); ok {
			cfg.PublicBase = v
		}
		if v, ok := get("DATABASE_URL"); ok {
			cfg.DatabaseURL = v
		}

		for name, dst := range map[string]*bool{
			"REQUIRE_AUTH":          &cfg.RequireAuth,
			"ALLOW_IMAGE_UPLOAD":    &cfg.AllowImageUpload,
			"ALLOW_FOLDER_CREATION": &cfg.AllowFolderCreation,
		} {
			v, ok := get(name)
			if !ok {
				continue
			}
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid boolean for %s%s: %q", prefix, name, v)
			}
			*dst = b
		}

		if v, ok := get("STORAGE_URL"); ok {
			if err := ApplyStorageURL(cfg, v); err != nil {
				return err
			}
		}
		// PAGES_DIR is the short form for filesystem storage and wins over
		// a storage URL when both are set.
		if v, ok := get("PAGES_DIR"); ok {
			cfg.StorageType = "fs"
			cfg.PagesDir = v
		}

		return nil
	}
}

// ApplyStorageURL maps a storage URL onto the config's backend settings.
// Hosts embedding the service can call it directly when they carry a single
// storage URL instead of the per-backend variables.
//
//	memory://
//	file://./local/path  or  file:///absolute/path
//	s3://bucket?region=us-east-1&endpoint=...&access_key=...&secret_key=...&path_style=true&prefix=pages/
func ApplyStorageURL(cfg *ServerConfig, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid storage URL %q: %w", raw, err)
	}

	switch u.Scheme {
	case "memory":
		cfg.StorageType = "memory"
	case "file":
		cfg.StorageType = "fs"
		dir := u.Path
		if u.Host != "" {
			// file://./data keeps the dot in the host part.
			dir = u.Host + u.Path
		}
		if dir == "" {
			return fmt.Errorf("file storage URL %q is missing a path", raw)
		}
		cfg.PagesDir = dir
	case "s3":
		cfg.StorageType = "s3"
		cfg.S3.Bucket = u.Host
		q := u.Query()
		if v := q.Get("region"); v != "" {
			cfg.S3.Region = v
		}
		if v := q.Get("endpoint"); v != "" {
			cfg.S3.Endpoint = v
		}
		if v := q.Get("access_key"); v != "" {
			cfg.S3.AccessKeyID = v
		}
		if v := q.Get("secret_key"); v != "" {
			cfg.S3.SecretAccessKey = v
		}
		if v := q.Get("prefix"); v != "" {
			cfg.S3.KeyPrefix = v
		}
		if v := q.Get("path_style"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid path_style value %q", v)
			}
			cfg.S3.UsePathStyle = b
		}
		if v := q.Get("create_bucket"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid create_bucket value %q", v)
			}
			cfg.S3.CreateBucket = b
		}
	default:
		return fmt.Errorf("unsupported storage scheme %q (want memory, file or s3)", u.Scheme)
	}

	if cfg.StorageType == "s3" && strings.TrimSpace(cfg.S3.Bucket) == "" {
		return fmt.Errorf("s3 storage URL %q is missing a bucket", raw)
	}

	return nil
}
