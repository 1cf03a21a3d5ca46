package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithEnv_Basics(t *testing.T) {
	t.Setenv("PAGEAPI_PORT", "9090")
	t.Setenv("PAGEAPI_REQUIRE_AUTH", "true")
	t.Setenv("PAGEAPI_API_TOKEN", "s3cret")
	t.Setenv("PAGEAPI_DEFAULT_FOLDER", "news")
	t.Setenv("PAGEAPI_ALLOW_IMAGE_UPLOAD", "false")
	t.Setenv("PAGEAPI_PUBLIC_BASE", "/content")

	cfg, err := Load(WithEnv("PAGEAPI_"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.RequireAuth)
	assert.Equal(t, "s3cret", cfg.APIToken)
	assert.Equal(t, "news", cfg.DefaultFolder)
	assert.False(t, cfg.AllowImageUpload)
	assert.Equal(t, "/content", cfg.PublicBase)
}

func TestWithEnv_UnsetLeavesDefaults(t *testing.T) {
	cfg, err := Load(WithEnv("PAGEAPI_"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "blog", cfg.DefaultFolder)
}

func TestWithEnv_InvalidBool(t *testing.T) {
	t.Setenv("PAGEAPI_REQUIRE_AUTH", "definitely")
	_, err := Load(WithEnv("PAGEAPI_"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid boolean")
}

func TestApplyStorageURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		check   func(t *testing.T, c *ServerConfig)
		wantErr string
	}{
		{
			name: "memory",
			url:  "memory://",
			check: func(t *testing.T, c *ServerConfig) {
				assert.Equal(t, "memory", c.StorageType)
			},
		},
		{
			name: "file relative",
			url:  "file://./data/pages",
			check: func(t *testing.T, c *ServerConfig) {
				assert.Equal(t, "fs", c.StorageType)
				assert.Equal(t, "./data/pages", c.PagesDir)
			},
		},
		{
			name: "file absolute",
			url:  "file:///var/lib/pages",
			check: func(t *testing.T, c *ServerConfig) {
				assert.Equal(t, "fs", c.StorageType)
				assert.Equal(t, "/var/lib/pages", c.PagesDir)
			},
		},
		{
			name: "s3 with options",
			url:  "s3://articles?region=us-west-2&endpoint=http://localhost:9000&access_key=ak&secret_key=sk&path_style=true&prefix=pages/",
			check: func(t *testing.T, c *ServerConfig) {
				assert.Equal(t, "s3", c.StorageType)
				assert.Equal(t, "articles", c.S3.Bucket)
				assert.Equal(t, "us-west-2", c.S3.Region)
				assert.Equal(t, "http://localhost:9000", c.S3.Endpoint)
				assert.Equal(t, "ak", c.S3.AccessKeyID)
				assert.Equal(t, "sk", c.S3.SecretAccessKey)
				assert.True(t, c.S3.UsePathStyle)
				assert.Equal(t, "pages/", c.S3.KeyPrefix)
			},
		},
		{
			name:    "s3 missing bucket",
			url:     "s3://",
			wantErr: "missing a bucket",
		},
		{
			name:    "file missing path",
			url:     "file://",
			wantErr: "missing a path",
		},
		{
			name:    "unknown scheme",
			url:     "ftp://somewhere",
			wantErr: "unsupported storage scheme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			err := ApplyStorageURL(&cfg, tt.url)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, &cfg)
		})
	}
}

func TestWithEnv_StorageURL(t *testing.T) {
	t.Setenv("PAGEAPI_STORAGE_URL", "memory://")
	cfg, err := Load(WithEnv("PAGEAPI_"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.StorageType)
}

func TestWithEnv_PagesDirWinsOverStorageURL(t *testing.T) {
	t.Setenv("PAGEAPI_STORAGE_URL", "memory://")
	t.Setenv("PAGEAPI_PAGES_DIR", "/var/lib/pages")
	cfg, err := Load(WithEnv("PAGEAPI_"))
	require.NoError(t, err)
	assert.Equal(t, "fs", cfg.StorageType)
	assert.Equal(t, "/var/lib/pages", cfg.PagesDir)
}
