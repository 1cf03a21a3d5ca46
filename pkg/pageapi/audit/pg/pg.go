// Package pg is a Postgres-backed audit sink. Every successful mutation
// becomes one row in the page_audit table.
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS page_audit (
    id          UUID PRIMARY KEY,
    event       TEXT NOT NULL,
    folder      TEXT NOT NULL,
    filename    TEXT NOT NULL,
    mime_type   TEXT,
    size_bytes  BIGINT,
    recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Sink records audit events in Postgres.
type Sink struct {
	pool *pgxpool.Pool
}

// New creates a sink on an existing connection pool.
func New(pool *pgxpool.Pool) *Sink {
	return &Sink{pool: pool}
}

// NewFromURL connects to databaseURL, verifies connectivity and ensures the
// audit table exists.
func NewFromURL(ctx context.Context, databaseURL string) (*Sink, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	s := &Sink{pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the page_audit table if it is missing.
func (s *Sink) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create page_audit table: %w", err)
	}
	return nil
}

// Close releases the underlying pool.
func (s *Sink) Close() {
	s.pool.Close()
}

func (s *Sink) record(ctx context.Context, event, folder, filename, mimeType string, size int64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO page_audit (id, event, folder, filename, mime_type, size_bytes)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, 0))`,
		uuid.New(), event, folder, filename, mimeType, size)
	if err != nil {
		return fmt.Errorf("failed to record %s event: %w", event, err)
	}
	return nil
}

func (s *Sink) ArticleCreated(ctx context.Context, folder, filename string) error {
	return s.record(ctx, "article_created", folder, filename, "", 0)
}

func (s *Sink) ArticleUpdated(ctx context.Context, folder, filename string) error {
	return s.record(ctx, "article_updated", folder, filename, "", 0)
}

func (s *Sink) ImageUploaded(ctx context.Context, folder, filename, mimeType string, size int64) error {
	return s.record(ctx, "image_uploaded", folder, filename, mimeType, size)
}
