// Package audit defines the event sink the page service reports successful
// mutations to. Sinks are observational: the store stays the single source
// of truth, and sink failures never fail the request that triggered them.
package audit

import (
	"context"
	"log/slog"
)

// Sink receives notifications after successful mutations.
type Sink interface {
	// ArticleCreated is fired when an article is created
	ArticleCreated(ctx context.Context, folder, filename string) error

	// ArticleUpdated is fired when an article is updated
	ArticleUpdated(ctx context.Context, folder, filename string) error

	// ImageUploaded is fired when an image asset is stored
	ImageUploaded(ctx context.Context, folder, filename, mimeType string, size int64) error
}

// NoopSink discards all events.
type NoopSink struct{}

// NewNoopSink creates a sink that does nothing.
func NewNoopSink() *NoopSink { return &NoopSink{} }

func (*NoopSink) ArticleCreated(ctx context.Context, folder, filename string) error { return nil }
func (*NoopSink) ArticleUpdated(ctx context.Context, folder, filename string) error { return nil }
func (*NoopSink) ImageUploaded(ctx context.Context, folder, filename, mimeType string, size int64) error {
	return nil
}

// LogSink writes events to a slog logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink logging through logger; nil uses slog.Default.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) ArticleCreated(ctx context.Context, folder, filename string) error {
	s.logger.InfoContext(ctx, "article created", "folder", folder, "filename", filename)
	return nil
}

func (s *LogSink) ArticleUpdated(ctx context.Context, folder, filename string) error {
	s.logger.InfoContext(ctx, "article updated", "folder", folder, "filename", filename)
	return nil
}

func (s *LogSink) ImageUploaded(ctx context.Context, folder, filename, mimeType string, size int64) error {
	s.logger.InfoContext(ctx, "image uploaded",
		"folder", folder, "filename", filename, "mime_type", mimeType, "size_bytes", size)
	return nil
}
