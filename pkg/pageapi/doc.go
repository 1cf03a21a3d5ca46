// Package pageapi provides a small authenticated content API over a
// folder-organized page tree: creating and updating markdown articles with
// frontmatter, and uploading image assets.
//
// It exposes a single Service interface backed by a pluggable storage.Store
// (filesystem, memory, S3 under subpackages of storage). Frontmatter handling
// lives in the frontmatter subpackage, path confinement in pathsafe, and the
// HTTP layer in api. Audit sinks (noop, slog, Postgres) are under audit.
//
// Concurrency model: requests share no in-memory state; all state lives in
// the store. File creation is atomic-if-absent everywhere, so concurrent
// creators of the same (folder, filename) see exactly one success. Updates
// are last-writer-wins with no optimistic concurrency check.
package pageapi
