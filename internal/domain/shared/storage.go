package shared

import (
	"context"
	"io"
)

// FileStore is a path-addressed file store (local filesystem or S3)
type FileStore interface {
	// Exists reports whether a file is present at the path
	Exists(ctx context.Context, path string) (bool, error)
	// Save writes the reader's content at the path, replacing any prior file
	Save(ctx context.Context, path string, r io.Reader) error
	// Delete removes the file at the path
	Delete(ctx context.Context, path string) error
}

// FileJanitor queues best-effort file removals. Removals run outside the
// triggering transaction; failures are logged and never propagated, so a
// database commit is not contingent on filesystem cleanup.
type FileJanitor interface {
	Remove(path string)
}
