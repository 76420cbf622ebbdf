package output

import (
	"context"
	"errors"
	"time"
)

// ErrDocumentNotFound is returned by Load when no document is stored for a list.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore persists serialized list documents keyed by list id.
// Supports local filesystem, SQLite, S3 and in-memory backends.
type DocumentStore interface {
	// Load returns the stored document or ErrDocumentNotFound
	Load(ctx context.Context, listID string) ([]byte, error)

	// Save replaces the stored document as a whole
	Save(ctx context.Context, listID string, data []byte) error

	// List returns metadata for every stored document
	List(ctx context.Context) ([]DocumentInfo, error)

	// Delete removes a stored document. Missing documents are not an error.
	Delete(ctx context.Context, listID string) error
}

// DocumentInfo describes one stored document
type DocumentInfo struct {
	ListID    string    // List identifier
	Location  string    // Storage path (e.g., s3://bucket/key)
	Size      int64     // Size in bytes
	UpdatedAt time.Time // Last write
}
