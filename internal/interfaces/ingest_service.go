package interfaces

import (
	"context"

	"github.com/lexquery/lexquery/internal/models"
)

// IngestService is the corpus write boundary. It accepts (kind, locator,
// text, parent_locator) tuples, normalizes their text, and (re)builds the
// lexical index. The replace happens in one transaction so in-flight
// queries never observe a half-built corpus.
type IngestService interface {
	// Ingest validates and stores the given documents, replacing the
	// current corpus. Returns the number of documents stored.
	Ingest(ctx context.Context, inputs []*models.DocumentInput) (int, error)

	// LoadDirectory ingests every corpus manifest file found in dir.
	// Returns the number of documents stored.
	LoadDirectory(ctx context.Context, dir string) (int, error)
}
