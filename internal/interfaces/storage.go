package interfaces

import (
	"context"
	"errors"

	"github.com/lexquery/lexquery/internal/models"
)

// ErrNotFound is returned when no document matches a lookup. It is an
// expected outcome representing a reference to missing source material,
// not a failure - callers must check it with errors.Is and recover locally.
var ErrNotFound = errors.New("document not found")

// RankedDocument pairs a document with its BM25 relevance score from the
// lexical index. Higher scores are more relevant.
type RankedDocument struct {
	Document *models.Document
	Score    float64
}

// CorpusStorage - interface for corpus document persistence.
// The corpus is written once at ingestion and read-only at query time.
type CorpusStorage interface {
	// Write path (ingestion only)
	SaveDocument(ctx context.Context, doc *models.Document) error
	ReplaceAll(ctx context.Context, docs []*models.Document) error
	DeleteDocument(ctx context.Context, id string) error
	ClearAll(ctx context.Context) error

	// Exact lookups on normalized locators - no fuzzy matching here;
	// normalization belongs to the citation parser
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	GetByLocator(ctx context.Context, kind models.DocumentKind, locator string) (*models.Document, error)
	Exists(ctx context.Context, kind models.DocumentKind, locator string) (bool, error)

	// Search operations (FTS5 MATCH syntax, BM25 ranked, deterministic order)
	SearchDocuments(ctx context.Context, ftsQuery string, limit int) ([]*RankedDocument, error)

	// Stats operations
	CountDocuments(ctx context.Context) (int, error)
	CountByKind(ctx context.Context, kind models.DocumentKind) (int, error)
	GetStats(ctx context.Context) (*models.CorpusStats, error)
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	CorpusStorage() CorpusStorage
	DB() interface{}
	Close() error
}
