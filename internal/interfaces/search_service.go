package interfaces

import (
	"context"

	"github.com/lexquery/lexquery/internal/models"
)

// SearchOptions configures lexical search behavior
type SearchOptions struct {
	// Limit maximum number of results (must be positive and finite)
	Limit int

	// Kinds filters results to the given document kinds (empty = all)
	Kinds []models.DocumentKind
}

// SearchService provides ranked lexical search over the corpus.
// This interface abstracts the index implementation so backends can be
// swapped without affecting the query engine or other consumers.
type SearchService interface {
	// Search tokenizes the query and returns BM25-ranked results ordered
	// by score descending, ties broken by document ID ascending. A query
	// that parses as a bare citation (e.g., "168.1" or "section 68")
	// short-circuits to an exact locator lookup returned as the sole top
	// result with maximal score.
	Search(ctx context.Context, query string, opts SearchOptions) ([]*models.SearchResult, error)

	// GetByID retrieves a single document by its ID
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// GetByLocator retrieves a single document by exact (kind, locator)
	GetByLocator(ctx context.Context, kind models.DocumentKind, locator string) (*models.Document, error)
}
