package search

import (
	"context"
	"errors"

	"github.com/lexquery/lexquery/internal/interfaces"
	"github.com/lexquery/lexquery/internal/models"
)

// ErrIndexUnavailable is returned when the lexical index is not built or
// search is disabled in configuration. This is fatal to a query - an
// ingestion/configuration bug, not a condition to recover from silently.
var ErrIndexUnavailable = errors.New("lexical index unavailable")

// DisabledSearchService is the SearchService used when search is disabled
// in configuration. Every operation reports ErrIndexUnavailable.
type DisabledSearchService struct{}

// NewDisabledSearchService creates a search service that always fails
func NewDisabledSearchService() *DisabledSearchService {
	return &DisabledSearchService{}
}

// Search always returns ErrIndexUnavailable
func (s *DisabledSearchService) Search(ctx context.Context, query string, opts interfaces.SearchOptions) ([]*models.SearchResult, error) {
	return nil, ErrIndexUnavailable
}

// GetByID always returns ErrIndexUnavailable
func (s *DisabledSearchService) GetByID(ctx context.Context, id string) (*models.Document, error) {
	return nil, ErrIndexUnavailable
}

// GetByLocator always returns ErrIndexUnavailable
func (s *DisabledSearchService) GetByLocator(ctx context.Context, kind models.DocumentKind, locator string) (*models.Document, error) {
	return nil, ErrIndexUnavailable
}
