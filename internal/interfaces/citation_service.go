package interfaces

import (
	"github.com/lexquery/lexquery/internal/models"
)

// CitationService extracts structured cross-reference mentions from corpus
// or query text. Extraction is pure and deterministic - no storage access.
type CitationService interface {
	// ExtractMentions scans text for citation mentions in byte-offset
	// order. The source document (may be nil for query text) anchors bare
	// subsection/paragraph mentions that have no preceding section mention.
	ExtractMentions(text string, source *models.Document) []models.CitationMention

	// ParseQueryLocator reports whether the entire query is a bare
	// citation (e.g., "168.1", "section 68", "Directive 11R") and returns
	// the parsed mention when it is.
	ParseQueryLocator(query string) (*models.CitationMention, bool)

	// NormalizeLocator canonicalizes a locator token. Normalization is
	// idempotent: normalizing an already-normalized locator yields itself.
	NormalizeLocator(kind models.DocumentKind, raw string) string
}
