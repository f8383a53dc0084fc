package interfaces

import (
	"context"

	"github.com/lexquery/lexquery/internal/models"
)

// ResolverService expands citation mentions into a bounded-depth,
// cycle-safe closure of corpus documents.
type ResolverService interface {
	// Resolve performs breadth-first expansion of the given mentions.
	// Each resolved document's text is re-scanned for depth+1 mentions
	// until maxDepth is reached or no new documents are discovered. A
	// visited set keyed by (kind, locator) guarantees each document
	// appears once, at its shallowest depth, and that circular references
	// terminate. Mentions that match no document produce unresolved nodes
	// rather than being dropped.
	Resolve(ctx context.Context, mentions []models.CitationMention, maxDepth int) ([]*models.ResolutionNode, error)
}
