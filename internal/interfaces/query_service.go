package interfaces

import (
	"context"

	"github.com/lexquery/lexquery/internal/models"
)

// QueryOptions configures a single Answer call
type QueryOptions struct {
	// TopK is the number of primary lexical candidates (must be positive)
	TopK int

	// MaxDepth bounds the reference-resolution closure (must be >= 0)
	MaxDepth int
}

// QueryService orchestrates lexical search, citation extraction, and
// reference resolution into a provenance-annotated result bundle.
type QueryService interface {
	// Answer runs the full pipeline for one free-text question. Identical
	// inputs on an unchanged corpus produce byte-identical bundles. Zero
	// search results yield an empty bundle, not an error.
	Answer(ctx context.Context, queryText string, opts QueryOptions) (*models.ResultBundle, error)
}
