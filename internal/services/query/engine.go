package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/interfaces"
	"github.com/lexquery/lexquery/internal/models"
)

// ErrInvalidArgument is returned when topK or maxDepth are out of range.
// Rejected before any work begins.
var ErrInvalidArgument = errors.New("invalid argument")

// Engine implements interfaces.QueryService: lexical search, then citation
// extraction over the top-K candidates, then bounded reference resolution,
// merged into one provenance-annotated bundle.
//
// The engine holds no cross-query mutable state. Given an unchanged corpus,
// identical inputs produce byte-identical bundles: search order is fixed by
// (score desc, id asc), mentions are extracted in byte-offset order, and the
// resolver emits nodes in discovery order.
type Engine struct {
	search    interfaces.SearchService
	citations interfaces.CitationService
	resolver  interfaces.ResolverService
	logger    arbor.ILogger
}

// NewEngine creates a new query engine
func NewEngine(
	search interfaces.SearchService,
	citations interfaces.CitationService,
	resolver interfaces.ResolverService,
	logger arbor.ILogger,
) interfaces.QueryService {
	return &Engine{
		search:    search,
		citations: citations,
		resolver:  resolver,
		logger:    logger,
	}
}

// Answer runs the full pipeline for one free-text question.
func (e *Engine) Answer(ctx context.Context, queryText string, opts interfaces.QueryOptions) (*models.ResultBundle, error) {
	if opts.TopK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", ErrInvalidArgument, opts.TopK)
	}
	if opts.MaxDepth < 0 {
		return nil, fmt.Errorf("%w: maxDepth must be non-negative, got %d", ErrInvalidArgument, opts.MaxDepth)
	}

	bundle := &models.ResultBundle{
		Query:           queryText,
		Primary:         []*models.SearchResult{},
		CrossReferences: []*models.ResolutionNode{},
	}

	results, err := e.search.Search(ctx, queryText, interfaces.SearchOptions{Limit: opts.TopK})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	// Zero results is a normal, reportable outcome ("NOT FOUND"), never an error
	if len(results) == 0 {
		if e.logger != nil {
			e.logger.Info().Str("query", queryText).Msg("No primary results")
		}
		return bundle, nil
	}

	bundle.Primary = results

	// Extract citation mentions from each candidate's text, in rank order
	var mentions []models.CitationMention
	for _, result := range results {
		if result.Document == nil {
			continue
		}
		mentions = append(mentions, e.citations.ExtractMentions(result.Document.Text, result.Document)...)
	}

	if len(mentions) > 0 {
		nodes, err := e.resolver.Resolve(ctx, mentions, opts.MaxDepth)
		if err != nil {
			return nil, fmt.Errorf("reference resolution failed: %w", err)
		}
		bundle.CrossReferences = nodes
	}

	if e.logger != nil {
		e.logger.Debug().
			Str("query", queryText).
			Int("primary", len(bundle.Primary)).
			Int("cross_references", len(bundle.CrossReferences)).
			Msg("Query answered")
	}

	return bundle, nil
}
