package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/common"
	"github.com/lexquery/lexquery/internal/interfaces"
	"github.com/lexquery/lexquery/internal/models"
)

// snippetRadius is the number of characters shown either side of the first
// matched term in a result snippet
const snippetRadius = 80

// FTS5SearchService implements interfaces.SearchService using SQLite FTS5
// full-text search with BM25 relevance scoring.
type FTS5SearchService struct {
	storage      interfaces.CorpusStorage
	citations    interfaces.CitationService
	parser       *QueryParser
	defaultLimit int
	maxLimit     int
	logger       arbor.ILogger
}

// NewFTS5SearchService creates a new FTS5-based search service
func NewFTS5SearchService(
	storage interfaces.CorpusStorage,
	citations interfaces.CitationService,
	config *common.SearchConfig,
	logger arbor.ILogger,
) *FTS5SearchService {
	return &FTS5SearchService{
		storage:      storage,
		citations:    citations,
		parser:       NewQueryParser(config.Stopwords),
		defaultLimit: config.DefaultLimit,
		maxLimit:     config.MaxLimit,
		logger:       logger,
	}
}

// Search performs a ranked full-text search across the corpus.
//
// A query that parses as a bare citation short-circuits to an exact locator
// lookup and returns that document as the sole top result with maximal
// score - exact reference lookup always runs before keyword search. When the
// cited document is missing, the query falls through to lexical ranking.
func (s *FTS5SearchService) Search(
	ctx context.Context,
	query string,
	opts interfaces.SearchOptions,
) ([]*models.SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	if mention, ok := s.citations.ParseQueryLocator(query); ok {
		doc, err := s.storage.GetByLocator(ctx, mention.TargetKind, mention.NormalizedLocator)
		if err == nil {
			if s.logger != nil {
				s.logger.Debug().
					Str("query", query).
					Str("locator", mention.NormalizedLocator).
					Msg("Exact locator short-circuit")
			}
			return []*models.SearchResult{newExactResult(doc)}, nil
		}
		if !errors.Is(err, interfaces.ErrNotFound) {
			return nil, fmt.Errorf("locator lookup failed: %w", err)
		}
	}

	tokens := s.parser.Tokenize(query)
	qualifiers := s.parser.ExtractQualifiers(tokens)
	kinds := kindFilter(opts.Kinds, qualifiers)

	ftsQuery := s.parser.BuildFTS5Query(tokens)
	if ftsQuery == "" {
		// A query with no searchable terms matches nothing; documents
		// containing zero query terms never appear in results
		return []*models.SearchResult{}, nil
	}

	// Over-fetch when a kind filter applies, since filtering happens
	// after ranking
	fetchLimit := limit
	if len(kinds) > 0 {
		fetchLimit = s.maxLimit
	}

	ranked, err := s.storage.SearchDocuments(ctx, ftsQuery, fetchLimit)
	if err != nil {
		if s.logger != nil {
			s.logger.Error().Err(err).Str("query", query).Msg("Failed to search documents")
		}
		return nil, fmt.Errorf("search failed: %w", err)
	}

	terms := s.parser.SearchTerms(tokens)

	results := make([]*models.SearchResult, 0, len(ranked))
	for _, rd := range ranked {
		if len(kinds) > 0 && !kinds[rd.Document.Kind] {
			continue
		}
		results = append(results, newResult(rd.Document, rd.Score, terms))
		if len(results) == limit {
			break
		}
	}

	if s.logger != nil {
		s.logger.Debug().
			Str("query", query).
			Int("results", len(results)).
			Msg("Search completed")
	}

	return results, nil
}

// GetByID retrieves a single document by its ID
func (s *FTS5SearchService) GetByID(ctx context.Context, id string) (*models.Document, error) {
	return s.storage.GetDocument(ctx, id)
}

// GetByLocator retrieves a single document by exact (kind, locator)
func (s *FTS5SearchService) GetByLocator(ctx context.Context, kind models.DocumentKind, locator string) (*models.Document, error) {
	return s.storage.GetByLocator(ctx, kind, locator)
}

// kindFilter merges explicit option kinds with a kind: qualifier
func kindFilter(optKinds []models.DocumentKind, qualifiers map[string]string) map[models.DocumentKind]bool {
	kinds := make(map[models.DocumentKind]bool)
	for _, k := range optKinds {
		kinds[k] = true
	}
	if v, ok := qualifiers["kind"]; ok {
		k := models.DocumentKind(v)
		if k.Valid() {
			kinds[k] = true
		}
	}
	return kinds
}

func newExactResult(doc *models.Document) *models.SearchResult {
	return &models.SearchResult{
		DocumentID:   doc.ID,
		Kind:         doc.Kind,
		Locator:      doc.Locator,
		Title:        doc.Title,
		Score:        models.ExactLocatorScore,
		MatchedTerms: []string{doc.Locator},
		Snippet:      makeSnippet(doc.Text, 0),
		Document:     doc,
	}
}

func newResult(doc *models.Document, score float64, terms []string) *models.SearchResult {
	matched, firstIdx := matchedTerms(doc, terms)
	return &models.SearchResult{
		DocumentID:   doc.ID,
		Kind:         doc.Kind,
		Locator:      doc.Locator,
		Title:        doc.Title,
		Score:        score,
		MatchedTerms: matched,
		Snippet:      makeSnippet(doc.Text, firstIdx),
		Document:     doc,
	}
}

// matchedTerms reports which query terms occur in the document, in query
// order, plus the earliest match offset in the text for snippet placement
func matchedTerms(doc *models.Document, terms []string) ([]string, int) {
	lowerText := strings.ToLower(doc.Text)
	lowerTitle := strings.ToLower(doc.Title)

	matched := make([]string, 0, len(terms))
	firstIdx := -1

	for _, term := range terms {
		idx := strings.Index(lowerText, term)
		if idx == -1 && !strings.Contains(lowerTitle, term) {
			continue
		}
		matched = append(matched, term)
		if idx >= 0 && (firstIdx == -1 || idx < firstIdx) {
			firstIdx = idx
		}
	}

	if firstIdx == -1 {
		firstIdx = 0
	}
	return matched, firstIdx
}

// makeSnippet extracts a window of text around the given offset
func makeSnippet(text string, around int) string {
	if text == "" {
		return ""
	}

	start := around - snippetRadius
	if start < 0 {
		start = 0
	}
	end := around + snippetRadius
	if end > len(text) {
		end = len(text)
	}

	snippet := text[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet = snippet + "..."
	}
	return snippet
}
