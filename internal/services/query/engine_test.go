package query

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/interfaces"
	"github.com/lexquery/lexquery/internal/models"
	"github.com/lexquery/lexquery/internal/services/citations"
	"github.com/lexquery/lexquery/internal/services/resolver"
)

// stubSearch returns preset results for any query
type stubSearch struct {
	results []*models.SearchResult
	err     error
}

func (s *stubSearch) Search(ctx context.Context, query string, opts interfaces.SearchOptions) ([]*models.SearchResult, error) {
	return s.results, s.err
}

func (s *stubSearch) GetByID(ctx context.Context, id string) (*models.Document, error) {
	return nil, interfaces.ErrNotFound
}

func (s *stubSearch) GetByLocator(ctx context.Context, kind models.DocumentKind, locator string) (*models.Document, error) {
	return nil, interfaces.ErrNotFound
}

// mapStorage backs the resolver with an in-memory (kind, locator) index
type mapStorage struct {
	docs map[string]*models.Document
}

func newMapStorage(docs ...*models.Document) *mapStorage {
	s := &mapStorage{docs: make(map[string]*models.Document)}
	for _, d := range docs {
		s.docs[string(d.Kind)+"/"+d.Locator] = d
	}
	return s
}

func (s *mapStorage) SaveDocument(ctx context.Context, doc *models.Document) error      { return nil }
func (s *mapStorage) ReplaceAll(ctx context.Context, docs []*models.Document) error     { return nil }
func (s *mapStorage) DeleteDocument(ctx context.Context, id string) error               { return nil }
func (s *mapStorage) ClearAll(ctx context.Context) error                                { return nil }
func (s *mapStorage) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return nil, interfaces.ErrNotFound
}

func (s *mapStorage) GetByLocator(ctx context.Context, kind models.DocumentKind, locator string) (*models.Document, error) {
	if d, ok := s.docs[string(kind)+"/"+locator]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %s %s", interfaces.ErrNotFound, kind, locator)
}

func (s *mapStorage) Exists(ctx context.Context, kind models.DocumentKind, locator string) (bool, error) {
	_, ok := s.docs[string(kind)+"/"+locator]
	return ok, nil
}

func (s *mapStorage) SearchDocuments(ctx context.Context, ftsQuery string, limit int) ([]*interfaces.RankedDocument, error) {
	return nil, nil
}

func (s *mapStorage) CountDocuments(ctx context.Context) (int, error) { return len(s.docs), nil }
func (s *mapStorage) CountByKind(ctx context.Context, kind models.DocumentKind) (int, error) {
	return 0, nil
}
func (s *mapStorage) GetStats(ctx context.Context) (*models.CorpusStats, error) {
	return &models.CorpusStats{}, nil
}

func newTestEngine(search interfaces.SearchService, storage interfaces.CorpusStorage) interfaces.QueryService {
	logger := arbor.NewLogger()
	parser := citations.NewCitationParser(logger)
	res := resolver.NewReferenceResolver(storage, parser, logger)
	return NewEngine(search, parser, res, logger)
}

func TestAnswer_InvalidArguments(t *testing.T) {
	engine := newTestEngine(&stubSearch{}, newMapStorage())

	tests := []struct {
		name string
		opts interfaces.QueryOptions
	}{
		{"Zero topK", interfaces.QueryOptions{TopK: 0, MaxDepth: 2}},
		{"Negative topK", interfaces.QueryOptions{TopK: -1, MaxDepth: 2}},
		{"Negative maxDepth", interfaces.QueryOptions{TopK: 10, MaxDepth: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Answer(context.Background(), "surplus income", tt.opts)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestAnswer_EmptyBundleOnNoResults(t *testing.T) {
	engine := newTestEngine(&stubSearch{results: nil}, newMapStorage())

	bundle, err := engine.Answer(context.Background(), "nothing matches this", interfaces.QueryOptions{TopK: 10, MaxDepth: 2})
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if !bundle.Empty() {
		t.Errorf("expected empty bundle, got %+v", bundle)
	}
	if bundle.Primary == nil || bundle.CrossReferences == nil {
		t.Error("empty bundle slices must be initialized, not nil")
	}
	if bundle.Query != "nothing matches this" {
		t.Errorf("bundle query = %q", bundle.Query)
	}
}

func TestAnswer_SearchErrorPropagates(t *testing.T) {
	searchErr := errors.New("index corrupted")
	engine := newTestEngine(&stubSearch{err: searchErr}, newMapStorage())

	_, err := engine.Answer(context.Background(), "anything", interfaces.QueryOptions{TopK: 10, MaxDepth: 2})
	if !errors.Is(err, searchErr) {
		t.Errorf("expected wrapped search error, got %v", err)
	}
}

func TestAnswer_CrossReferencesFollowed(t *testing.T) {
	// Primary hit 168.1 cites section 68; 68 cites nothing further
	primary := &models.Document{
		ID:      "doc_1681",
		Kind:    models.KindStatuteSection,
		Locator: "168.1",
		Title:   "Automatic discharge",
		Text:    "Discharge is subject to the surplus income standard in section 68.",
	}
	cited := &models.Document{
		ID:      "doc_68",
		Kind:    models.KindStatuteSection,
		Locator: "68",
		Title:   "Surplus income",
		Text:    "The superintendent's standards determine surplus income.",
	}

	search := &stubSearch{results: []*models.SearchResult{{
		DocumentID: primary.ID,
		Kind:       primary.Kind,
		Locator:    primary.Locator,
		Title:      primary.Title,
		Score:      models.ExactLocatorScore,
		Document:   primary,
	}}}
	engine := newTestEngine(search, newMapStorage(primary, cited))

	bundle, err := engine.Answer(context.Background(), "168.1", interfaces.QueryOptions{TopK: 10, MaxDepth: 2})
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if len(bundle.Primary) != 1 {
		t.Fatalf("expected 1 primary result, got %d", len(bundle.Primary))
	}
	if bundle.Primary[0].Locator != "168.1" {
		t.Errorf("primary locator = %q, want 168.1", bundle.Primary[0].Locator)
	}

	if len(bundle.CrossReferences) != 1 {
		t.Fatalf("expected 1 cross-reference, got %d", len(bundle.CrossReferences))
	}
	node := bundle.CrossReferences[0]
	if !node.Resolved || node.Document.Locator != "68" {
		t.Errorf("cross-reference = %+v, want resolved 68", node)
	}
	if node.Depth != 1 {
		t.Errorf("cross-reference depth = %d, want 1", node.Depth)
	}
	if node.Via == nil || node.Via.SourceDocumentID != primary.ID {
		t.Errorf("cross-reference missing provenance: %+v", node.Via)
	}
}

func TestAnswer_MaxDepthZeroSkipsReferences(t *testing.T) {
	primary := &models.Document{
		ID:      "doc_1681",
		Kind:    models.KindStatuteSection,
		Locator: "168.1",
		Text:    "Subject to section 68.",
	}
	search := &stubSearch{results: []*models.SearchResult{{
		DocumentID: primary.ID,
		Kind:       primary.Kind,
		Locator:    primary.Locator,
		Document:   primary,
	}}}
	engine := newTestEngine(search, newMapStorage(primary))

	bundle, err := engine.Answer(context.Background(), "168.1", interfaces.QueryOptions{TopK: 10, MaxDepth: 0})
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if len(bundle.Primary) != 1 {
		t.Errorf("expected 1 primary result, got %d", len(bundle.Primary))
	}
	if len(bundle.CrossReferences) != 0 {
		t.Errorf("expected no cross-references at maxDepth 0, got %d", len(bundle.CrossReferences))
	}
}

func TestAnswer_Deterministic(t *testing.T) {
	primary := &models.Document{
		ID:      "doc_1681",
		Kind:    models.KindStatuteSection,
		Locator: "168.1",
		Text:    "See section 68 and Directive 11R.",
	}
	cited := &models.Document{
		ID:      "doc_68",
		Kind:    models.KindStatuteSection,
		Locator: "68",
		Text:    "Standards apply.",
	}
	search := &stubSearch{results: []*models.SearchResult{{
		DocumentID: primary.ID,
		Kind:       primary.Kind,
		Locator:    primary.Locator,
		Document:   primary,
	}}}
	engine := newTestEngine(search, newMapStorage(primary, cited))
	opts := interfaces.QueryOptions{TopK: 10, MaxDepth: 2}

	first, err := engine.Answer(context.Background(), "discharge", opts)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		again, err := engine.Answer(context.Background(), "discharge", opts)
		if err != nil {
			t.Fatalf("Answer failed: %v", err)
		}
		if len(again.CrossReferences) != len(first.CrossReferences) {
			t.Fatalf("cross-reference count changed between runs")
		}
		for j := range again.CrossReferences {
			a, b := again.CrossReferences[j], first.CrossReferences[j]
			if a.Resolved != b.Resolved || a.Depth != b.Depth || a.Via.NormalizedLocator != b.Via.NormalizedLocator {
				t.Fatalf("cross-reference %d differs between runs", j)
			}
		}
	}
}
