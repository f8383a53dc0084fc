package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/interfaces"
	"github.com/lexquery/lexquery/internal/models"
	"github.com/lexquery/lexquery/internal/services/search"
)

// mockSearchService implements interfaces.SearchService for testing
type mockSearchService struct {
	searchFunc       func(ctx context.Context, query string, opts interfaces.SearchOptions) ([]*models.SearchResult, error)
	getByIDFunc      func(ctx context.Context, id string) (*models.Document, error)
	getByLocatorFunc func(ctx context.Context, kind models.DocumentKind, locator string) (*models.Document, error)
}

func (m *mockSearchService) Search(ctx context.Context, query string, opts interfaces.SearchOptions) ([]*models.SearchResult, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, opts)
	}
	return nil, nil
}

func (m *mockSearchService) GetByID(ctx context.Context, id string) (*models.Document, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, interfaces.ErrNotFound
}

func (m *mockSearchService) GetByLocator(ctx context.Context, kind models.DocumentKind, locator string) (*models.Document, error) {
	if m.getByLocatorFunc != nil {
		return m.getByLocatorFunc(ctx, kind, locator)
	}
	return nil, interfaces.ErrNotFound
}

func TestSearchHandler_MissingQuery(t *testing.T) {
	handler := NewSearchHandler(&mockSearchService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	w := httptest.NewRecorder()
	handler.HandleSearch(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestSearchHandler_MethodNotAllowed(t *testing.T) {
	handler := NewSearchHandler(&mockSearchService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/search?q=surplus", nil)
	w := httptest.NewRecorder()
	handler.HandleSearch(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestSearchHandler_Results(t *testing.T) {
	service := &mockSearchService{
		searchFunc: func(ctx context.Context, query string, opts interfaces.SearchOptions) ([]*models.SearchResult, error) {
			return []*models.SearchResult{{
				DocumentID: "doc_1",
				Kind:       models.KindStatuteSection,
				Locator:    "68",
				Title:      "Surplus income",
				Score:      4.2,
			}}, nil
		},
	}
	handler := NewSearchHandler(service, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=surplus&limit=5", nil)
	w := httptest.NewRecorder()
	handler.HandleSearch(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Query   string                 `json:"query"`
		Count   int                    `json:"count"`
		Results []*models.SearchResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Count != 1 || len(resp.Results) != 1 {
		t.Errorf("count = %d, results = %d", resp.Count, len(resp.Results))
	}
	if resp.Results[0].Locator != "68" {
		t.Errorf("result locator = %q, want 68", resp.Results[0].Locator)
	}
}

func TestSearchHandler_InvalidKind(t *testing.T) {
	handler := NewSearchHandler(&mockSearchService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=surplus&kind=regulation", nil)
	w := httptest.NewRecorder()
	handler.HandleSearch(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestSearchHandler_IndexUnavailable(t *testing.T) {
	service := &mockSearchService{
		searchFunc: func(ctx context.Context, query string, opts interfaces.SearchOptions) ([]*models.SearchResult, error) {
			return nil, search.ErrIndexUnavailable
		},
	}
	handler := NewSearchHandler(service, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=surplus", nil)
	w := httptest.NewRecorder()
	handler.HandleSearch(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestDocumentHandler_NotFound(t *testing.T) {
	handler := NewDocumentHandler(&mockSearchService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/documents?kind=directive&locator=99R", nil)
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestDocumentHandler_ByLocator(t *testing.T) {
	service := &mockSearchService{
		getByLocatorFunc: func(ctx context.Context, kind models.DocumentKind, locator string) (*models.Document, error) {
			if kind == models.KindDirective && locator == "11R" {
				return &models.Document{ID: "doc_1", Kind: kind, Locator: locator, Title: "Surplus Income"}, nil
			}
			return nil, interfaces.ErrNotFound
		},
	}
	handler := NewDocumentHandler(service, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/documents?kind=directive&locator=11R", nil)
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var doc models.Document
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if doc.ID != "doc_1" {
		t.Errorf("document id = %q, want doc_1", doc.ID)
	}
}

func TestDocumentHandler_MissingParams(t *testing.T) {
	handler := NewDocumentHandler(&mockSearchService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
