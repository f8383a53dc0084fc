package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/interfaces"
	"github.com/lexquery/lexquery/internal/models"
	"github.com/lexquery/lexquery/internal/services/search"
)

// SearchHandler serves ranked lexical search without reference resolution
type SearchHandler struct {
	searchService interfaces.SearchService
	logger        arbor.ILogger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService interfaces.SearchService, logger arbor.ILogger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// HandleSearch handles GET /api/search?q=<query>&limit=<n>&kind=<kind>
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		WriteError(w, http.StatusBadRequest, "Missing 'q' parameter")
		return
	}

	opts := interfaces.SearchOptions{
		Limit: QueryInt(r, "limit", 0),
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		k := models.DocumentKind(kind)
		if !k.Valid() {
			WriteError(w, http.StatusBadRequest, "Unknown document kind: "+kind)
			return
		}
		opts.Kinds = []models.DocumentKind{k}
	}

	results, err := h.searchService.Search(r.Context(), q, opts)
	if err != nil {
		if errors.Is(err, search.ErrIndexUnavailable) {
			WriteError(w, http.StatusServiceUnavailable, "Search index unavailable")
			return
		}
		h.logger.Error().Err(err).Str("query", q).Msg("Search failed")
		WriteError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":   q,
		"count":   len(results),
		"results": results,
	})
}
