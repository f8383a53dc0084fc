package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/interfaces"
	"github.com/lexquery/lexquery/internal/models"
)

// DocumentHandler serves direct document lookups by ID or (kind, locator)
type DocumentHandler struct {
	searchService interfaces.SearchService
	logger        arbor.ILogger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(searchService interfaces.SearchService, logger arbor.ILogger) *DocumentHandler {
	return &DocumentHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// HandleGet handles GET /api/documents?id=<id> and
// GET /api/documents?kind=<kind>&locator=<locator>
func (h *DocumentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	var (
		doc *models.Document
		err error
	)

	if id := r.URL.Query().Get("id"); id != "" {
		doc, err = h.searchService.GetByID(r.Context(), id)
	} else {
		kind := models.DocumentKind(r.URL.Query().Get("kind"))
		locator := r.URL.Query().Get("locator")
		if !kind.Valid() || locator == "" {
			WriteError(w, http.StatusBadRequest, "Provide either 'id' or 'kind' and 'locator'")
			return
		}
		doc, err = h.searchService.GetByLocator(r.Context(), kind, locator)
	}

	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Document not found")
			return
		}
		h.logger.Error().Err(err).Msg("Document lookup failed")
		WriteError(w, http.StatusInternalServerError, "Document lookup failed")
		return
	}

	WriteJSON(w, http.StatusOK, doc)
}
