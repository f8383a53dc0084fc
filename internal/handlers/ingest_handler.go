package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/interfaces"
	"github.com/lexquery/lexquery/internal/models"
)

// IngestHandler serves corpus replacement over HTTP
type IngestHandler struct {
	ingestService interfaces.IngestService
	logger        arbor.ILogger
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(ingestService interfaces.IngestService, logger arbor.ILogger) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
		logger:        logger,
	}
}

// IngestRequest is the POST /api/ingest request body
type IngestRequest struct {
	Documents []*models.DocumentInput `json:"documents"`
}

// HandleIngest handles POST /api/ingest. The submitted document set
// replaces the whole corpus atomically.
func (h *IngestHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Documents) == 0 {
		WriteError(w, http.StatusBadRequest, "Missing 'documents' field")
		return
	}

	count, err := h.ingestService.Ingest(r.Context(), req.Documents)
	if err != nil {
		h.logger.Error().Err(err).Msg("Ingestion failed")
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"documents": count,
	})
}
