package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/interfaces"
	"github.com/lexquery/lexquery/internal/services/query"
	"github.com/lexquery/lexquery/internal/services/search"
)

// QueryHandler serves the full question-answering pipeline: lexical search
// plus cross-reference resolution in one bundle.
type QueryHandler struct {
	queryService interfaces.QueryService
	logger       arbor.ILogger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(queryService interfaces.QueryService, logger arbor.ILogger) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
		logger:       logger,
	}
}

// QueryRequest is the POST /api/query request body
type QueryRequest struct {
	Query    string `json:"query"`
	TopK     int    `json:"top_k,omitempty"`
	MaxDepth *int   `json:"max_depth,omitempty"`
}

// HandleQuery handles POST /api/query
func (h *QueryHandler) HandleQuery(defaults interfaces.QueryOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !RequireMethod(w, r, http.MethodPost) {
			return
		}

		var req QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Query == "" {
			WriteError(w, http.StatusBadRequest, "Missing 'query' field")
			return
		}

		opts := defaults
		if req.TopK > 0 {
			opts.TopK = req.TopK
		}
		if req.MaxDepth != nil {
			opts.MaxDepth = *req.MaxDepth
		}

		bundle, err := h.queryService.Answer(r.Context(), req.Query, opts)
		if err != nil {
			switch {
			case errors.Is(err, query.ErrInvalidArgument):
				WriteError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, search.ErrIndexUnavailable):
				WriteError(w, http.StatusServiceUnavailable, "Search index unavailable")
			default:
				h.logger.Error().Err(err).Str("query", req.Query).Msg("Query failed")
				WriteError(w, http.StatusInternalServerError, "Query failed")
			}
			return
		}

		WriteJSON(w, http.StatusOK, bundle)
	}
}
