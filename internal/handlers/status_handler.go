package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/common"
	"github.com/lexquery/lexquery/internal/interfaces"
)

// StatusHandler serves service health and corpus statistics
type StatusHandler struct {
	storage   interfaces.CorpusStorage
	startTime time.Time
	logger    arbor.ILogger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(storage interfaces.CorpusStorage, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		storage:   storage,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HandleStatus handles GET /api/status
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stats, err := h.storage.GetStats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to collect corpus stats")
		WriteError(w, http.StatusInternalServerError, "Failed to collect corpus stats")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": common.Version,
		"build":   common.Build,
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
		"corpus":  stats,
	})
}
