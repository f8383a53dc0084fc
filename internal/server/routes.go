package server

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/common"
	"github.com/lexquery/lexquery/internal/handlers"
	"github.com/lexquery/lexquery/internal/interfaces"
)

// RouteDeps groups the services the HTTP routes depend on
type RouteDeps struct {
	QueryService  interfaces.QueryService
	SearchService interfaces.SearchService
	IngestService interfaces.IngestService
	Storage       interfaces.CorpusStorage
}

// registerRoutes wires all API endpoints onto the mux
func registerRoutes(mux *http.ServeMux, config *common.Config, deps RouteDeps, logger arbor.ILogger) {
	queryHandler := handlers.NewQueryHandler(deps.QueryService, logger)
	searchHandler := handlers.NewSearchHandler(deps.SearchService, logger)
	documentHandler := handlers.NewDocumentHandler(deps.SearchService, logger)
	ingestHandler := handlers.NewIngestHandler(deps.IngestService, logger)
	statusHandler := handlers.NewStatusHandler(deps.Storage, logger)

	queryDefaults := interfaces.QueryOptions{
		TopK:     config.Resolver.TopK,
		MaxDepth: config.Resolver.MaxDepth,
	}

	mux.HandleFunc("/api/query", queryHandler.HandleQuery(queryDefaults))
	mux.HandleFunc("/api/search", searchHandler.HandleSearch)
	mux.HandleFunc("/api/documents", documentHandler.HandleGet)
	mux.HandleFunc("/api/ingest", ingestHandler.HandleIngest)
	mux.HandleFunc("/api/status", statusHandler.HandleStatus)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
