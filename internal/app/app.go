package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/common"
	"github.com/lexquery/lexquery/internal/interfaces"
	"github.com/lexquery/lexquery/internal/server"
	"github.com/lexquery/lexquery/internal/services/citations"
	"github.com/lexquery/lexquery/internal/services/ingest"
	"github.com/lexquery/lexquery/internal/services/query"
	"github.com/lexquery/lexquery/internal/services/resolver"
	"github.com/lexquery/lexquery/internal/services/search"
	"github.com/lexquery/lexquery/internal/storage/sqlite"
)

// App owns the service graph: storage, citation parsing, search, reference
// resolution, the query engine, and the HTTP server built on top of them.
type App struct {
	Config  *common.Config
	Logger  arbor.ILogger
	Storage interfaces.StorageManager

	CitationService interfaces.CitationService
	SearchService   interfaces.SearchService
	ResolverService interfaces.ResolverService
	QueryService    interfaces.QueryService
	IngestService   interfaces.IngestService

	Server *server.Server
}

// New builds the full application from configuration
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	storage, err := sqlite.NewManager(logger, &config.Storage.SQLite)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	corpus := storage.CorpusStorage()

	citationService := citations.NewCitationParser(logger)

	var searchService interfaces.SearchService
	if config.Search.Enabled {
		searchService = search.NewFTS5SearchService(corpus, citationService, &config.Search, logger)
	} else {
		searchService = search.NewDisabledSearchService()
	}

	resolverService := resolver.NewReferenceResolver(corpus, citationService, logger)
	queryService := query.NewEngine(searchService, citationService, resolverService, logger)
	ingestService := ingest.NewService(corpus, &config.Corpus, logger)

	srv := server.New(config, server.RouteDeps{
		QueryService:  queryService,
		SearchService: searchService,
		IngestService: ingestService,
		Storage:       corpus,
	}, logger)

	return &App{
		Config:          config,
		Logger:          logger,
		Storage:         storage,
		CitationService: citationService,
		SearchService:   searchService,
		ResolverService: resolverService,
		QueryService:    queryService,
		IngestService:   ingestService,
		Server:          srv,
	}, nil
}

// LoadCorpus ingests the configured corpus directory when one is set.
// Missing directories are not fatal: the server can start empty and be
// populated over the ingest endpoint.
func (a *App) LoadCorpus(ctx context.Context) error {
	if a.Config.Corpus.Dir == "" {
		return nil
	}

	count, err := a.IngestService.LoadDirectory(ctx, a.Config.Corpus.Dir)
	if err != nil {
		a.Logger.Warn().
			Err(err).
			Str("dir", a.Config.Corpus.Dir).
			Msg("Corpus directory not loaded")
		return nil
	}

	a.Logger.Info().
		Int("documents", count).
		Str("dir", a.Config.Corpus.Dir).
		Msg("Corpus loaded")
	return nil
}

// Close releases all application resources
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
