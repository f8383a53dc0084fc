package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/common"
	"github.com/lexquery/lexquery/internal/interfaces"
	"github.com/lexquery/lexquery/internal/models"
)

// Service implements interfaces.IngestService. It is the only corpus writer:
// inputs are validated, their text normalized to plain text, and the corpus
// replaced in a single transaction so concurrent queries never observe a
// half-built index.
type Service struct {
	storage    interfaces.CorpusStorage
	validate   *validator.Validate
	extensions []string
	logger     arbor.ILogger
}

// NewService creates a new ingestion service
func NewService(storage interfaces.CorpusStorage, config *common.CorpusConfig, logger arbor.ILogger) *Service {
	extensions := config.Extensions
	if len(extensions) == 0 {
		extensions = []string{".yaml", ".yml"}
	}

	return &Service{
		storage:    storage,
		validate:   validator.New(),
		extensions: extensions,
		logger:     logger,
	}
}

// Ingest validates and stores the given documents, replacing the current
// corpus. Locators must be unique within a kind; duplicates reject the
// whole batch before anything is written.
func (s *Service) Ingest(ctx context.Context, inputs []*models.DocumentInput) (int, error) {
	if len(inputs) == 0 {
		return 0, fmt.Errorf("no documents to ingest")
	}

	now := time.Now()
	seen := make(map[string]bool, len(inputs))
	docs := make([]*models.Document, 0, len(inputs))

	for i, input := range inputs {
		if err := s.validate.Struct(input); err != nil {
			return 0, fmt.Errorf("document %d invalid: %w", i, err)
		}

		key := string(input.Kind) + "/" + input.Locator
		if seen[key] {
			return 0, fmt.Errorf("duplicate locator %s for kind %s", input.Locator, input.Kind)
		}
		seen[key] = true

		docs = append(docs, &models.Document{
			ID:            common.NewDocumentID(),
			Kind:          input.Kind,
			Locator:       input.Locator,
			ParentLocator: input.ParentLocator,
			Title:         input.Title,
			Text:          StripMarkdown(input.Text),
			Metadata:      input.Metadata,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	if err := s.storage.ReplaceAll(ctx, docs); err != nil {
		return 0, fmt.Errorf("failed to store corpus: %w", err)
	}

	s.logger.Info().Int("documents", len(docs)).Msg("Corpus ingested")
	return len(docs), nil
}
