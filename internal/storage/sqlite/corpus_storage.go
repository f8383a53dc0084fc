package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/interfaces"
	"github.com/lexquery/lexquery/internal/models"
)

// CorpusStorage implements interfaces.CorpusStorage
type CorpusStorage struct {
	db     *SQLiteDB
	logger arbor.ILogger
}

// NewCorpusStorage creates a new corpus storage instance
func NewCorpusStorage(db *SQLiteDB, logger arbor.ILogger) interfaces.CorpusStorage {
	return &CorpusStorage{
		db:     db,
		logger: logger,
	}
}

const documentColumns = "id, kind, locator, parent_locator, title, text, metadata, created_at, updated_at"

// SaveDocument saves a single document, upserting on (kind, locator)
func (c *CorpusStorage) SaveDocument(ctx context.Context, doc *models.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(kind, locator) DO UPDATE SET
			parent_locator = excluded.parent_locator,
			title = excluded.title,
			text = excluded.text,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`

	_, err = c.db.db.ExecContext(ctx, query,
		doc.ID,
		string(doc.Kind),
		doc.Locator,
		doc.ParentLocator,
		doc.Title,
		doc.Text,
		string(metadataJSON),
		doc.CreatedAt.Unix(),
		doc.UpdatedAt.Unix(),
	)

	return err
}

// ReplaceAll atomically replaces the entire corpus. The delete and inserts
// share one transaction, so concurrent readers see either the old corpus or
// the new one, never a partial index.
func (c *CorpusStorage) ReplaceAll(ctx context.Context, docs []*models.Document) error {
	tx, err := c.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}

		_, err = stmt.ExecContext(ctx,
			doc.ID,
			string(doc.Kind),
			doc.Locator,
			doc.ParentLocator,
			doc.Title,
			doc.Text,
			string(metadataJSON),
			doc.CreatedAt.Unix(),
			doc.UpdatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to save document %s/%s: %w", doc.Kind, doc.Locator, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit corpus replace: %w", err)
	}

	c.logger.Info().Int("documents", len(docs)).Msg("Corpus replaced")
	return nil
}

// GetDocument retrieves a document by ID
func (c *CorpusStorage) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	query := "SELECT " + documentColumns + " FROM documents WHERE id = ?"

	row := c.db.db.QueryRowContext(ctx, query, id)
	doc, err := c.scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %s", interfaces.ErrNotFound, id)
	}
	return doc, err
}

// GetByLocator retrieves a document by exact (kind, locator) match.
// Fuzzy matching is not performed here - locator normalization belongs to
// the citation parser.
func (c *CorpusStorage) GetByLocator(ctx context.Context, kind models.DocumentKind, locator string) (*models.Document, error) {
	query := "SELECT " + documentColumns + " FROM documents WHERE kind = ? AND locator = ?"

	row := c.db.db.QueryRowContext(ctx, query, string(kind), locator)
	doc, err := c.scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s", interfaces.ErrNotFound, kind, locator)
	}
	return doc, err
}

// Exists reports whether a document with the given (kind, locator) exists
func (c *CorpusStorage) Exists(ctx context.Context, kind models.DocumentKind, locator string) (bool, error) {
	var one int
	err := c.db.db.QueryRowContext(ctx,
		"SELECT 1 FROM documents WHERE kind = ? AND locator = ?",
		string(kind), locator,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SearchDocuments performs BM25-ranked full-text search using FTS5.
// bm25() returns lower-is-better, so the score is negated to make higher
// more relevant; ties are broken by document ID ascending for determinism.
func (c *CorpusStorage) SearchDocuments(ctx context.Context, ftsQuery string, limit int) ([]*interfaces.RankedDocument, error) {
	sqlQuery := `
		SELECT d.id, d.kind, d.locator, d.parent_locator, d.title, d.text, d.metadata,
			   d.created_at, d.updated_at, bm25(documents_fts) AS rank
		FROM documents d
		INNER JOIN documents_fts fts ON d.rowid = fts.rowid
		WHERE documents_fts MATCH ?
		ORDER BY bm25(documents_fts) ASC, d.id ASC
		LIMIT ?
	`

	rows, err := c.db.db.QueryContext(ctx, sqlQuery, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("full-text search failed: %w", err)
	}
	defer rows.Close()

	ranked := make([]*interfaces.RankedDocument, 0)
	for rows.Next() {
		doc := &models.Document{}
		var kind string
		var parentLocator, metadataJSON sql.NullString
		var createdAt, updatedAt int64
		var rank float64

		err := rows.Scan(
			&doc.ID,
			&kind,
			&doc.Locator,
			&parentLocator,
			&doc.Title,
			&doc.Text,
			&metadataJSON,
			&createdAt,
			&updatedAt,
			&rank,
		)
		if err != nil {
			return nil, err
		}

		doc.Kind = models.DocumentKind(kind)
		if parentLocator.Valid {
			doc.ParentLocator = parentLocator.String
		}
		c.parseMetadata(doc, metadataJSON)
		doc.CreatedAt = time.Unix(createdAt, 0)
		doc.UpdatedAt = time.Unix(updatedAt, 0)

		ranked = append(ranked, &interfaces.RankedDocument{
			Document: doc,
			Score:    -rank,
		})
	}

	return ranked, rows.Err()
}

// DeleteDocument deletes a document by ID
func (c *CorpusStorage) DeleteDocument(ctx context.Context, id string) error {
	_, err := c.db.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	return err
}

// ClearAll deletes all documents
func (c *CorpusStorage) ClearAll(ctx context.Context) error {
	_, err := c.db.db.ExecContext(ctx, "DELETE FROM documents")
	return err
}

// CountDocuments returns total document count
func (c *CorpusStorage) CountDocuments(ctx context.Context) (int, error) {
	var count int
	err := c.db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count)
	return count, err
}

// CountByKind returns document count for a kind
func (c *CorpusStorage) CountByKind(ctx context.Context, kind models.DocumentKind) (int, error) {
	var count int
	err := c.db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE kind = ?", string(kind)).Scan(&count)
	return count, err
}

// GetStats retrieves corpus statistics
func (c *CorpusStorage) GetStats(ctx context.Context) (*models.CorpusStats, error) {
	stats := &models.CorpusStats{
		DocumentsByKind: make(map[models.DocumentKind]int),
		LastUpdated:     time.Now(),
	}

	var err error
	stats.TotalDocuments, err = c.CountDocuments(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM documents GROUP BY kind")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		stats.DocumentsByKind[models.DocumentKind(kind)] = count
	}

	var avgSize sql.NullInt64
	c.db.db.QueryRowContext(ctx, "SELECT AVG(LENGTH(text)) FROM documents").Scan(&avgSize)
	if avgSize.Valid {
		stats.AverageTextSize = int(avgSize.Int64)
	}

	return stats, nil
}

// Helper functions

func (c *CorpusStorage) scanDocument(row *sql.Row) (*models.Document, error) {
	doc := &models.Document{}
	var kind string
	var parentLocator, metadataJSON sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(
		&doc.ID,
		&kind,
		&doc.Locator,
		&parentLocator,
		&doc.Title,
		&doc.Text,
		&metadataJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.Kind = models.DocumentKind(kind)
	if parentLocator.Valid {
		doc.ParentLocator = parentLocator.String
	}
	c.parseMetadata(doc, metadataJSON)
	doc.CreatedAt = time.Unix(createdAt, 0)
	doc.UpdatedAt = time.Unix(updatedAt, 0)

	return doc, nil
}

func (c *CorpusStorage) parseMetadata(doc *models.Document, metadataJSON sql.NullString) {
	if metadataJSON.Valid && metadataJSON.String != "" && metadataJSON.String != "null" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &doc.Metadata); err != nil {
			c.logger.Warn().Err(err).Str("doc_id", doc.ID).Msg("Failed to unmarshal metadata")
			doc.Metadata = nil
		}
	}
}
