package sqlite

const schemaSQL = `
-- Corpus documents table (normalized from all kinds)
-- locator values are unique within a kind; lookups by (kind, locator) are exact-match
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	locator TEXT NOT NULL,
	parent_locator TEXT,
	title TEXT NOT NULL,
	text TEXT NOT NULL,
	metadata TEXT,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_kind_locator ON documents(kind, locator);
CREATE INDEX IF NOT EXISTS idx_documents_parent ON documents(kind, parent_locator);

-- FTS5 index for full-text search (BM25 ranking)
CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
	title,
	text,
	content=documents,
	content_rowid=rowid
);

-- Triggers to keep FTS index in sync. External-content FTS5 tables must be
-- maintained with the special 'delete' insert form; plain UPDATE/DELETE on
-- the virtual table leaves stale index entries behind.
CREATE TRIGGER IF NOT EXISTS documents_fts_insert AFTER INSERT ON documents BEGIN
	INSERT INTO documents_fts(rowid, title, text)
	VALUES (new.rowid, new.title, new.text);
END;

CREATE TRIGGER IF NOT EXISTS documents_fts_update AFTER UPDATE ON documents BEGIN
	INSERT INTO documents_fts(documents_fts, rowid, title, text)
	VALUES ('delete', old.rowid, old.title, old.text);
	INSERT INTO documents_fts(rowid, title, text)
	VALUES (new.rowid, new.title, new.text);
END;

CREATE TRIGGER IF NOT EXISTS documents_fts_delete AFTER DELETE ON documents BEGIN
	INSERT INTO documents_fts(documents_fts, rowid, title, text)
	VALUES ('delete', old.rowid, old.title, old.text);
END;
`

// InitSchema initializes the database schema
func (s *SQLiteDB) InitSchema() error {
	_, err := s.db.Exec(schemaSQL)
	if err != nil {
		return err
	}
	s.logger.Info().Msg("Database schema initialized")
	return nil
}
