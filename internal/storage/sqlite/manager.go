package sqlite

import (
	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/common"
	"github.com/lexquery/lexquery/internal/interfaces"
)

// Manager implements the StorageManager interface
type Manager struct {
	db     *SQLiteDB
	corpus interfaces.CorpusStorage
	logger arbor.ILogger
}

// NewManager creates a new SQLite storage manager
func NewManager(logger arbor.ILogger, config *common.SQLiteConfig) (interfaces.StorageManager, error) {
	db, err := NewSQLiteDB(logger, config)
	if err != nil {
		return nil, err
	}

	return &Manager{
		db:     db,
		corpus: NewCorpusStorage(db, logger),
		logger: logger,
	}, nil
}

// CorpusStorage returns the corpus storage interface
func (m *Manager) CorpusStorage() interfaces.CorpusStorage {
	return m.corpus
}

// DB returns the underlying database connection
func (m *Manager) DB() interface{} {
	if m.db != nil {
		return m.db.DB()
	}
	return nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
