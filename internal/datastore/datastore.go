// Package datastore persists observations and seasons.
package datastore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/schema"
)

// StoreManager holds the observation and season stores of one backend.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	observations contract.ObservationStore
	seasons      contract.SeasonStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetObservationStore returns the observation store.
func (mgr *StoreManager) GetObservationStore() contract.ObservationStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.observations
}

// GetSeasonStore returns the season store.
func (mgr *StoreManager) GetSeasonStore() contract.SeasonStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.seasons
}

// Close closes both stores.
func (mgr *StoreManager) Close() error {
	mgr.Lock()
	defer mgr.Unlock()
	var firstErr error
	if mgr.observations != nil {
		firstErr = mgr.observations.Close()
	}
	if mgr.seasons != nil {
		if err := mgr.seasons.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewStoreManager opens the stores for the backend, creating tables when missing.
func NewStoreManager(backend schema.DatabaseBackend, connStr string) (*StoreManager, error) {
	if backend == schema.NoneBackend {
		mem := NewMemoryStore()
		return &StoreManager{observations: mem, seasons: mem.Seasons()}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := createTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create store tables: %w", err)
	}

	return &StoreManager{
		observations: &ObservationStoreImpl{db: db, backend: backend},
		seasons:      &SeasonStoreImpl{db: db, backend: backend},
	}, nil
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global store manager.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		mgr, err := NewStoreManager(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize store: %w", err)
			return
		}
		Manager.Lock()
		Manager.observations = mgr.observations
		Manager.seasons = mgr.seasons
		Manager.Unlock()
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		_ = Manager.Close()
	})
}

// ClearStore removes all stored observations and seasons for the backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		dbFilePath := connStr
		if dbFilePath == "" {
			dbFilePath = GetDBFilePath()
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		name, _ := driverName(backend)
		for _, table := range []string{observationsTable, seasonsTable} {
			if err := clearSQLTable(name, backend, connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driver string, backend schema.DatabaseBackend, connStr, tableName string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
