package iostore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for run and document
// storage.
func GetDBFilePath() string {
	return contract.GetStoreDBFilePath()
}

// InitStores initializes the global store manager. NoneBackend (or an empty
// backend) leaves both stores nil, which disables tracking end to end.
func InitStores(backend schema.StoreBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		if backend == "" || backend == schema.NoneBackend {
			return
		}

		runStore, err := NewRunStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize run store: %w", err)
			return
		}
		docStore, err := NewDocStore(backend, connStr)
		if err != nil {
			_ = runStore.Close()
			initErr = fmt.Errorf("failed to initialize document store: %w", err)
			return
		}

		Manager.Lock()
		Manager.runs = runStore
		Manager.docs = docStore
		Manager.Unlock()
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called from main before exit
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
		if Manager.docs != nil {
			_ = Manager.docs.Close()
		}
	})
}

// ClearStores clears all persisted data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
// For NoneBackend, it does nothing.
func ClearStores(backend schema.StoreBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return dropStoreTables("mysql", connStr, backend)

	case schema.PostgreSQLBackend:
		return dropStoreTables("pgx", connStr, backend)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// dropStoreTables connects to the SQL database and drops every devpulse table.
func dropStoreTables(driverName, connStr string, backend schema.StoreBackend) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, table := range []string{scoresTable, runsTable, docsTable} {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}

// CollectStatus merges run store status with the document corpus summary.
func CollectStatus(mgr contract.StoreManager) (*schema.StoreStatus, error) {
	runStore := mgr.GetRunStore()
	if runStore == nil {
		return &schema.StoreStatus{
			Backend:    schema.NoneBackend,
			TableSizes: make(map[string]int64),
		}, nil
	}

	status, err := runStore.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to get run store status: %w", err)
	}
	if docStore := mgr.GetDocStore(); docStore != nil {
		stats, err := docStore.Stats()
		if err != nil {
			return nil, fmt.Errorf("failed to get document store stats: %w", err)
		}
		status.TotalDocuments = stats.TotalDocuments
		status.TableSizes[docsTable] = int64(stats.TotalDocuments)
	}
	return status, nil
}
