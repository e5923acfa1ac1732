package iostore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// DocStoreImpl implements the DocStore interface.
type DocStoreImpl struct {
	db      *sql.DB
	backend schema.StoreBackend
}

var _ contract.DocStore = &DocStoreImpl{} // Compile-time check

// NewDocStore creates a new DocStore with the specified backend.
func NewDocStore(backend schema.StoreBackend, connStr string) (contract.DocStore, error) {
	db, err := openStoreDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if db == nil {
		// No-op store for disabled tracking
		return &DocStoreImpl{backend: backend}, nil
	}
	if _, err := db.Exec(getCreateDocsQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", docsTable, err)
	}
	return &DocStoreImpl{db: db, backend: backend}, nil
}

// getCreateDocsQuery returns the CREATE TABLE query for devpulse_documents.
func getCreateDocsQuery(backend schema.StoreBackend) string {
	quotedTableName := quoteTableName(docsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				doc_id VARCHAR(255) PRIMARY KEY,
				source VARCHAR(32) NOT NULL,
				kind VARCHAR(32) NOT NULL,
				author VARCHAR(255) NOT NULL,
				title TEXT,
				content TEXT,
				url TEXT,
				created_at DATETIME(6) NOT NULL,
				stored_at DATETIME(6) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				doc_id TEXT PRIMARY KEY,
				source TEXT NOT NULL,
				kind TEXT NOT NULL,
				author TEXT NOT NULL,
				title TEXT,
				content TEXT,
				url TEXT,
				created_at TIMESTAMPTZ NOT NULL,
				stored_at TIMESTAMPTZ NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				doc_id TEXT PRIMARY KEY,
				source TEXT NOT NULL,
				kind TEXT NOT NULL,
				author TEXT NOT NULL,
				title TEXT,
				content TEXT,
				url TEXT,
				created_at TEXT NOT NULL,
				stored_at TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// SaveDocuments upserts one batch of indexed documents. Document ids are
// deterministic, so re-running a window refreshes rows in place.
func (ds *DocStoreImpl) SaveDocuments(docs []schema.Document) error {
	// Skip for NoneBackend
	if ds.db == nil {
		return nil
	}

	query := ds.getDocUpsertQuery()
	storedAt := time.Now()
	for i := range docs {
		doc := &docs[i]
		args := []any{
			doc.ID, string(doc.Source), string(doc.Kind), doc.Author, doc.Title, doc.Content, doc.URL,
			formatTime(doc.CreatedAt, ds.backend), formatTime(storedAt, ds.backend),
		}
		if _, err := ds.db.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.ID, err)
		}
	}
	return nil
}

// getDocUpsertQuery returns the UPSERT query for the backend.
func (ds *DocStoreImpl) getDocUpsertQuery() string {
	quotedTableName := quoteTableName(docsTable, ds.backend)
	columns := `doc_id, source, kind, author, title, content, url, created_at, stored_at`

	switch ds.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE source = new.source, kind = new.kind, author = new.author,
			title = new.title, content = new.content, url = new.url,
			created_at = new.created_at, stored_at = new.stored_at`,
			quotedTableName, columns)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (doc_id) DO UPDATE SET source = EXCLUDED.source, kind = EXCLUDED.kind,
			author = EXCLUDED.author, title = EXCLUDED.title, content = EXCLUDED.content,
			url = EXCLUDED.url, created_at = EXCLUDED.created_at, stored_at = EXCLUDED.stored_at`,
			quotedTableName, columns)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			quotedTableName, columns)
	}
}

// LoadDocuments retrieves every stored document for index rebuilding.
func (ds *DocStoreImpl) LoadDocuments() ([]schema.Document, error) {
	// Skip for NoneBackend
	if ds.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(docsTable, ds.backend)
	query := fmt.Sprintf(`SELECT doc_id, source, kind, author, title, content, url, created_at
		FROM %s ORDER BY doc_id`, quotedTableName)

	rows, err := ds.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []schema.Document
	for rows.Next() {
		var doc schema.Document
		var source, kind string

		switch ds.backend {
		case schema.SQLiteBackend:
			var createdAtStr string
			if err := rows.Scan(&doc.ID, &source, &kind, &doc.Author, &doc.Title, &doc.Content,
				&doc.URL, &createdAtStr); err != nil {
				return nil, fmt.Errorf("failed to scan document: %w", err)
			}
			if doc.CreatedAt, err = scanTime(createdAtStr); err != nil {
				return nil, err
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&doc.ID, &source, &kind, &doc.Author, &doc.Title, &doc.Content,
				&doc.URL, &doc.CreatedAt); err != nil {
				return nil, fmt.Errorf("failed to scan document: %w", err)
			}
		}

		doc.Source = schema.DocumentSource(source)
		doc.Kind = schema.DocumentKind(kind)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return docs, nil
}

// Stats summarizes the stored document corpus.
func (ds *DocStoreImpl) Stats() (*schema.DocumentStats, error) {
	stats := &schema.DocumentStats{
		BySource: make(map[schema.DocumentSource]int),
		ByKind:   make(map[schema.DocumentKind]int),
		ByAuthor: make(map[string]int),
	}

	// Empty stats for NoneBackend
	if ds.db == nil {
		return stats, nil
	}

	total, err := tableRowCount(ds.db, docsTable, ds.backend)
	if err != nil {
		return nil, err
	}
	stats.TotalDocuments = int(total)

	quotedTableName := quoteTableName(docsTable, ds.backend)
	groups := []struct {
		column string
		add    func(key string, count int)
	}{
		{"source", func(key string, count int) { stats.BySource[schema.DocumentSource(key)] = count }},
		{"kind", func(key string, count int) { stats.ByKind[schema.DocumentKind(key)] = count }},
		{"author", func(key string, count int) { stats.ByAuthor[key] = count }},
	}
	for _, group := range groups {
		query := fmt.Sprintf("SELECT %s, COUNT(*) FROM %s GROUP BY %s", group.column, quotedTableName, group.column)
		rows, err := ds.db.Query(query)
		if err != nil {
			return nil, fmt.Errorf("failed to group documents by %s: %w", group.column, err)
		}
		for rows.Next() {
			var key string
			var count int
			if err := rows.Scan(&key, &count); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("failed to scan %s group: %w", group.column, err)
			}
			group.add(key, count)
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("error iterating %s groups: %w", group.column, err)
		}
		_ = rows.Close()
	}
	return stats, nil
}

// ClearAll removes every stored document.
func (ds *DocStoreImpl) ClearAll() error {
	// Skip for NoneBackend
	if ds.db == nil {
		return nil
	}
	query := fmt.Sprintf("DELETE FROM %s", quoteTableName(docsTable, ds.backend))
	if _, err := ds.db.Exec(query); err != nil {
		return fmt.Errorf("failed to clear table %s: %w", docsTable, err)
	}
	return nil
}

// Close closes the underlying connection.
func (ds *DocStoreImpl) Close() error {
	if ds.db != nil {
		return ds.db.Close()
	}
	return nil
}
