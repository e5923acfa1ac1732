package iostore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.StoreBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.StoreBackend, connStr string) (contract.RunStore, error) {
	db, err := openStoreDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if db == nil {
		// No-op store for disabled tracking
		return &RunStoreImpl{backend: backend}, nil
	}
	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}
	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createRunTables creates the run tracking tables.
func createRunTables(db *sql.DB, backend schema.StoreBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{scoresTable, getCreateScoresQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for devpulse_analysis_runs.
func getCreateRunsQuery(backend schema.StoreBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				started_at DATETIME(6) NOT NULL,
				finished_at DATETIME(6),
				period_start DATETIME(6),
				period_end DATETIME(6),
				engineer_count INT,
				duration_ms BIGINT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				started_at TIMESTAMPTZ NOT NULL,
				finished_at TIMESTAMPTZ,
				period_start TIMESTAMPTZ,
				period_end TIMESTAMPTZ,
				engineer_count INT,
				duration_ms BIGINT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				started_at TEXT NOT NULL,
				finished_at TEXT,
				period_start TEXT,
				period_end TEXT,
				engineer_count INTEGER,
				duration_ms INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateScoresQuery returns the CREATE TABLE query for devpulse_engineer_scores.
func getCreateScoresQuery(backend schema.StoreBackend) string {
	quotedTableName := quoteTableName(scoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				engineer VARCHAR(255) NOT NULL,
				github_score DOUBLE NOT NULL,
				jira_score DOUBLE NOT NULL,
				collaboration_score DOUBLE NOT NULL,
				quality_score DOUBLE NOT NULL,
				velocity_score DOUBLE NOT NULL,
				total_score DOUBLE NOT NULL,
				percentile_rank DOUBLE NOT NULL,
				prs_created INT NOT NULL,
				prs_merged INT NOT NULL,
				commits_made INT NOT NULL,
				tickets_completed INT NOT NULL,
				story_points DOUBLE NOT NULL,
				PRIMARY KEY (run_id, engineer)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				engineer TEXT NOT NULL,
				github_score DOUBLE PRECISION NOT NULL,
				jira_score DOUBLE PRECISION NOT NULL,
				collaboration_score DOUBLE PRECISION NOT NULL,
				quality_score DOUBLE PRECISION NOT NULL,
				velocity_score DOUBLE PRECISION NOT NULL,
				total_score DOUBLE PRECISION NOT NULL,
				percentile_rank DOUBLE PRECISION NOT NULL,
				prs_created INT NOT NULL,
				prs_merged INT NOT NULL,
				commits_made INT NOT NULL,
				tickets_completed INT NOT NULL,
				story_points DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, engineer)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				engineer TEXT NOT NULL,
				github_score REAL NOT NULL,
				jira_score REAL NOT NULL,
				collaboration_score REAL NOT NULL,
				quality_score REAL NOT NULL,
				velocity_score REAL NOT NULL,
				total_score REAL NOT NULL,
				percentile_rank REAL NOT NULL,
				prs_created INTEGER NOT NULL,
				prs_merged INTEGER NOT NULL,
				commits_made INTEGER NOT NULL,
				tickets_completed INTEGER NOT NULL,
				story_points REAL NOT NULL,
				PRIMARY KEY (run_id, engineer)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new analysis run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(start time.Time, params map[string]any) (int64, error) {
	// Skip for NoneBackend
	if rs.db == nil {
		return 0, nil
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal run params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (started_at, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, start, string(paramsJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (started_at, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(start, rs.backend), string(paramsJSON))
		if err != nil {
			return 0, err
		}
		runID, err = result.LastInsertId()
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return runID, nil
}

// EndRun updates the analysis run with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, end time.Time, engineerCount int, periodStart, periodEnd time.Time) error {
	// Skip for NoneBackend
	if rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	// Read back the start to compute the run duration
	var startedAt time.Time
	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT started_at FROM %s WHERE run_id = $1`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT started_at FROM %s WHERE run_id = ?`, quotedTableName)
	}
	row := rs.db.QueryRow(query, runID)

	switch rs.backend {
	case schema.SQLiteBackend:
		var startedAtStr string
		if err := row.Scan(&startedAtStr); err != nil {
			return fmt.Errorf("failed to get started_at for run %d: %w", runID, err)
		}
		var err error
		startedAt, err = scanTime(startedAtStr)
		if err != nil {
			return err
		}
	default: // MySQL and PostgreSQL store as native datetime
		if err := row.Scan(&startedAt); err != nil {
			return fmt.Errorf("failed to get started_at for run %d: %w", runID, err)
		}
	}

	durationMs := end.Sub(startedAt).Milliseconds()

	var updateQuery string
	var args []any
	switch rs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET finished_at = $1, period_start = $2, period_end = $3, engineer_count = $4, duration_ms = $5 WHERE run_id = $6`, quotedTableName)
		args = []any{end, periodStart, periodEnd, engineerCount, durationMs, runID}
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET finished_at = ?, period_start = ?, period_end = ?, engineer_count = ?, duration_ms = ? WHERE run_id = ?`, quotedTableName)
		args = []any{formatTime(end, rs.backend), formatTime(periodStart, rs.backend), formatTime(periodEnd, rs.backend), engineerCount, durationMs, runID}
	}
	if _, err := rs.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

// RecordScores stores the per-engineer scores for one run. Re-recording a
// run replaces its rows.
func (rs *RunStoreImpl) RecordScores(runID int64, scores []schema.EnrichedScore) error {
	// Skip for NoneBackend
	if rs.db == nil {
		return nil
	}

	query := rs.getScoreUpsertQuery()
	for i := range scores {
		s := &scores[i]
		args := []any{
			runID, s.Engineer,
			s.GithubScore, s.JiraScore, s.CollaborationScore, s.QualityScore, s.VelocityScore,
			s.TotalScore, s.PercentileRank,
			s.Github.PRsCreated, s.Github.PRsMerged, s.Github.CommitsMade,
			s.Jira.TicketsCompleted, s.Jira.StoryPointsCompleted,
		}
		if _, err := rs.db.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to insert score for %s: %w", s.Engineer, err)
		}
	}
	return nil
}

// getScoreUpsertQuery returns the UPSERT query for the backend.
func (rs *RunStoreImpl) getScoreUpsertQuery() string {
	quotedTableName := quoteTableName(scoresTable, rs.backend)
	columns := `run_id, engineer, github_score, jira_score, collaboration_score, quality_score,
		velocity_score, total_score, percentile_rank, prs_created, prs_merged, commits_made,
		tickets_completed, story_points`

	switch rs.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE github_score = new.github_score, jira_score = new.jira_score,
			collaboration_score = new.collaboration_score, quality_score = new.quality_score,
			velocity_score = new.velocity_score, total_score = new.total_score,
			percentile_rank = new.percentile_rank, prs_created = new.prs_created,
			prs_merged = new.prs_merged, commits_made = new.commits_made,
			tickets_completed = new.tickets_completed, story_points = new.story_points`,
			quotedTableName, columns)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (run_id, engineer) DO UPDATE SET github_score = EXCLUDED.github_score,
			jira_score = EXCLUDED.jira_score, collaboration_score = EXCLUDED.collaboration_score,
			quality_score = EXCLUDED.quality_score, velocity_score = EXCLUDED.velocity_score,
			total_score = EXCLUDED.total_score, percentile_rank = EXCLUDED.percentile_rank,
			prs_created = EXCLUDED.prs_created, prs_merged = EXCLUDED.prs_merged,
			commits_made = EXCLUDED.commits_made, tickets_completed = EXCLUDED.tickets_completed,
			story_points = EXCLUDED.story_points`,
			quotedTableName, columns)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			quotedTableName, columns)
	}
}

// GetAllRuns retrieves all analysis runs from the store.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf(`SELECT run_id, started_at, finished_at, period_start, period_end,
		engineer_count, duration_ms, config_params FROM %s ORDER BY run_id`, quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var engineerCount sql.NullInt64

		switch rs.backend {
		case schema.SQLiteBackend:
			var startedAtStr string
			var finishedAtStr, periodStartStr, periodEndStr *string
			if err := rows.Scan(&record.RunID, &startedAtStr, &finishedAtStr, &periodStartStr, &periodEndStr,
				&engineerCount, &record.DurationMs, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan analysis run: %w", err)
			}
			if record.StartedAt, err = scanTime(startedAtStr); err != nil {
				return nil, err
			}
			if record.FinishedAt, err = scanNullableTime(finishedAtStr); err != nil {
				return nil, err
			}
			if record.PeriodStart, err = scanNullableTime(periodStartStr); err != nil {
				return nil, err
			}
			if record.PeriodEnd, err = scanNullableTime(periodEndStr); err != nil {
				return nil, err
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartedAt, &record.FinishedAt, &record.PeriodStart,
				&record.PeriodEnd, &engineerCount, &record.DurationMs, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan analysis run: %w", err)
			}
		}

		if engineerCount.Valid {
			record.EngineerCount = int(engineerCount.Int64)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}
	return results, nil
}

// scanNullableTime parses an optional stored timestamp.
func scanNullableTime(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := scanTime(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAllScores retrieves all engineer scores from the store.
func (rs *RunStoreImpl) GetAllScores() ([]schema.ScoreRecord, error) {
	// Skip for NoneBackend
	if rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(scoresTable, rs.backend)
	query := fmt.Sprintf(`SELECT run_id, engineer, github_score, jira_score, collaboration_score,
		quality_score, velocity_score, total_score, percentile_rank, prs_created, prs_merged,
		commits_made, tickets_completed, story_points FROM %s ORDER BY run_id, engineer`, quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query engineer scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ScoreRecord
	for rows.Next() {
		var record schema.ScoreRecord
		if err := rows.Scan(&record.RunID, &record.Engineer, &record.GithubScore, &record.JiraScore,
			&record.CollaborationScore, &record.QualityScore, &record.VelocityScore, &record.TotalScore,
			&record.PercentileRank, &record.PRsCreated, &record.PRsMerged, &record.CommitsMade,
			&record.TicketsCompleted, &record.StoryPoints); err != nil {
			return nil, fmt.Errorf("failed to scan engineer score: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating engineer scores: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (*schema.StoreStatus, error) {
	status := &schema.StoreStatus{
		Backend:    rs.backend,
		TableSizes: make(map[string]int64),
	}

	// Empty status for NoneBackend
	if rs.db == nil {
		return status, nil
	}

	runCount, err := tableRowCount(rs.db, runsTable, rs.backend)
	if err != nil {
		return status, err
	}
	status.TotalRuns = int(runCount)
	status.TableSizes[runsTable] = runCount

	scoreCount, err := tableRowCount(rs.db, scoresTable, rs.backend)
	if err != nil {
		return status, err
	}
	status.TotalScores = int(scoreCount)
	status.TableSizes[scoresTable] = scoreCount

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT started_at FROM %s ORDER BY run_id DESC LIMIT 1",
			quoteTableName(runsTable, rs.backend))
		row := rs.db.QueryRow(lastRunQuery)

		switch rs.backend {
		case schema.SQLiteBackend:
			var lastRunStr string
			if err := row.Scan(&lastRunStr); err != nil {
				return status, fmt.Errorf("failed to get last run time: %w", err)
			}
			lastRun, err := scanTime(lastRunStr)
			if err != nil {
				return status, err
			}
			status.LastRunAt = &lastRun
		default: // MySQL and PostgreSQL store as native datetime
			var lastRun time.Time
			if err := row.Scan(&lastRun); err != nil {
				return status, fmt.Errorf("failed to get last run time: %w", err)
			}
			status.LastRunAt = &lastRun
		}
	}
	return status, nil
}

// ClearAll removes every run and score row.
func (rs *RunStoreImpl) ClearAll() error {
	// Skip for NoneBackend
	if rs.db == nil {
		return nil
	}
	for _, table := range []string{scoresTable, runsTable} {
		query := fmt.Sprintf("DELETE FROM %s", quoteTableName(table, rs.backend))
		if _, err := rs.db.Exec(query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}
