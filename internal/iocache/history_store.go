package iocache

import (
	"database/sql"
	"fmt"

	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/schema"
)

// Table names for history tracking.
const (
	runsTable       = "commitscore_runs"
	fileScoresTable = "commitscore_file_scores"
)

// runColumns lists the columns of the runs table in scan order.
const runColumns = "run_id, run_uuid, run_time, commit_id, author_email, policy, score_limit, aggregate_score, repo_score, impact, status, scored_files"

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetHistoryDBFilePath()
		}
		db, err = sql.Open(driverNameFor(backend), dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open(driverNameFor(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open(driverNameFor(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the history tracking tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{fileScoresTable, getCreateFileScoresQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for commitscore_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_uuid CHAR(36) NOT NULL,
				run_time DATETIME(6) NOT NULL,
				commit_id VARCHAR(64) NOT NULL,
				author_email VARCHAR(255) NOT NULL,
				policy VARCHAR(20) NOT NULL,
				score_limit DOUBLE NOT NULL,
				aggregate_score DOUBLE NOT NULL,
				repo_score DOUBLE NOT NULL,
				impact DOUBLE NOT NULL,
				status VARCHAR(20) NOT NULL,
				scored_files INT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_uuid TEXT NOT NULL,
				run_time TIMESTAMPTZ NOT NULL,
				commit_id TEXT NOT NULL,
				author_email TEXT NOT NULL,
				policy TEXT NOT NULL,
				score_limit DOUBLE PRECISION NOT NULL,
				aggregate_score DOUBLE PRECISION NOT NULL,
				repo_score DOUBLE PRECISION NOT NULL,
				impact DOUBLE PRECISION NOT NULL,
				status TEXT NOT NULL,
				scored_files INT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_uuid TEXT NOT NULL,
				run_time TEXT NOT NULL,
				commit_id TEXT NOT NULL,
				author_email TEXT NOT NULL,
				policy TEXT NOT NULL,
				score_limit REAL NOT NULL,
				aggregate_score REAL NOT NULL,
				repo_score REAL NOT NULL,
				impact REAL NOT NULL,
				status TEXT NOT NULL,
				scored_files INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateFileScoresQuery returns the CREATE TABLE query for commitscore_file_scores.
func getCreateFileScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(fileScoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				file_path VARCHAR(512) NOT NULL,
				linter VARCHAR(20) NOT NULL,
				score DOUBLE NOT NULL,
				status VARCHAR(20) NOT NULL,
				skip_reason VARCHAR(20),
				PRIMARY KEY (run_id, file_path)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				file_path TEXT NOT NULL,
				linter TEXT NOT NULL,
				score DOUBLE PRECISION NOT NULL,
				status TEXT NOT NULL,
				skip_reason TEXT,
				PRIMARY KEY (run_id, file_path)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				file_path TEXT NOT NULL,
				linter TEXT NOT NULL,
				score REAL NOT NULL,
				status TEXT NOT NULL,
				skip_reason TEXT,
				PRIMARY KEY (run_id, file_path)
			);
		`, quotedTableName)
	}
}

// RecordRun stores a run and its file scores in one transaction and returns the run ID.
func (hs *HistoryStoreImpl) RecordRun(run schema.RunRecord, files []schema.FileScoreRecord) (int64, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertRun := fmt.Sprintf(`INSERT INTO %s (run_uuid, run_time, commit_id, author_email, policy, score_limit,
		aggregate_score, repo_score, impact, status, scored_files) VALUES (%s)`,
		quoteTableName(runsTable, hs.backend), placeholderList(hs.backend, 11))
	args := []any{
		run.RunUUID, formatTime(run.RunTime, hs.backend), run.CommitID, run.AuthorEmail, run.Policy,
		run.ScoreLimit, run.AggregateScore, run.RepoScore, run.Impact, run.Status, run.ScoredFiles,
	}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		err = tx.QueryRow(insertRun+" RETURNING run_id", args...).Scan(&runID)
	default: // SQLite and MySQL
		var result sql.Result
		result, err = tx.Exec(insertRun, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	insertFile := fmt.Sprintf(`INSERT INTO %s (run_id, file_path, linter, score, status, skip_reason) VALUES (%s)`,
		quoteTableName(fileScoresTable, hs.backend), placeholderList(hs.backend, 6))
	for _, f := range files {
		if _, err := tx.Exec(insertFile, runID, f.FilePath, f.Linter, f.Score, f.Status, f.SkipReason); err != nil {
			return 0, fmt.Errorf("failed to insert file score for %s: %w", f.FilePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// GetRecentRuns returns at most limit runs, newest first.
func (hs *HistoryStoreImpl) GetRecentRuns(limit int) ([]schema.RunRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY run_id DESC LIMIT %s",
		runColumns, quoteTableName(runsTable, hs.backend), placeholder(hs.backend, 1))
	return hs.queryRuns(query, limit)
}

// GetAllRuns returns every run, oldest first.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY run_id", runColumns, quoteTableName(runsTable, hs.backend))
	return hs.queryRuns(query)
}

// queryRuns runs a SELECT over runColumns and scans every row.
func (hs *HistoryStoreImpl) queryRuns(query string, args ...any) ([]schema.RunRecord, error) {
	rows, err := hs.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var r schema.RunRecord
		switch hs.backend {
		case schema.SQLiteBackend:
			var runTime string
			if err := rows.Scan(&r.RunID, &r.RunUUID, &runTime, &r.CommitID, &r.AuthorEmail, &r.Policy,
				&r.ScoreLimit, &r.AggregateScore, &r.RepoScore, &r.Impact, &r.Status, &r.ScoredFiles); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if r.RunTime, err = parseTime(runTime); err != nil {
				return nil, fmt.Errorf("failed to parse run_time: %w", err)
			}
		default: // MySQL and PostgreSQL store as native datetime
			if err := rows.Scan(&r.RunID, &r.RunUUID, &r.RunTime, &r.CommitID, &r.AuthorEmail, &r.Policy,
				&r.ScoreLimit, &r.AggregateScore, &r.RepoScore, &r.Impact, &r.Status, &r.ScoredFiles); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllFileScores returns every file score row, ordered by run.
func (hs *HistoryStoreImpl) GetAllFileScores() ([]schema.FileScoreRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, file_path, linter, score, status, skip_reason FROM %s ORDER BY run_id, file_path",
		quoteTableName(fileScoresTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query file scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.FileScoreRecord
	for rows.Next() {
		var r schema.FileScoreRecord
		if err := rows.Scan(&r.RunID, &r.FilePath, &r.Linter, &r.Score, &r.Status, &r.SkipReason); err != nil {
			return nil, fmt.Errorf("failed to scan file score: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file scores: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		recent, err := hs.GetRecentRuns(1)
		if err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunID = recent[0].RunID
		status.LastRunTime = recent[0].RunTime

		oldest, err := hs.queryRuns(fmt.Sprintf("SELECT %s FROM %s ORDER BY run_id ASC LIMIT 1", runColumns, quotedRuns))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run: %w", err)
		}
		status.OldestRunTime = oldest[0].RunTime

		passedQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE status = %s", quotedRuns, placeholder(hs.backend, 1))
		if err := hs.db.QueryRow(passedQuery, string(schema.PassedStatus)).Scan(&status.PassedRuns); err != nil {
			return status, fmt.Errorf("failed to count passed runs: %w", err)
		}
	}

	for _, table := range []string{runsTable, fileScoresTable} {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// historyTables lists the history tables, children first.
func historyTables() []string {
	return []string{fileScoresTable, runsTable}
}

