package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const defaultListLimit = 50

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	insertRunStmt    *sql.Stmt
	insertReportStmt *sql.Stmt
	getRunStmt       *sql.Stmt
	listRunsStmt     *sql.Stmt
	reportsByRunStmt *sql.Stmt
}

var sqliteOpen = sql.Open

// NewSQLiteStore opens or creates a SQLite store at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: empty sqlite path")
	}
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create sqlite dir: %w", err)
			}
		}
	}

	db, err := sqliteOpen("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty
		// in-memory database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	st := &SQLiteStore{db: db}
	if err := st.prepareStatements(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			stage TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			n_instances INTEGER NOT NULL,
			n_attempts INTEGER NOT NULL,
			execution_seconds REAL NOT NULL,
			evaluation_seconds REAL NOT NULL,
			artifact_path TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS reports (
			run_id TEXT NOT NULL,
			aggregator TEXT NOT NULL,
			outer REAL NOT NULL,
			inner_json TEXT NOT NULL,
			PRIMARY KEY (run_id, aggregator),
			FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}

	type stmtSpec struct {
		dst   **sql.Stmt
		query string
		label string
	}

	specs := []stmtSpec{
		{
			dst: &s.insertRunStmt,
			query: `
				INSERT INTO runs (
					id, name, stage, created_at, n_instances, n_attempts,
					execution_seconds, evaluation_seconds, artifact_path
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
			label: "insert run",
		},
		{
			dst: &s.insertReportStmt,
			query: `
				INSERT INTO reports (run_id, aggregator, outer, inner_json)
				VALUES (?, ?, ?, ?)
			`,
			label: "insert report",
		},
		{
			dst: &s.getRunStmt,
			query: `
				SELECT id, name, stage, created_at, n_instances, n_attempts,
					execution_seconds, evaluation_seconds, artifact_path
				FROM runs WHERE id = ?
			`,
			label: "get run",
		},
		{
			dst: &s.listRunsStmt,
			query: `
				SELECT id, name, stage, created_at, n_instances, n_attempts,
					execution_seconds, evaluation_seconds, artifact_path
				FROM runs ORDER BY created_at DESC LIMIT ?
			`,
			label: "list runs",
		},
		{
			dst: &s.reportsByRunStmt,
			query: `
				SELECT run_id, aggregator, outer, inner_json
				FROM reports WHERE run_id = ? ORDER BY aggregator
			`,
			label: "reports by run",
		},
	}

	for _, spec := range specs {
		stmt, err := s.db.Prepare(spec.query)
		if err != nil {
			return fmt.Errorf("store: prepare %s: %w", spec.label, err)
		}
		*spec.dst = stmt
	}
	return nil
}

// SaveRun persists one run summary and its aggregator reports in a
// single transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *RunRecord, reports []*ReportRecord) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}
	if run == nil {
		return errors.New("store: nil run record")
	}
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("store: run record has no id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if _, err := tx.StmtContext(ctx, s.insertRunStmt).ExecContext(ctx,
		run.ID, run.Name, run.Stage, createdAt.Unix(), run.NInstances, run.NAttempts,
		run.ExecutionSeconds, run.EvaluationSeconds, run.ArtifactPath,
	); err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}

	for _, rep := range reports {
		if rep == nil {
			continue
		}
		inner, err := json.Marshal(rep.Inner)
		if err != nil {
			return fmt.Errorf("store: marshal inner values: %w", err)
		}
		if _, err := tx.StmtContext(ctx, s.insertReportStmt).ExecContext(ctx,
			run.ID, rep.Aggregator, rep.Outer, string(inner),
		); err != nil {
			return fmt.Errorf("store: insert report: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// GetRun returns one run summary by id.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	row := s.getRunStmt.QueryRowContext(ctx, strings.TrimSpace(id))
	return scanRun(row)
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.listRunsStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// GetReports returns the aggregator reports stored for a run.
func (s *SQLiteStore) GetReports(ctx context.Context, runID string) ([]*ReportRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}

	rows, err := s.reportsByRunStmt.QueryContext(ctx, strings.TrimSpace(runID))
	if err != nil {
		return nil, fmt.Errorf("store: reports by run: %w", err)
	}
	defer rows.Close()

	var out []*ReportRecord
	for rows.Next() {
		rep := &ReportRecord{}
		var innerJSON string
		if err := rows.Scan(&rep.RunID, &rep.Aggregator, &rep.Outer, &innerJSON); err != nil {
			return nil, fmt.Errorf("store: scan report: %w", err)
		}
		if innerJSON != "" {
			if err := json.Unmarshal([]byte(innerJSON), &rep.Inner); err != nil {
				return nil, fmt.Errorf("store: parse inner values: %w", err)
			}
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	run := &RunRecord{}
	var createdAt int64
	var artifactPath sql.NullString
	if err := row.Scan(&run.ID, &run.Name, &run.Stage, &createdAt, &run.NInstances,
		&run.NAttempts, &run.ExecutionSeconds, &run.EvaluationSeconds, &artifactPath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("store: run not found")
		}
		return nil, fmt.Errorf("store: scan run: %w", err)
	}
	run.CreatedAt = time.Unix(createdAt, 0)
	run.ArtifactPath = artifactPath.String
	return run, nil
}

// Close releases prepared statements and the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil {
		return nil
	}
	for _, stmt := range []*sql.Stmt{
		s.insertRunStmt, s.insertReportStmt, s.getRunStmt, s.listRunsStmt, s.reportsByRunStmt,
	} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
