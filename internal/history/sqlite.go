package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/bdbaddog/scons-time/internal/bench"
)

// SQLiteStore keeps history in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// applies migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS timing_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project TEXT NOT NULL,
			scenario TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			elapsed REAL NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS timing_measures (
			run_id INTEGER NOT NULL REFERENCES timing_runs(id),
			graph TEXT NOT NULL,
			name TEXT NOT NULL,
			value REAL NOT NULL,
			units TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS bench_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME NOT NULL,
			commit_hash TEXT,
			results TEXT NOT NULL
		);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveTiming(run TimingRun) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO timing_runs (project, scenario, started_at, elapsed) VALUES (?, ?, ?, ?)`,
		run.Project, run.Scenario, run.StartedAt, run.ElapsedSeconds)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for _, m := range run.Measures {
		if _, err := tx.Exec(`INSERT INTO timing_measures (run_id, graph, name, value, units) VALUES (?, ?, ?, ?, ?)`,
			runID, m.Graph, m.Name, m.Value, m.Units); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListTimings(project string, limit int) ([]TimingRun, error) {
	rows, err := s.db.Query(`SELECT id, project, scenario, started_at, elapsed FROM timing_runs
		WHERE project = ? ORDER BY started_at DESC LIMIT ?`, project, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []TimingRun
	for rows.Next() {
		var run TimingRun
		if err := rows.Scan(&run.ID, &run.Project, &run.Scenario, &run.StartedAt, &run.ElapsedSeconds); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		measures, err := s.measures(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Measures = measures
	}
	return runs, nil
}

func (s *SQLiteStore) measures(runID int64) ([]Measure, error) {
	rows, err := s.db.Query(`SELECT graph, name, value, units FROM timing_measures WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var measures []Measure
	for rows.Next() {
		var m Measure
		if err := rows.Scan(&m.Graph, &m.Name, &m.Value, &m.Units); err != nil {
			return nil, err
		}
		measures = append(measures, m)
	}
	return measures, rows.Err()
}

func (s *SQLiteStore) SaveBench(run bench.Run) error {
	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO bench_runs (created_at, commit_hash, results) VALUES (?, ?, ?)`,
		run.Timestamp, run.Commit, string(results))
	return err
}

func (s *SQLiteStore) LatestBench() (*bench.Run, error) {
	row := s.db.QueryRow(`SELECT created_at, commit_hash, results FROM bench_runs ORDER BY created_at DESC LIMIT 1`)

	var run bench.Run
	var results string
	if err := row.Scan(&run.Timestamp, &run.Commit, &results); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(results), &run.Results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results: %w", err)
	}
	return &run, nil
}

// interface check
var _ Store = (*SQLiteStore)(nil)
