// Package store persists executor run history to SQLite so verdicts and
// scores can be reported on later without re-running experiments.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/marcosUNLP/qonscious/results"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	backend    TEXT NOT NULL,
	condition  TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS fom_results (
	run_id          TEXT NOT NULL REFERENCES runs(run_id),
	position        INTEGER NOT NULL,
	figure_of_merit TEXT NOT NULL,
	score           REAL NOT NULL,
	properties      TEXT NOT NULL,
	PRIMARY KEY (run_id, position)
);
`

type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open creates or opens the history database at path and ensures the
// schema exists.
func Open(path string, log zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating results dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveRun records one executor outcome with all its figure-of-merit
// results.
func (s *Store) SaveRun(res *results.QonsciousResult, backendName string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	createdAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(
		`INSERT INTO runs (run_id, backend, condition, created_at) VALUES (?, ?, ?, ?)`,
		res.RunID, backendName, res.Condition, createdAt,
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for i, fr := range res.FigureOfMeritResults {
		score, _ := fr.Score()
		props, err := json.Marshal(fr.Properties)
		if err != nil {
			return fmt.Errorf("marshaling properties: %w", err)
		}
		if _, err := tx.Exec(
			`INSERT INTO fom_results (run_id, position, figure_of_merit, score, properties)
			 VALUES (?, ?, ?, ?, ?)`,
			res.RunID, i, fr.FigureOfMerit, score, string(props),
		); err != nil {
			return fmt.Errorf("inserting fom result %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	s.log.Debug().Str("run_id", res.RunID).Str("condition", res.Condition).Msg("run saved")
	return nil
}

// RunRecord is one stored executor run.
type RunRecord struct {
	RunID     string        `json:"run_id"`
	Backend   string        `json:"backend"`
	Condition string        `json:"condition"`
	CreatedAt time.Time     `json:"created_at"`
	Checks    []CheckRecord `json:"checks"`
}

// CheckRecord is one stored figure-of-merit result.
type CheckRecord struct {
	FigureOfMerit string         `json:"figure_of_merit"`
	Score         float64        `json:"score"`
	Properties    map[string]any `json:"properties"`
}

// ListRuns returns the most recent runs, newest first, with their check
// records in submission order. limit <= 0 means no limit.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	q := `SELECT run_id, backend, condition, created_at FROM runs ORDER BY created_at DESC, run_id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var createdAt string
		if err := rows.Scan(&r.RunID, &r.Backend, &r.Condition, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		checks, err := s.listChecks(runs[i].RunID)
		if err != nil {
			return nil, err
		}
		runs[i].Checks = checks
	}
	return runs, nil
}

func (s *Store) listChecks(runID string) ([]CheckRecord, error) {
	rows, err := s.db.Query(
		`SELECT figure_of_merit, score, properties FROM fom_results
		 WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying fom results: %w", err)
	}
	defer rows.Close()

	var records []CheckRecord
	for rows.Next() {
		var c CheckRecord
		var props string
		if err := rows.Scan(&c.FigureOfMerit, &c.Score, &props); err != nil {
			return nil, fmt.Errorf("scanning fom result: %w", err)
		}
		if err := json.Unmarshal([]byte(props), &c.Properties); err != nil {
			return nil, fmt.Errorf("parsing stored properties: %w", err)
		}
		records = append(records, c)
	}
	return records, rows.Err()
}
