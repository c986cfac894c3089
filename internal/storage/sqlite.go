// Package storage provides the SQLite session ledger: which runs were played
// and which meetings each run destroyed, declined or kept.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Memory is the DSN of a process-lifetime ledger.
const Memory = ":memory:"

// ErrUnknownRun is returned when a run id has no ledger row.
var ErrUnknownRun = errors.New("storage: unknown run")

// Store manages the SQLite database connection of the ledger.
type Store struct {
	db *sql.DB
}

// RunInfo describes a run when it begins.
type RunInfo struct {
	Layout    string
	Preset    string
	Seed      int64
	StartedAt time.Time
}

// Run is one ledger row.
type Run struct {
	ID         string
	Layout     string
	Preset     string
	Seed       int64
	StartedAt  time.Time
	FinishedAt time.Time // zero while running
	Outcome    string    // empty while running
	Ticks      int64
	Destroyed  int
}

// Finished reports whether the run has an outcome.
func (r Run) Finished() bool {
	return r.Outcome != ""
}

// DestroyedEntry is one meeting hit during a run.
type DestroyedEntry struct {
	ObstacleID string
	Label      string
	Tick       int64
	Declined   bool
	Pressed    string // control pressed when declining
}

// Open opens a ledger. An empty path or Memory keeps it in memory for the
// lifetime of the process; any other path is created with its parent
// directories.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = Memory
	}

	if dbPath != Memory {
		// Expand ~ to home directory
		if dbPath[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
			}
			dbPath = filepath.Join(home, dbPath[1:])
		}

		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			layout TEXT NOT NULL,
			preset TEXT NOT NULL DEFAULT '',
			seed INTEGER NOT NULL DEFAULT 0,
			started_at INTEGER NOT NULL,
			finished_at INTEGER,
			outcome TEXT,
			ticks INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

		CREATE TABLE IF NOT EXISTS destroyed (
			run_id TEXT NOT NULL REFERENCES runs(id),
			obstacle_id TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			tick INTEGER NOT NULL,
			declined INTEGER NOT NULL DEFAULT 0,
			pressed TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (run_id, obstacle_id)
		);
		CREATE INDEX IF NOT EXISTS idx_destroyed_tick ON destroyed(run_id, tick);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BeginRun records a new run and returns its id.
func (s *Store) BeginRun(info RunInfo) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO runs (id, layout, preset, seed, started_at) VALUES (?, ?, ?, ?, ?)",
		id, info.Layout, info.Preset, info.Seed, info.StartedAt.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin run: %w", err)
	}
	return id, nil
}

// RecordDestroyed adds a destroyed meeting to a run. Recording the same
// meeting twice keeps the first tick.
func (s *Store) RecordDestroyed(runID, obstacleID, label string, tick int64) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO destroyed (run_id, obstacle_id, label, tick)
		 VALUES (?, ?, ?, ?)`,
		runID, obstacleID, label, tick,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record destroyed %s: %w", obstacleID, err)
	}
	return nil
}

// FinishRun stores the outcome of a run.
func (s *Store) FinishRun(runID, outcome string, ticks int64, at time.Time) error {
	res, err := s.db.Exec(
		"UPDATE runs SET outcome = ?, ticks = ?, finished_at = ? WHERE id = ?",
		outcome, ticks, at.UnixMilli(), runID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	return expectRow(res, runID)
}

// Destroyed lists the meetings a run destroyed, in tick order.
func (s *Store) Destroyed(runID string) ([]DestroyedEntry, error) {
	rows, err := s.db.Query(
		`SELECT obstacle_id, label, tick, declined, pressed
		 FROM destroyed
		 WHERE run_id = ?
		 ORDER BY tick, rowid`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query destroyed: %w", err)
	}
	defer rows.Close()

	var entries []DestroyedEntry
	for rows.Next() {
		var e DestroyedEntry
		if err := rows.Scan(&e.ObstacleID, &e.Label, &e.Tick, &e.Declined, &e.Pressed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// MarkDeclined records that a destroyed meeting was declined by pressing
// the given control.
func (s *Store) MarkDeclined(runID, obstacleID, pressed string) error {
	res, err := s.db.Exec(
		"UPDATE destroyed SET declined = 1, pressed = ? WHERE run_id = ? AND obstacle_id = ?",
		pressed, runID, obstacleID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot mark declined: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("storage: %s was not destroyed in run %s", obstacleID, runID)
	}
	return nil
}

// ClearDestroyed forgets the run's destroyed meetings that were not
// declined. It returns how many were cleared.
func (s *Store) ClearDestroyed(runID string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM destroyed WHERE run_id = ? AND declined = 0", runID)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear destroyed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	return n, nil
}

const runColumns = `r.id, r.layout, r.preset, r.seed, r.started_at, r.finished_at, r.outcome, r.ticks,
	(SELECT COUNT(*) FROM destroyed d WHERE d.run_id = r.id)`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r        Run
		started  int64
		finished sql.NullInt64
		outcome  sql.NullString
	)
	if err := row.Scan(&r.ID, &r.Layout, &r.Preset, &r.Seed, &started, &finished, &outcome, &r.Ticks, &r.Destroyed); err != nil {
		return r, err
	}
	r.StartedAt = time.UnixMilli(started)
	if finished.Valid {
		r.FinishedAt = time.UnixMilli(finished.Int64)
	}
	r.Outcome = outcome.String
	return r, nil
}

// Run retrieves a run by id. Returns nil when it does not exist.
func (s *Store) Run(runID string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow("SELECT "+runColumns+" FROM runs r WHERE r.id = ?", runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// Runs retrieves the most recent runs.
func (s *Store) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query("SELECT "+runColumns+" FROM runs r ORDER BY r.started_at DESC, r.rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// OutcomeCounts returns how many finished runs ended with each outcome.
func (s *Store) OutcomeCounts() (map[string]int, error) {
	rows, err := s.db.Query("SELECT outcome, COUNT(*) FROM runs WHERE outcome IS NOT NULL GROUP BY outcome")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		counts[outcome] = n
	}

	return counts, rows.Err()
}

func expectRow(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}
	return nil
}
