// Package store keeps a SQLite history of analyses.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/njchilds90/weierstrass"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the analysis history.
type Store struct {
	db *sql.DB
}

// Record is one stored analysis. Result is nil when the function failed the
// continuity check.
type Record struct {
	ID         int64                       `json:"id"`
	RunID      uuid.UUID                   `json:"run_id"`
	Key        string                      `json:"key"`
	Formula    string                      `json:"formula"`
	A          float64                     `json:"a"`
	B          float64                     `json:"b"`
	CreatedAt  time.Time                   `json:"created_at"`
	Continuous bool                        `json:"is_continuous"`
	Result     *weierstrass.AnalysisResult `json:"result,omitempty"`
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL,
			key TEXT NOT NULL,
			formula TEXT NOT NULL,
			a REAL NOT NULL,
			b REAL NOT NULL,
			created_at TEXT NOT NULL,
			continuous INTEGER NOT NULL,
			result_zstd BLOB
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_key ON analyses(key);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_run_id ON analyses(run_id);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Insert stores rec and returns its row id. A zero CreatedAt is set to now.
func (s *Store) Insert(ctx context.Context, rec Record) (id int64, err error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	var blob []byte
	if rec.Result != nil {
		raw, err := json.Marshal(rec.Result)
		if err != nil {
			return 0, fmt.Errorf("failed to encode result: %w", err)
		}
		blob = compress(raw)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO analyses (run_id, key, formula, a, b, created_at, continuous, result_zstd)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID.String(),
		rec.Key,
		rec.Formula,
		rec.A,
		rec.B,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		rec.Continuous,
		blob,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

const selectColumns = `SELECT id, run_id, key, formula, a, b, created_at, continuous, result_zstd FROM analyses`

// Lookup returns the most recent record stored under key.
func (s *Store) Lookup(ctx context.Context, key string) (Record, bool, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE key = ? ORDER BY id DESC LIMIT 1`, key)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// List returns up to limit records, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := selectColumns + ` ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// ListRun returns the records of one run in insertion order.
func (s *Store) ListRun(ctx context.Context, runID uuid.UUID) ([]Record, error) {
	return s.query(ctx, selectColumns+` WHERE run_id = ? ORDER BY id`, runID.String())
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec       Record
		runID     string
		createdAt string
		blob      []byte
	)
	if err := sc.Scan(&rec.ID, &runID, &rec.Key, &rec.Formula, &rec.A, &rec.B, &createdAt, &rec.Continuous, &blob); err != nil {
		return Record{}, err
	}
	id, err := uuid.Parse(runID)
	if err != nil {
		return Record{}, fmt.Errorf("record %d: bad run id: %w", rec.ID, err)
	}
	rec.RunID = id
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Record{}, fmt.Errorf("record %d: bad timestamp: %w", rec.ID, err)
	}
	if len(blob) > 0 {
		raw, err := decompress(blob)
		if err != nil {
			return Record{}, fmt.Errorf("record %d: %w", rec.ID, err)
		}
		var res weierstrass.AnalysisResult
		if err := json.Unmarshal(raw, &res); err != nil {
			return Record{}, fmt.Errorf("record %d: failed to decode result: %w", rec.ID, err)
		}
		rec.Result = &res
	}
	return rec, nil
}
