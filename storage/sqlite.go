package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pthm-cable/critters/neural"
)

// SQLiteStore archives brains in a SQLite file. Brains are stored as JSON.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveBrain(ctx context.Context, rec BrainRecord) error {
	if err := validate(rec); err != nil {
		return err
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	var payload bytes.Buffer
	if err := neural.Encode(&payload, rec.Brain, neural.FormatJSON); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO brains (id, run_id, creature_id, tick, fitness, eaten, spawns, generation, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fitness = excluded.fitness,
			eaten = excluded.eaten,
			spawns = excluded.spawns,
			payload = excluded.payload
	`, rec.ID, rec.RunID, rec.CreatureID, rec.Tick, rec.Fitness, rec.Eaten, rec.Spawns, rec.Generation,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano), payload.Bytes())
	return err
}

const selectBrain = `SELECT id, run_id, creature_id, tick, fitness, eaten, spawns, generation, created_at, payload FROM brains`

func (s *SQLiteStore) GetBrain(ctx context.Context, id string) (BrainRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return BrainRecord{}, err
	}

	rec, err := scanBrain(db.QueryRowContext(ctx, selectBrain+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return BrainRecord{}, ErrNotFound
	}
	return rec, err
}

func (s *SQLiteStore) ListBrains(ctx context.Context, limit int) ([]BrainRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1 // no limit
	}

	rows, err := db.QueryContext(ctx, selectBrain+` ORDER BY fitness DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BrainRecord
	for rows.Next() {
		rec, err := scanBrain(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.db, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBrain(row rowScanner) (BrainRecord, error) {
	var (
		rec     BrainRecord
		created string
		payload []byte
	)
	if err := row.Scan(&rec.ID, &rec.RunID, &rec.CreatureID, &rec.Tick, &rec.Fitness, &rec.Eaten,
		&rec.Spawns, &rec.Generation, &created, &payload); err != nil {
		return BrainRecord{}, err
	}

	brain, err := neural.Decode(bytes.NewReader(payload), neural.FormatJSON)
	if err != nil {
		return BrainRecord{}, fmt.Errorf("decode brain %s: %w", rec.ID, err)
	}
	rec.Brain = brain
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		rec.CreatedAt = t
	}
	return rec, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS brains (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			creature_id INTEGER NOT NULL,
			tick INTEGER NOT NULL,
			fitness REAL NOT NULL,
			eaten REAL NOT NULL,
			spawns INTEGER NOT NULL,
			generation INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS brains_fitness ON brains (fitness DESC);
	`)
	return err
}
