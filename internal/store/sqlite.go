package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Leumas-Tech/CircuitBuilder/pkg/circuit"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps circuits as JSON documents in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath. Use ":memory:"
// for a throwaway store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("store: failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS circuits (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		data JSON NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) ListCircuits(ctx context.Context) ([]*circuit.Circuit, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM circuits ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: failed to query circuits: %w", err)
	}
	defer rows.Close()

	var out []*circuit.Circuit
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("store: failed to scan circuit: %w", err)
		}
		c, err := decodeCircuit(id, data)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: error iterating circuits: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) GetCircuit(ctx context.Context, id string) (*circuit.Circuit, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM circuits WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: failed to query circuit: %w", err)
	}
	return decodeCircuit(id, data)
}

func (s *SQLiteStore) SaveCircuit(ctx context.Context, c *circuit.Circuit) error {
	if err := ValidateID(c.ID); err != nil {
		return err
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("store: failed to encode circuit %s: %w", c.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO circuits (id, name, data) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP
	`, c.ID, c.Name, data)
	if err != nil {
		return fmt.Errorf("store: failed to save circuit %s: %w", c.ID, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func decodeCircuit(id string, data []byte) (*circuit.Circuit, error) {
	var c circuit.Circuit
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("store: failed to unmarshal circuit %s: %w", id, err)
	}
	c.ID = id
	return &c, nil
}
