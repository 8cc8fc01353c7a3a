package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite stores the blob in a single-table SQLite database.
type SQLite struct {
	key string
	db  *sql.DB
}

var _ Adapter = (*SQLite)(nil)

// NewSQLite opens (or creates) the database at path and ensures the schema.
func NewSQLite(path, key string) (*SQLite, error) {
	if path == "" {
		return nil, NewError(OpOpen, key, errors.New("required sqlite path"))
	}
	if key == "" {
		return nil, NewError(OpOpen, key, errors.New("required key"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, NewError(OpOpen, key, fmt.Errorf("create sqlite dir: %w", err))
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, NewError(OpOpen, key, err)
	}
	// One writer at a time; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	s := &SQLite{key: key, db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, NewError(OpOpen, key, err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

func (s *SQLite) Key() string {
	return s.key
}

func (s *SQLite) Load(ctx context.Context) (string, bool, error) {
	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, wrap(OpLoad, s.key, err)
	}
	return blob, true, nil
}

func (s *SQLite) Save(ctx context.Context, blob string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, s.key, blob)
	return wrap(OpSave, s.key, err)
}

func (s *SQLite) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, s.key)
	return wrap(OpClear, s.key, err)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
