package localkv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Keys fijas del layout local: todo en una lista por key.
const (
	PetsKey  = "demo_pets"
	UsersKey = "demo_users"
)

// DefaultQuotaBytes imita el límite típico de localStorage del navegador.
const DefaultQuotaBytes = 5 << 20

var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Store es un key/value sobre una tabla SQLite con cuota total de bytes.
type Store struct {
	db    *sql.DB
	quota int64

	// serializa read-modify-write de una key
	mu sync.Mutex
}

func NewStore(ctx context.Context, db *sql.DB, quotaBytes int64) (*Store, error) {
	if quotaBytes <= 0 {
		quotaBytes = DefaultQuotaBytes
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)
	`); err != nil {
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &Store{db: db, quota: quotaBytes}, nil
}

// loadJSON decodifica la key en out. Key inexistente deja out sin tocar.
func (s *Store) loadJSON(ctx context.Context, key string, out any) error {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// saveJSON reemplaza el valor de la key, respetando la cuota total.
func (s *Store) saveJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var others int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(LENGTH(value)), 0) FROM kv WHERE key <> ?`, key,
	).Scan(&others); err != nil {
		return err
	}
	if others+int64(len(raw)) > s.quota {
		return fmt.Errorf("%w: %d of %d bytes", ErrQuotaExceeded, others+int64(len(raw)), s.quota)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, raw); err != nil {
		return err
	}
	return tx.Commit()
}

// Usage devuelve los bytes ocupados por todas las keys.
func (s *Store) Usage(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(LENGTH(value)), 0) FROM kv`).Scan(&n)
	return n, err
}
