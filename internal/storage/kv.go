// Package storage provides the durable key-value store the dataset is
// persisted to: a single table in an embedded sqlite file.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/zaveorah/zaveorah-core/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// KV wraps the kv table with get/set semantics.
type KV struct {
	db     *sqlx.DB
	logger *logger.Logger
}

// Open opens (or creates) the sqlite file at path and ensures the schema.
func Open(path string, log *logger.Logger) (*KV, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure storage schema: %w", err)
	}
	return &KV{db: db, logger: log}, nil
}

// NewWithDB wraps an existing connection. Used by tests.
func NewWithDB(db *sqlx.DB, log *logger.Logger) *KV {
	return &KV{db: db, logger: log}
}

// Get returns the value stored under key and whether it was present.
func (kv *KV) Get(key string) (string, bool, error) {
	var value string
	err := kv.db.Get(&value, "SELECT value FROM kv WHERE key = ?", key)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes value under key, replacing any previous value.
func (kv *KV) Set(key, value string) error {
	_, err := kv.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Keys returns all keys with the given prefix, ordered.
func (kv *KV) Keys(prefix string) ([]string, error) {
	var keys []string
	err := kv.db.Select(&keys, "SELECT key FROM kv WHERE key LIKE ? ORDER BY key", prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

// Close closes the underlying database.
func (kv *KV) Close() error {
	return kv.db.Close()
}
