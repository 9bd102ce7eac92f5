package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// SQLite is a KV persisted in a single sqlite table.
type SQLite struct {
	conn  *sql.DB
	quota int64
}

// NewSQLite opens the database at path and runs migrations. A quota <= 0
// means unlimited.
func NewSQLite(path string, quota int64) (*SQLite, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// ":memory:" databases are per connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	db := &SQLite{conn: conn, quota: quota}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *SQLite) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Get implements KV.
func (db *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set implements KV. The quota check and the write share a transaction.
func (db *SQLite) Set(ctx context.Context, key, value string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if db.quota > 0 {
		var others int64
		err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(SUM(length(CAST(key AS BLOB)) + length(CAST(value AS BLOB))), 0) FROM kv WHERE key != ?",
			key,
		).Scan(&others)
		if err != nil {
			return err
		}
		if others+entrySize(key, value) > db.quota {
			return ErrQuotaExceeded
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Remove implements KV.
func (db *SQLite) Remove(ctx context.Context, key string) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return err
}

// Close closes the database connection.
func (db *SQLite) Close() error {
	return db.conn.Close()
}
