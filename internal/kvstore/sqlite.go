package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"coursesum/internal/config"
)

// SQLite is a Store backed by a single-table SQLite database.
type SQLite struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open creates the data directory if needed and opens the store at cfg.StorePath().
func Open(cfg *config.Config) (*SQLite, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.StorePath())
}

// OpenPath opens or initializes a store at dbPath.
func OpenPath(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLite{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *SQLite) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the values present for keys. Absent keys are omitted.
func (s *SQLite) Get(ctx context.Context, keys ...string) (Values, error) {
	ctx = ensureContext(ctx)
	keys = dedupeKeys(keys)
	values := make(Values, len(keys))
	if len(keys) == 0 {
		return values, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, key := range keys {
		args[i] = key
	}

	err := retryOnBusy(ctx, func() error {
		rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM kv WHERE key IN ("+placeholders+")", args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var key, value string
			if err := rows.Scan(&key, &value); err != nil {
				return err
			}
			values[key] = []byte(value)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, &Error{Op: "get", Keys: keys, Err: err}
	}
	return values, nil
}

// Set writes every entry in one transaction.
func (s *SQLite) Set(ctx context.Context, entries map[string]any) error {
	ctx = ensureContext(ctx)
	keys := sortedKeys(entries)
	encoded, err := encodeEntries(entries)
	if err != nil {
		return &Error{Op: "set", Keys: keys, Err: err}
	}
	if len(encoded) == 0 {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	err = retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
				 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				key, string(encoded[key]), now,
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return &Error{Op: "set", Keys: keys, Err: err}
	}
	return nil
}

// Remove deletes keys. Removing an absent key is not an error.
func (s *SQLite) Remove(ctx context.Context, keys ...string) error {
	ctx = ensureContext(ctx)
	keys = dedupeKeys(keys)
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, key := range keys {
		args[i] = key
	}
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key IN ("+placeholders+")", args...)
		return err
	})
	if err != nil {
		return &Error{Op: "remove", Keys: keys, Err: err}
	}
	return nil
}

// Keys lists every stored key in lexical order.
func (s *SQLite) Keys(ctx context.Context) ([]string, error) {
	ctx = ensureContext(ctx)
	var keys []string
	err := retryOnBusy(ctx, func() error {
		keys = keys[:0]
		rows, err := s.db.QueryContext(ctx, "SELECT key FROM kv ORDER BY key")
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var key string
			if err := rows.Scan(&key); err != nil {
				return err
			}
			keys = append(keys, key)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, &Error{Op: "keys", Err: err}
	}
	return keys, nil
}
