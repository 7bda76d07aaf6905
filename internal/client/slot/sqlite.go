package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pharmaintel/internal/dbx"
)

type SQLiteSlot struct {
	db *sql.DB
}

func NewSQLiteSlot(db *sql.DB) *SQLiteSlot {
	return &SQLiteSlot{db: db}
}

func (s *SQLiteSlot) Get(ctx context.Context, key string) ([]byte, error) {
	return get(ctx, s.db, key)
}

func (s *SQLiteSlot) Set(ctx context.Context, key string, value []byte) error {
	return set(ctx, s.db, key, value)
}

func (s *SQLiteSlot) SetMany(ctx context.Context, values map[string][]byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for k, v := range values {
			if err := set(ctx, tx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteSlot) Delete(ctx context.Context, keys ...string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, `DELETE FROM slot WHERE key = ?`, k); err != nil {
				return fmt.Errorf("failed to delete slot[%s]: %w", k, err)
			}
		}
		return nil
	})
}

// List returns every stored key as of one transaction.
func (s *SQLiteSlot) List(ctx context.Context) (map[string][]byte, error) {
	return dbx.Query(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (map[string][]byte, error) {
		rows, err := tx.QueryContext(ctx, `SELECT key, value FROM slot`)
		if err != nil {
			return nil, fmt.Errorf("failed to list slot: %w", err)
		}
		defer rows.Close()

		result := make(map[string][]byte)
		for rows.Next() {
			var key string
			var value []byte
			if err := rows.Scan(&key, &value); err != nil {
				return nil, fmt.Errorf("failed to scan slot row: %w", err)
			}
			result[key] = value
		}

		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate slot rows: %w", err)
		}
		return result, nil
	})
}

func get(ctx context.Context, q dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := q.QueryRowContext(ctx, `SELECT value FROM slot WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot[%s]: %w", key, err)
	}
	return value, nil
}

func set(ctx context.Context, q dbx.DBTX, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO slot (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set slot[%s]: %w", key, err)
	}
	return nil
}
