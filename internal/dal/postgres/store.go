package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/dukan/internal/dal/interfaces/ikvstore"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgDiskFull is the SQLSTATE Postgres reports when it runs out of space.
const pgDiskFull = "53100"

// Store implements the key/value store on the kv_store table.
type Store struct {
	client *Client
	qb     sq.StatementBuilderType
}

// NewStore creates a new key/value store.
func NewStore(client *Client) *Store {
	return &Store{
		client: client,
		qb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := s.qb.Select("value").
		From("kv_store").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var value []byte
	err = s.client.Pool().QueryRow(ctx, query, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ikvstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get value: %w", err)
	}

	return value, nil
}

// Set inserts or overwrites the value stored under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := s.qb.Insert("kv_store").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now()).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := s.client.Pool().Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgDiskFull {
			return fmt.Errorf("%w: %w", ikvstore.ErrQuotaExceeded, err)
		}

		return fmt.Errorf("failed to set value: %w", err)
	}

	return nil
}

// Remove deletes the value stored under key.
func (s *Store) Remove(ctx context.Context, key string) error {
	query, args, err := s.qb.Delete("kv_store").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := s.client.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to remove value: %w", err)
	}

	return nil
}
