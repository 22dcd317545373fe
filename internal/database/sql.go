package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// sqlStore keeps values in a two-column kv table. The queries differ only
// in placeholder style between drivers.
type sqlStore struct {
	db       *sql.DB
	getQuery string
	putQuery string
}

func (s *sqlStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.getQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *sqlStore) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.putQuery, key, string(value)); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection pool
func (s *sqlStore) DB() *sql.DB {
	return s.db
}

// PoolReporter is implemented by backends that sit on a database/sql pool
type PoolReporter interface {
	Stats() sql.DBStats
}

// Stats returns connection pool statistics
func (s *sqlStore) Stats() sql.DBStats {
	return s.db.Stats()
}
