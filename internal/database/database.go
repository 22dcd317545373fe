// Package database provides the durable key-value backends behind the
// hotel store. Every backend holds opaque byte values under string keys;
// the repository layer decides what the bytes mean.
package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rincondelcarmen/hotel-booking/pkg/config"
)

// ErrClosed is returned by backends used after Close
var ErrClosed = errors.New("database: backend closed")

// Backend is a durable key-value store
type Backend interface {
	// Get returns the value under key. ok is false when the key was never written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Put replaces the value under key.
	Put(ctx context.Context, key string, value []byte) error
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// Open selects and opens the backend named by cfg.StoreDriver
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverFile:
		return NewFile(cfg.StoreLocation())
	case config.DriverSQLite:
		dsn := cfg.StoreLocation()
		if err := ensureParentDir(dsn); err != nil {
			return nil, err
		}
		return NewSQLite(dsn)
	case config.DriverPostgres:
		pg, err := NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(pg.DB()); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	case config.DriverRedis:
		return NewRedis(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// ensureParentDir creates the directory holding a sqlite database file.
// In-memory and URI style DSNs are left to the driver.
func ensureParentDir(dsn string) error {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}
