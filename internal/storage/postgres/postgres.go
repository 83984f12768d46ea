// Package postgres keeps save slots in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/corsair/internal/config"
	"github.com/cory-johannsen/corsair/internal/storage"
)

// ErrSchemaMissing is returned by Open when the saves table has not been
// created yet; cmd/migrate creates it.
var ErrSchemaMissing = errors.New("saves table missing, run the migrations first")

const pingTimeout = 5 * time.Second

// Store is a SaveRepository that owns its connection pool.
type Store struct {
	*SaveRepository
	pool *pgxpool.Pool
}

// Open connects to the database described by cfg and returns a Store over
// its saves table.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a Store whose database answered a ping and holds the
// saves table, or a non-nil error with no connections left open.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var table *string
	if err := pool.QueryRow(ctx, `SELECT to_regclass('saves')::text`).Scan(&table); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.Open: checking schema: %w", err)
	}
	if table == nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.Open: %w", ErrSchemaMissing)
	}
	return &Store{SaveRepository: NewSaveRepository(pool, logger), pool: pool}, nil
}

// Connect opens a pgx pool sized by cfg and pings it.
//
// Postcondition: Returns a pool that answered a ping within pingTimeout, or a
// non-nil error.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres.Connect: parsing config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.Connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.Connect: ping %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return pool, nil
}

// Close releases every pooled connection.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

var _ storage.Store = (*Store)(nil)
