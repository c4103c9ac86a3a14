// Package postgres implements the menu repository on PostgreSQL via pgxpool.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type Store struct {
	db  *pgxpool.Pool
	log zerolog.Logger
}

// Connect opens a pool for dsn, pings it and makes sure the schema exists.
func Connect(ctx context.Context, dsn string, log zerolog.Logger) (*Store, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	log.Info().Str("host", config.ConnConfig.Host).Msg("connected to postgres")
	return &Store{db: db, log: log.With().Str("store", "postgres").Logger()}, nil
}

func (s *Store) Close() error {
	s.db.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func initSchema(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			restaurant_id TEXT NOT NULL,
			name          TEXT NOT NULL,
			name_key      TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (restaurant_id, name_key)
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			restaurant_id TEXT NOT NULL,
			category_id   UUID NULL REFERENCES categories(id) ON DELETE SET NULL,
			name          TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			price         NUMERIC(12,2) NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_restaurant ON products(restaurant_id)`,
	}
	for _, q := range stmts {
		if _, err := db.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
