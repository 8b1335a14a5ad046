package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venuedesk/tableops/config"
)

// Connect opens the PostgreSQL pool and verifies the connection.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// ApplySchema creates the tables and indexes the service needs. The partial
// unique index on open sessions is the defense-in-depth backstop for the
// one-open-session-per-table invariant; the single write path in the
// repository layer is the primary mechanism.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS venue_resources (
			id BIGSERIAL PRIMARY KEY,
			venue_id BIGINT NOT NULL,
			label VARCHAR(128) NOT NULL,
			capacity INT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_venue_resources_venue ON venue_resources (venue_id)`,

		`CREATE TABLE IF NOT EXISTS table_sessions (
			id BIGSERIAL PRIMARY KEY,
			venue_id BIGINT NOT NULL,
			resource_id BIGINT NOT NULL REFERENCES venue_resources (id),
			status VARCHAR(16) NOT NULL CHECK (status IN ('FREE', 'OCCUPIED')),
			opened_at TIMESTAMPTZ NOT NULL,
			closed_at TIMESTAMPTZ,
			staff_id VARCHAR(64),
			order_id BIGINT
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_table_sessions_one_open
			ON table_sessions (resource_id) WHERE closed_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_table_sessions_venue_closed
			ON table_sessions (venue_id, closed_at)`,

		`CREATE TABLE IF NOT EXISTS reservations (
			id BIGSERIAL PRIMARY KEY,
			venue_id BIGINT NOT NULL,
			resource_id BIGINT REFERENCES venue_resources (id),
			customer_name VARCHAR(256) NOT NULL,
			party_size INT NOT NULL,
			start_at TIMESTAMPTZ NOT NULL,
			end_at TIMESTAMPTZ NOT NULL,
			status VARCHAR(16) NOT NULL CHECK (status IN ('BOOKED', 'CHECKED_IN', 'CANCELLED', 'NO_SHOW')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_venue_status_start
			ON reservations (venue_id, status, start_at)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			venue_id BIGINT NOT NULL,
			resource_id BIGINT,
			session_id BIGINT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			status VARCHAR(32) NOT NULL DEFAULT 'open',
			settled BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_venue_created ON orders (venue_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_session ON orders (session_id)`,

		`CREATE TABLE IF NOT EXISTS table_sessions_archive (
			id BIGINT PRIMARY KEY,
			venue_id BIGINT NOT NULL,
			resource_id BIGINT NOT NULL,
			status VARCHAR(16) NOT NULL,
			opened_at TIMESTAMPTZ NOT NULL,
			closed_at TIMESTAMPTZ NOT NULL,
			staff_id VARCHAR(64),
			order_id BIGINT
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
