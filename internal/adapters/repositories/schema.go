package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var sqliteSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		current_location TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		dropoff_location TEXT NOT NULL,
		current_cycle_used_hrs REAL NOT NULL,
		route_distance_miles REAL,
		route_duration_hours REAL,
		route_geometry TEXT,
		start_time TEXT,
		daily_logs TEXT,
		stops TEXT,
		final_cycle_used_hrs REAL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_trips_created_at
	ON trips(created_at);
	`,
	`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon REAL NOT NULL,
        lat REAL NOT NULL
    );
	`,
	`
	CREATE TABLE IF NOT EXISTS route_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters REAL NOT NULL,
        duration_seconds REAL NOT NULL,
        geometry TEXT,
        cached_at INTEGER NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`,
}

var postgresSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		current_location TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		dropoff_location TEXT NOT NULL,
		current_cycle_used_hrs DOUBLE PRECISION NOT NULL,
		route_distance_miles DOUBLE PRECISION,
		route_duration_hours DOUBLE PRECISION,
		route_geometry JSONB,
		start_time TIMESTAMPTZ,
		daily_logs JSONB,
		stops JSONB,
		final_cycle_used_hrs DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_trips_created_at
	ON trips(created_at DESC);
	`,
	`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon DOUBLE PRECISION NOT NULL,
        lat DOUBLE PRECISION NOT NULL
    );
	`,
	`
	CREATE TABLE IF NOT EXISTS route_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters DOUBLE PRECISION NOT NULL,
        duration_seconds DOUBLE PRECISION NOT NULL,
        geometry JSONB,
        cached_at BIGINT NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`,
}

// Initialize the SQLite database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	return initSchema(ctx, db, sqliteSchema)
}

// Initialize the PostgreSQL database schema.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	return initSchema(ctx, db, postgresSchema)
}

func initSchema(ctx context.Context, db *sql.DB, statements []string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
