// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

// Package database provides the DuckDB archive for readings and alerts.
//
// The archive is the durable complement to the in-memory reading windows:
// every accepted reading and every raised alert is appended here, and the
// analytics endpoints aggregate over it. The embedded reading snapshot on
// an alert keeps old alerts interpretable after windows roll over.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/project-barfani/barfani/internal/config"
	"github.com/project-barfani/barfani/internal/logging"
	"github.com/project-barfani/barfani/internal/metrics"
)

// DB wraps the DuckDB connection and provides archive access methods.
type DB struct {
	conn *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS readings (
	node_id         VARCHAR NOT NULL,
	ts              TIMESTAMP NOT NULL,
	received_at     TIMESTAMP NOT NULL,
	temperature_c   DOUBLE NOT NULL,
	water_level_cm  DOUBLE NOT NULL,
	seismic         DOUBLE NOT NULL,
	battery_pct     DOUBLE,
	signal_strength DOUBLE
);

CREATE TABLE IF NOT EXISTS alerts (
	id               VARCHAR PRIMARY KEY,
	node_id          VARCHAR NOT NULL,
	severity         VARCHAR NOT NULL,
	score            INTEGER NOT NULL,
	factors          VARCHAR NOT NULL,
	temperature_c    DOUBLE NOT NULL,
	water_level_cm   DOUBLE NOT NULL,
	seismic          DOUBLE NOT NULL,
	water_pct_change DOUBLE NOT NULL,
	water_rapid      BOOLEAN NOT NULL,
	reading_ts       TIMESTAMP NOT NULL,
	created_at       TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_readings_node ON readings (node_id, received_at);
CREATE INDEX IF NOT EXISTS idx_alerts_created ON alerts (created_at);
`

// New opens (or creates) the archive and initializes the schema.
// An empty path opens an in-memory database.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	if cfg.Path != "" {
		dir := filepath.Dir(cfg.Path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	conn, err := sql.Open("duckdb", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	if _, err := conn.ExecContext(ctx, fmt.Sprintf("SET threads = %d", threads)); err != nil {
		logging.Warn().Err(err).Msg("failed to set database threads")
	}
	if cfg.MaxMemory != "" {
		if _, err := conn.ExecContext(ctx, fmt.Sprintf("SET memory_limit = '%s'", cfg.MaxMemory)); err != nil {
			logging.Warn().Err(err).Msg("failed to set database memory limit")
		}
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Msg("archive database ready")
	return &DB{conn: conn}, nil
}

// Close releases the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Reset truncates the archive. Used by the demo/simulation reset
// endpoint, never in normal operation.
func (db *DB) Reset(ctx context.Context) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, "DELETE FROM readings; DELETE FROM alerts;")
	metrics.ObserveDBQuery("reset", "all", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to reset archive: %w", err)
	}
	return nil
}
