// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/project-barfani/barfani/internal/metrics"
	"github.com/project-barfani/barfani/internal/models"
)

// InsertReading appends a sensor reading to the archive.
func (db *DB) InsertReading(ctx context.Context, r models.SensorReading) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO readings (node_id, ts, received_at, temperature_c, water_level_cm, seismic, battery_pct, signal_strength)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.NodeID, r.Timestamp, r.ReceivedAt,
		r.TemperatureC, r.WaterLevelCM, r.SeismicActivity,
		nullableFloat(r.BatteryPct), nullableFloat(r.SignalStrength),
	)
	metrics.ObserveDBQuery("insert", "readings", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}

// Readings returns archived readings for a node, newest first.
func (db *DB) Readings(ctx context.Context, nodeID string, limit int) ([]models.SensorReading, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT node_id, ts, received_at, temperature_c, water_level_cm, seismic, battery_pct, signal_strength
		FROM readings
		WHERE node_id = ?
		ORDER BY received_at DESC
		LIMIT ?`, nodeID, limit)
	metrics.ObserveDBQuery("select", "readings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.SensorReading
	for rows.Next() {
		var r models.SensorReading
		var battery, signal sql.NullFloat64
		if err := rows.Scan(&r.NodeID, &r.Timestamp, &r.ReceivedAt,
			&r.TemperatureC, &r.WaterLevelCM, &r.SeismicActivity,
			&battery, &signal); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		if battery.Valid {
			v := battery.Float64
			r.BatteryPct = &v
		}
		if signal.Valid {
			v := signal.Float64
			r.SignalStrength = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReadingCount returns the total number of archived readings.
func (db *DB) ReadingCount(ctx context.Context) (int64, error) {
	start := time.Now()
	var n int64
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM readings").Scan(&n)
	metrics.ObserveDBQuery("count", "readings", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return n, nil
}

// NodeCount returns the number of distinct nodes in the archive.
func (db *DB) NodeCount(ctx context.Context) (int64, error) {
	start := time.Now()
	var n int64
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(DISTINCT node_id) FROM readings").Scan(&n)
	metrics.ObserveDBQuery("count", "readings", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count nodes: %w", err)
	}
	return n, nil
}

func nullableFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
