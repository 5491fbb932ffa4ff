// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/project-barfani/barfani/internal/metrics"
	"github.com/project-barfani/barfani/internal/models"
)

// ErrAlertNotFound is returned when an alert id has no archive row.
var ErrAlertNotFound = errors.New("alert not found")

// activeWindow is how far back ActiveAlerts looks.
const activeWindow = 24 * time.Hour

// InsertAlert persists a raised alert with its triggering reading snapshot.
func (db *DB) InsertAlert(ctx context.Context, a models.Alert) error {
	factors, err := json.Marshal(a.Factors)
	if err != nil {
		return fmt.Errorf("failed to encode alert factors: %w", err)
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO alerts (id, node_id, severity, score, factors,
			temperature_c, water_level_cm, seismic,
			water_pct_change, water_rapid, reading_ts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.NodeID, string(a.Severity), a.Score, string(factors),
		a.Reading.TemperatureC, a.Reading.WaterLevelCM, a.Reading.SeismicActivity,
		a.WaterTrend.PercentChange, a.WaterTrend.IsRapidIncrease,
		a.Reading.Timestamp, a.CreatedAt,
	)
	metrics.ObserveDBQuery("insert", "alerts", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// AlertFilter narrows the alert history query. Zero values match
// everything.
type AlertFilter struct {
	NodeID   string
	Severity models.Severity
	Limit    int
	Offset   int
}

// Alerts returns archived alerts matching the filter, newest first.
func (db *DB) Alerts(ctx context.Context, f AlertFilter) ([]models.Alert, error) {
	query := `
		SELECT id, node_id, severity, score, factors,
			temperature_c, water_level_cm, seismic,
			water_pct_change, water_rapid, reading_ts, created_at
		FROM alerts`
	var args []interface{}
	var conds []string
	if f.NodeID != "" {
		conds = append(conds, "node_id = ?")
		args = append(args, f.NodeID)
	}
	if f.Severity != "" {
		conds = append(conds, "severity = ?")
		args = append(args, string(f.Severity))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.ObserveDBQuery("select", "alerts", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanAlerts(rows)
}

// ActiveAlerts returns HIGH and CRITICAL alerts raised within the
// active window, newest first.
func (db *DB) ActiveAlerts(ctx context.Context) ([]models.Alert, error) {
	cutoff := time.Now().Add(-activeWindow)
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, node_id, severity, score, factors,
			temperature_c, water_level_cm, seismic,
			water_pct_change, water_rapid, reading_ts, created_at
		FROM alerts
		WHERE created_at >= ? AND severity IN ('HIGH', 'CRITICAL')
		ORDER BY created_at DESC`, cutoff)
	metrics.ObserveDBQuery("select", "alerts", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query active alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanAlerts(rows)
}

// GetAlert returns a single alert by id, or ErrAlertNotFound.
func (db *DB) GetAlert(ctx context.Context, id uuid.UUID) (models.Alert, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, node_id, severity, score, factors,
			temperature_c, water_level_cm, seismic,
			water_pct_change, water_rapid, reading_ts, created_at
		FROM alerts
		WHERE id = ?`, id.String())
	a, err := scanAlert(row)
	metrics.ObserveDBQuery("select", "alerts", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Alert{}, ErrAlertNotFound
	}
	if err != nil {
		return models.Alert{}, fmt.Errorf("failed to query alert: %w", err)
	}
	return a, nil
}

// AlertCount returns the total number of archived alerts.
func (db *DB) AlertCount(ctx context.Context) (int64, error) {
	start := time.Now()
	var n int64
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM alerts").Scan(&n)
	metrics.ObserveDBQuery("count", "alerts", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count alerts: %w", err)
	}
	return n, nil
}

// AlertCountsBySeverity returns alert totals grouped by severity,
// counting alerts created at or after since. A zero since counts all
// archived alerts.
func (db *DB) AlertCountsBySeverity(ctx context.Context, since time.Time) (map[string]int, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT severity, COUNT(*)
		FROM alerts
		WHERE created_at >= ?
		GROUP BY severity`, since)
	metrics.ObserveDBQuery("select", "alerts", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var sev string
		var n int
		if err := rows.Scan(&sev, &n); err != nil {
			return nil, fmt.Errorf("failed to scan alert count: %w", err)
		}
		counts[sev] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row rowScanner) (models.Alert, error) {
	var a models.Alert
	var id, severity, factors string
	if err := row.Scan(&id, &a.NodeID, &severity, &a.Score, &factors,
		&a.Reading.TemperatureC, &a.Reading.WaterLevelCM, &a.Reading.SeismicActivity,
		&a.WaterTrend.PercentChange, &a.WaterTrend.IsRapidIncrease,
		&a.Reading.Timestamp, &a.CreatedAt); err != nil {
		return models.Alert{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return models.Alert{}, fmt.Errorf("failed to parse alert id %q: %w", id, err)
	}
	a.ID = parsed
	a.Severity = models.Severity(severity)
	a.Reading.NodeID = a.NodeID
	if err := json.Unmarshal([]byte(factors), &a.Factors); err != nil {
		return models.Alert{}, fmt.Errorf("failed to decode alert factors: %w", err)
	}
	return a, nil
}

func scanAlerts(rows *sql.Rows) ([]models.Alert, error) {
	var out []models.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
