// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/project-barfani/barfani/internal/config"
	"github.com/project-barfani/barfani/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(&config.DatabaseConfig{Path: ""})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testReading(nodeID string, ts time.Time) models.SensorReading {
	battery := 87.5
	return models.SensorReading{
		NodeID:          nodeID,
		Timestamp:       ts,
		ReceivedAt:      ts,
		TemperatureC:    -2.5,
		WaterLevelCM:    245.0,
		SeismicActivity: 0.12,
		BatteryPct:      &battery,
	}
}

func testAlert(nodeID string, createdAt time.Time, sev models.Severity) models.Alert {
	return models.Alert{
		ID:       uuid.New(),
		NodeID:   nodeID,
		Severity: sev,
		Score:    75,
		Factors:  []string{"Temperature above threshold: 12.0°C > 10.0°C"},
		Reading: models.SensorReading{
			NodeID:          nodeID,
			Timestamp:       createdAt,
			TemperatureC:    12.0,
			WaterLevelCM:    310.0,
			SeismicActivity: 0.6,
		},
		WaterTrend: models.WaterTrend{IsRapidIncrease: true, PercentChange: 24.5},
		CreatedAt:  createdAt,
	}
}

func TestInsertAndQueryReadings(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 5; i++ {
		r := testReading("hunza-01", base.Add(time.Duration(i)*time.Minute))
		if err := db.InsertReading(ctx, r); err != nil {
			t.Fatalf("InsertReading() error = %v", err)
		}
	}
	if err := db.InsertReading(ctx, testReading("passu-02", base)); err != nil {
		t.Fatalf("InsertReading() error = %v", err)
	}

	got, err := db.Readings(ctx, "hunza-01", 3)
	if err != nil {
		t.Fatalf("Readings() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Readings() returned %d rows, want 3", len(got))
	}
	if !got[0].ReceivedAt.After(got[1].ReceivedAt) {
		t.Errorf("Readings() not newest-first: %v then %v", got[0].ReceivedAt, got[1].ReceivedAt)
	}
	if got[0].BatteryPct == nil || *got[0].BatteryPct != 87.5 {
		t.Errorf("BatteryPct not round-tripped, got %v", got[0].BatteryPct)
	}
	if got[0].SignalStrength != nil {
		t.Errorf("SignalStrength = %v, want nil", *got[0].SignalStrength)
	}

	n, err := db.ReadingCount(ctx)
	if err != nil {
		t.Fatalf("ReadingCount() error = %v", err)
	}
	if n != 6 {
		t.Errorf("ReadingCount() = %d, want 6", n)
	}

	nodes, err := db.NodeCount(ctx)
	if err != nil {
		t.Fatalf("NodeCount() error = %v", err)
	}
	if nodes != 2 {
		t.Errorf("NodeCount() = %d, want 2", nodes)
	}
}

func TestInsertAndGetAlert(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()

	want := testAlert("hunza-01", time.Now().UTC().Truncate(time.Millisecond), models.SeverityCritical)
	if err := db.InsertAlert(ctx, want); err != nil {
		t.Fatalf("InsertAlert() error = %v", err)
	}

	got, err := db.GetAlert(ctx, want.ID)
	if err != nil {
		t.Fatalf("GetAlert() error = %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("ID = %s, want %s", got.ID, want.ID)
	}
	if got.Severity != models.SeverityCritical {
		t.Errorf("Severity = %s, want CRITICAL", got.Severity)
	}
	if got.Score != 75 {
		t.Errorf("Score = %d, want 75", got.Score)
	}
	if len(got.Factors) != 1 || got.Factors[0] != want.Factors[0] {
		t.Errorf("Factors = %v, want %v", got.Factors, want.Factors)
	}
	if !got.WaterTrend.IsRapidIncrease || got.WaterTrend.PercentChange != 24.5 {
		t.Errorf("WaterTrend = %+v, want %+v", got.WaterTrend, want.WaterTrend)
	}
	if got.Reading.WaterLevelCM != 310.0 {
		t.Errorf("Reading.WaterLevelCM = %v, want 310.0", got.Reading.WaterLevelCM)
	}
}

func TestGetAlertNotFound(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	_, err := db.GetAlert(context.Background(), uuid.New())
	if !errors.Is(err, ErrAlertNotFound) {
		t.Fatalf("GetAlert() error = %v, want ErrAlertNotFound", err)
	}
}

func TestAlertsPagination(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 5; i++ {
		a := testAlert("hunza-01", base.Add(time.Duration(i)*time.Minute), models.SeverityHigh)
		if err := db.InsertAlert(ctx, a); err != nil {
			t.Fatalf("InsertAlert() error = %v", err)
		}
	}

	page, err := db.Alerts(ctx, AlertFilter{Limit: 2})
	if err != nil {
		t.Fatalf("Alerts() error = %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("Alerts() returned %d rows, want 2", len(page))
	}
	if !page[0].CreatedAt.After(page[1].CreatedAt) {
		t.Errorf("Alerts() not newest-first")
	}

	rest, err := db.Alerts(ctx, AlertFilter{Limit: 10, Offset: 2})
	if err != nil {
		t.Fatalf("Alerts() error = %v", err)
	}
	if len(rest) != 3 {
		t.Errorf("Alerts() offset page returned %d rows, want 3", len(rest))
	}
}

func TestAlertsFilter(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, a := range []models.Alert{
		testAlert("hunza-01", now.Add(-3*time.Hour), models.SeverityHigh),
		testAlert("hunza-01", now.Add(-2*time.Hour), models.SeverityCritical),
		testAlert("passu-02", now.Add(-time.Hour), models.SeverityHigh),
	} {
		if err := db.InsertAlert(ctx, a); err != nil {
			t.Fatalf("InsertAlert() error = %v", err)
		}
	}

	byNode, err := db.Alerts(ctx, AlertFilter{NodeID: "hunza-01", Limit: 10})
	if err != nil {
		t.Fatalf("Alerts() error = %v", err)
	}
	if len(byNode) != 2 {
		t.Errorf("node filter returned %d rows, want 2", len(byNode))
	}

	bySev, err := db.Alerts(ctx, AlertFilter{Severity: models.SeverityHigh, Limit: 10})
	if err != nil {
		t.Fatalf("Alerts() error = %v", err)
	}
	if len(bySev) != 2 {
		t.Errorf("severity filter returned %d rows, want 2", len(bySev))
	}

	both, err := db.Alerts(ctx, AlertFilter{NodeID: "passu-02", Severity: models.SeverityHigh, Limit: 10})
	if err != nil {
		t.Fatalf("Alerts() error = %v", err)
	}
	if len(both) != 1 {
		t.Errorf("combined filter returned %d rows, want 1", len(both))
	}
}

func TestActiveAlerts(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC()
	recent := testAlert("hunza-01", now.Add(-time.Hour), models.SeverityCritical)
	stale := testAlert("hunza-01", now.Add(-48*time.Hour), models.SeverityCritical)
	lowSev := testAlert("passu-02", now.Add(-time.Hour), models.SeverityMedium)
	for _, a := range []models.Alert{recent, stale, lowSev} {
		if err := db.InsertAlert(ctx, a); err != nil {
			t.Fatalf("InsertAlert() error = %v", err)
		}
	}

	active, err := db.ActiveAlerts(ctx)
	if err != nil {
		t.Fatalf("ActiveAlerts() error = %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("ActiveAlerts() returned %d rows, want 1", len(active))
	}
	if active[0].ID != recent.ID {
		t.Errorf("ActiveAlerts() returned %s, want %s", active[0].ID, recent.ID)
	}
}

func TestAlertCountsBySeverity(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, sev := range []models.Severity{
		models.SeverityCritical, models.SeverityHigh, models.SeverityHigh, models.SeverityMedium,
	} {
		if err := db.InsertAlert(ctx, testAlert("hunza-01", now, sev)); err != nil {
			t.Fatalf("InsertAlert() error = %v", err)
		}
	}

	counts, err := db.AlertCountsBySeverity(ctx, time.Time{})
	if err != nil {
		t.Fatalf("AlertCountsBySeverity() error = %v", err)
	}
	if counts["CRITICAL"] != 1 || counts["HIGH"] != 2 || counts["MEDIUM"] != 1 {
		t.Errorf("AlertCountsBySeverity() = %v", counts)
	}

	windowed, err := db.AlertCountsBySeverity(ctx, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("AlertCountsBySeverity() error = %v", err)
	}
	if len(windowed) != 0 {
		t.Errorf("AlertCountsBySeverity(future cutoff) = %v, want empty", windowed)
	}
}

func TestReset(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.InsertReading(ctx, testReading("hunza-01", time.Now().UTC())); err != nil {
		t.Fatalf("InsertReading() error = %v", err)
	}
	if err := db.InsertAlert(ctx, testAlert("hunza-01", time.Now().UTC(), models.SeverityHigh)); err != nil {
		t.Fatalf("InsertAlert() error = %v", err)
	}

	if err := db.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	readings, err := db.ReadingCount(ctx)
	if err != nil {
		t.Fatalf("ReadingCount() error = %v", err)
	}
	alerts, err := db.AlertCount(ctx)
	if err != nil {
		t.Fatalf("AlertCount() error = %v", err)
	}
	if readings != 0 || alerts != 0 {
		t.Errorf("after Reset: readings = %d, alerts = %d, want 0/0", readings, alerts)
	}
}
