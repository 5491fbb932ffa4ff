// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

// Package pipeline orchestrates the ingestion path for sensor readings.
//
// Each accepted reading flows through a fixed sequence: append to the
// in-memory node window, evaluate alert rules against the window,
// archive the reading, and when the rules call for it raise an alert,
// archive it, hand it to the notification dispatcher, and push it to
// connected dashboards. Archive write failures are logged but never
// block the alerting path.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/project-barfani/barfani/internal/alerting"
	"github.com/project-barfani/barfani/internal/database"
	"github.com/project-barfani/barfani/internal/history"
	"github.com/project-barfani/barfani/internal/logging"
	"github.com/project-barfani/barfani/internal/metrics"
	"github.com/project-barfani/barfani/internal/models"
	"github.com/project-barfani/barfani/internal/rules"
	"github.com/project-barfani/barfani/internal/websocket"
)

// Archive is the subset of the database layer the pipeline writes to.
type Archive interface {
	InsertReading(ctx context.Context, r models.SensorReading) error
	InsertAlert(ctx context.Context, a models.Alert) error
	Reset(ctx context.Context) error
}

// Notifier receives raised alerts for delivery.
type Notifier interface {
	Dispatch(alert models.Alert)
}

// Broadcaster pushes live events to connected dashboard clients.
type Broadcaster interface {
	BroadcastSensorUpdate(reading models.SensorReading, assessment models.ThresholdAssessment)
	BroadcastNewAlert(alert *models.Alert)
	BroadcastSystemReset()
}

// Pipeline wires the ingestion stages together.
type Pipeline struct {
	history   *history.Store
	rules     *rules.Engine
	archive   Archive
	notifier  Notifier
	broadcast Broadcaster
}

// New creates a Pipeline. The notifier and broadcaster may be nil,
// in which case those stages are skipped.
func New(hist *history.Store, engine *rules.Engine, archive Archive, notifier Notifier, broadcast Broadcaster) *Pipeline {
	return &Pipeline{
		history:   hist,
		rules:     engine,
		archive:   archive,
		notifier:  notifier,
		broadcast: broadcast,
	}
}

// Ingest runs a reading through the full pipeline and returns the
// reading as stored, its rule assessment, and the alert if one was
// raised.
func (p *Pipeline) Ingest(ctx context.Context, reading models.SensorReading) models.IngestResponse {
	start := time.Now()
	reading.ReceivedAt = time.Now().UTC()
	if reading.Timestamp.IsZero() {
		reading.Timestamp = reading.ReceivedAt
	}

	p.history.Append(reading)
	// The window contains the new reading as its last element, which is
	// exactly the shape Evaluate expects.
	window := p.history.Snapshot(reading.NodeID)
	assessment := p.rules.Evaluate(reading, window)

	if err := p.archive.InsertReading(ctx, reading); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("node_id", reading.NodeID).Msg("failed to archive reading")
	}

	metrics.ReadingsIngested.WithLabelValues(reading.NodeID).Inc()
	metrics.AlertScore.WithLabelValues(reading.NodeID).Observe(float64(assessment.Score))
	metrics.IngestDuration.Observe(time.Since(start).Seconds())

	resp := models.IngestResponse{
		Reading:    reading,
		Assessment: assessment,
	}

	if assessment.ShouldAlert {
		alert := p.raiseAlert(ctx, reading, assessment)
		resp.Alert = alert
	}

	if p.broadcast != nil {
		p.broadcast.BroadcastSensorUpdate(reading, assessment)
		if resp.Alert != nil {
			p.broadcast.BroadcastNewAlert(resp.Alert)
		}
	}

	return resp
}

func (p *Pipeline) raiseAlert(ctx context.Context, reading models.SensorReading, assessment models.ThresholdAssessment) *models.Alert {
	alert := &models.Alert{
		ID:         uuid.New(),
		NodeID:     reading.NodeID,
		Severity:   assessment.Severity,
		Score:      assessment.Score,
		Factors:    assessment.Factors,
		Reading:    reading,
		WaterTrend: assessment.WaterTrend,
		CreatedAt:  time.Now().UTC(),
	}

	logging.Ctx(ctx).Warn().
		Str("alert_id", alert.ID.String()).
		Str("node_id", alert.NodeID).
		Str("severity", string(alert.Severity)).
		Int("score", alert.Score).
		Strs("factors", alert.Factors).
		Msg("alert raised")

	metrics.AlertsRaised.WithLabelValues(alert.NodeID, string(alert.Severity)).Inc()

	if err := p.archive.InsertAlert(ctx, *alert); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("alert_id", alert.ID.String()).Msg("failed to archive alert")
	}

	if p.notifier != nil {
		p.notifier.Dispatch(*alert)
	}

	return alert
}

// Reset clears all monitoring state: in-memory windows and the archive.
// Connected clients are told to drop their local state.
func (p *Pipeline) Reset(ctx context.Context) error {
	p.history.Reset()
	if err := p.archive.Reset(ctx); err != nil {
		return err
	}
	if p.broadcast != nil {
		p.broadcast.BroadcastSystemReset()
	}
	logging.Ctx(ctx).Info().Msg("monitoring state reset")
	return nil
}

// interface checks
var (
	_ Archive     = (*database.DB)(nil)
	_ Notifier    = (*alerting.Dispatcher)(nil)
	_ Broadcaster = (*websocket.Hub)(nil)
)
