// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

// Package rules implements the deterministic threshold engine that decides,
// synchronously on every ingested reading, whether an alert fires.
//
// Scoring is additive over independent conditions so that a single noisy
// channel cannot reach the alert bar on its own, while compound breaches
// escalate sharply. The score is deliberately left unclamped: a reading
// breaching every condition scores 140, which still maps to CRITICAL.
package rules

import (
	"fmt"
	"strings"
	"sync"

	"github.com/project-barfani/barfani/internal/models"
)

// Default thresholds, tuned against the 2022-2025 Shisper and Passu lake
// event record.
const (
	DefaultTemperatureThreshold = 10.0
	DefaultSeismicThreshold     = 0.5
	DefaultWaterRisePercent     = 20.0
	DefaultWaterRiseLookback    = 60
)

// Condition weights and tier boundaries.
const (
	weightTemperature = 30
	weightSeismic     = 35
	weightWaterRise   = 35
	weightCompound    = 40

	tierCritical = 70
	tierHigh     = 40
	tierMedium   = 20
)

// Thresholds holds the tunable alerting thresholds. Operators adjust these
// at runtime through the settings API.
type Thresholds struct {
	// TemperatureC above which melt acceleration is assumed.
	TemperatureC float64 `json:"temperature" koanf:"temperature"`

	// Seismic activity magnitude above which ground instability scores.
	Seismic float64 `json:"seismic" koanf:"seismic"`

	// WaterRisePercent is the rise over the lookback window that counts
	// as a rapid increase.
	WaterRisePercent float64 `json:"waterRisePercent" koanf:"water_rise_percent"`

	// WaterRiseLookback is the maximum number of readings to look back
	// when computing the rise, bounded by available history.
	WaterRiseLookback int `json:"waterRiseLookback" koanf:"water_rise_lookback"`
}

// DefaultThresholds returns the production default thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TemperatureC:      DefaultTemperatureThreshold,
		Seismic:           DefaultSeismicThreshold,
		WaterRisePercent:  DefaultWaterRisePercent,
		WaterRiseLookback: DefaultWaterRiseLookback,
	}
}

// Validate rejects threshold combinations that would disable alerting.
func (t Thresholds) Validate() error {
	if t.Seismic < 0 {
		return fmt.Errorf("seismic threshold must be >= 0, got %v", t.Seismic)
	}
	if t.WaterRisePercent <= 0 {
		return fmt.Errorf("water rise percent must be > 0, got %v", t.WaterRisePercent)
	}
	if t.WaterRiseLookback < 1 {
		return fmt.Errorf("water rise lookback must be >= 1, got %d", t.WaterRiseLookback)
	}
	return nil
}

// Engine evaluates readings against the configured thresholds.
// Safe for concurrent use; threshold updates apply to subsequent
// evaluations.
type Engine struct {
	mu         sync.RWMutex
	thresholds Thresholds
}

// NewEngine creates an engine with the given thresholds.
func NewEngine(t Thresholds) *Engine {
	return &Engine{thresholds: t}
}

// Thresholds returns the currently active thresholds.
func (e *Engine) Thresholds() Thresholds {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.thresholds
}

// SetThresholds replaces the active thresholds after validation.
func (e *Engine) SetThresholds(t Thresholds) error {
	if err := t.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.thresholds = t
	return nil
}

// Evaluate scores a reading against its node's history. The history slice
// must be in arrival order, oldest first, with the evaluated reading as
// the final element.
//
// Conditions, each independent:
//   - temperature above threshold: +30
//   - seismic activity above threshold: +35
//   - rapid water level rise over the lookback window: +35
//   - all three at once: +40 compound bonus
//
// Tier boundaries: >=70 CRITICAL, >=40 HIGH, >=20 MEDIUM, else LOW.
// Only HIGH and CRITICAL set ShouldAlert.
func (e *Engine) Evaluate(reading models.SensorReading, hist []models.SensorReading) models.ThresholdAssessment {
	t := e.Thresholds()

	assessment := models.ThresholdAssessment{
		Severity: models.SeverityLow,
		Factors:  []string{},
	}

	tempBreach := reading.TemperatureC > t.TemperatureC
	if tempBreach {
		assessment.Score += weightTemperature
		assessment.Factors = append(assessment.Factors,
			fmt.Sprintf("Temperature above threshold: %.1f°C > %.1f°C", reading.TemperatureC, t.TemperatureC))
	}

	seismicBreach := reading.SeismicActivity > t.Seismic
	if seismicBreach {
		assessment.Score += weightSeismic
		assessment.Factors = append(assessment.Factors,
			fmt.Sprintf("High seismic activity: %.2f > %.2f", reading.SeismicActivity, t.Seismic))
	}

	assessment.WaterTrend = waterTrend(reading, hist, t)
	if assessment.WaterTrend.IsRapidIncrease {
		assessment.Score += weightWaterRise
		assessment.Factors = append(assessment.Factors,
			fmt.Sprintf("Rapid water level rise: %.1f%% over recent readings", assessment.WaterTrend.PercentChange))
	}

	if tempBreach && seismicBreach && assessment.WaterTrend.IsRapidIncrease {
		assessment.Score += weightCompound
		assessment.Factors = append(assessment.Factors, "Multiple critical indicators active simultaneously")
	}

	switch {
	case assessment.Score >= tierCritical:
		assessment.Severity = models.SeverityCritical
	case assessment.Score >= tierHigh:
		assessment.Severity = models.SeverityHigh
	case assessment.Score >= tierMedium:
		assessment.Severity = models.SeverityMedium
	}

	assessment.ShouldAlert = assessment.Severity == models.SeverityHigh ||
		assessment.Severity == models.SeverityCritical
	assessment.Message = alertMessage(assessment.Severity, reading.NodeID, assessment.Factors)

	return assessment
}

// alertMessage renders the one-line summary carried on every assessment,
// quiet readings included.
func alertMessage(sev models.Severity, nodeID string, factors []string) string {
	switch sev {
	case models.SeverityCritical:
		return fmt.Sprintf("CRITICAL GLOF ALERT at %s! Immediate evacuation recommended. %s", nodeID, strings.Join(factors, ". "))
	case models.SeverityHigh:
		return fmt.Sprintf("HIGH RISK detected at %s. Prepare for potential evacuation. %s", nodeID, strings.Join(factors, ". "))
	case models.SeverityMedium:
		return fmt.Sprintf("MEDIUM RISK at %s. Monitor situation closely. %s", nodeID, strings.Join(factors, ". "))
	}
	return fmt.Sprintf("Normal conditions at %s", nodeID)
}

// waterTrend compares the current water level against the level at the
// lookback position. Lookback is bounded by available history, so a fresh
// node compares against its own first reading. Fewer than two readings
// means no baseline, which reports no rise.
func waterTrend(reading models.SensorReading, hist []models.SensorReading, t Thresholds) models.WaterTrend {
	if len(hist) < 2 {
		return models.WaterTrend{}
	}

	lookback := t.WaterRiseLookback
	if avail := len(hist) - 1; lookback > avail {
		lookback = avail
	}
	baseline := hist[len(hist)-1-lookback].WaterLevelCM
	if baseline == 0 {
		// No meaningful percentage against a zero baseline.
		return models.WaterTrend{}
	}

	pct := (reading.WaterLevelCM - baseline) / baseline * 100
	return models.WaterTrend{
		IsRapidIncrease: pct >= t.WaterRisePercent,
		PercentChange:   pct,
	}
}
