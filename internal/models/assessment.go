// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package models

import (
	"time"
)

// Severity is the rule-engine alert tier derived from the additive
// threshold score.
type Severity string

// Severity tiers in ascending order of urgency.
const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// WaterTrend reports rapid-rise detection over the recent reading window.
//
// PercentChange compares the current water level against the level at the
// lookback position. With fewer than two readings there is no baseline, so
// IsRapidIncrease is false and PercentChange is 0.
type WaterTrend struct {
	IsRapidIncrease bool    `json:"isRapidIncrease"`
	PercentChange   float64 `json:"percentChange"`
}

// ThresholdAssessment is the rule engine's decision for a single reading.
//
// Score is additive and deliberately unclamped: a reading breaching every
// threshold plus the compound bonus reaches 140, which still maps to
// CRITICAL. Factors lists human-readable descriptions of each triggered
// condition in evaluation order.
type ThresholdAssessment struct {
	Score       int        `json:"score"`
	Severity    Severity   `json:"severity"`
	ShouldAlert bool       `json:"shouldAlert"`
	Factors     []string   `json:"factors"`
	Message     string     `json:"message"`
	WaterTrend  WaterTrend `json:"waterTrend"`
}

// MetricZScore is one channel's deviation from its recent history.
type MetricZScore struct {
	Metric Metric  `json:"metric"`
	Value  float64 `json:"value"`
	Mean   float64 `json:"mean"`
	ZScore float64 `json:"zScore"`
}

// AnomalyResult is the statistical engine's multi-channel deviation verdict.
//
// With fewer than three readings the result is degraded: IsAnomaly false,
// Confidence 0, and no per-metric scores. Confidence scales the maximum
// z-score into 0-100 (z of 3 or more saturates at 100).
type AnomalyResult struct {
	IsAnomaly  bool           `json:"isAnomaly"`
	Confidence float64        `json:"confidence"`
	MaxZScore  float64        `json:"maxZScore"`
	Metrics    []MetricZScore `json:"metrics,omitempty"`
	Degraded   bool           `json:"degraded,omitempty"`
}

// TrendDirection classifies a fitted slope.
type TrendDirection string

// Slope classifications. Slopes within (-0.1, 0.1) are stable. UNKNOWN
// is reported when the window is too short to fit a line.
const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
	TrendUnknown    TrendDirection = "unknown"
)

// Prediction is a single extrapolated point on the fitted trend line.
type Prediction struct {
	Horizon string  `json:"horizon"`
	Value   float64 `json:"value"`
}

// TrendResult is the least-squares fit over a channel's recent window.
//
// Confidence is the coefficient of determination scaled to 0-100. With
// fewer than three readings the result is degraded: direction stable,
// slope 0, confidence 0, no predictions.
type TrendResult struct {
	Metric      Metric         `json:"metric"`
	Direction   TrendDirection `json:"direction"`
	Slope       float64        `json:"slope"`
	Confidence  float64        `json:"confidence"`
	Predictions []Prediction   `json:"predictions,omitempty"`
	Degraded    bool           `json:"degraded,omitempty"`
}

// RiskTier is the composite-score band reported by the risk scorer.
// UNKNOWN indicates insufficient history for a meaningful score.
type RiskTier string

// Risk tiers. Boundaries: >=60 CRITICAL, >=40 HIGH, >=20 MEDIUM, else LOW.
const (
	RiskTierCritical RiskTier = "CRITICAL"
	RiskTierHigh     RiskTier = "HIGH"
	RiskTierMedium   RiskTier = "MEDIUM"
	RiskTierLow      RiskTier = "LOW"
	RiskTierUnknown  RiskTier = "UNKNOWN"
)

// RiskFactor is one weighted contribution to the composite risk score.
type RiskFactor struct {
	Name         string  `json:"name"`
	Contribution float64 `json:"contribution"`
}

// RiskAssessment is the weighted composite outburst-flood risk for a node.
// Score is clamped to [0, 100].
type RiskAssessment struct {
	Score          float64      `json:"score"`
	Tier           RiskTier     `json:"tier"`
	Factors        []RiskFactor `json:"factors,omitempty"`
	Recommendation string       `json:"recommendation"`
}

// MLInsight bundles the statistical analyses for one node. It backs the
// ml/insights endpoints and the ml_insight WebSocket broadcast.
type MLInsight struct {
	NodeID      string                 `json:"nodeId"`
	Anomaly     AnomalyResult          `json:"anomaly"`
	Trends      map[Metric]TrendResult `json:"trends"`
	Risk        RiskAssessment         `json:"risk"`
	WindowSize  int                    `json:"windowSize"`
	GeneratedAt time.Time              `json:"generatedAt"`
}
