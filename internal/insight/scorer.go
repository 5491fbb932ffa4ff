// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package insight

import (
	"math"

	"github.com/project-barfani/barfani/internal/models"
)

// Risk scoring constants. The scorer runs its own anomaly pass at a lower
// z-score bar than the alerting anomaly detector: risk scoring should react
// to deviations well before they are alert-worthy on their own.
const (
	riskAnomalyThreshold = 1.8

	anomalyWeight = 0.35
	anomalyCap    = 35

	tempFloor  = -5.0
	tempWeight = 1.5
	tempCap    = 25

	waterFloor  = 280.0
	waterWeight = 0.15
	waterCap    = 25

	seismicFloor  = 0.3
	seismicWeight = 50.0
	seismicCap    = 25

	tempTrendBonus    = 20
	waterTrendBonus   = 20
	seismicTrendBonus = 15

	riskTierCritical = 60
	riskTierHigh     = 40
	riskTierMedium   = 20
)

// minReadings below which the scorer reports UNKNOWN instead of a score.
const minReadings = 3

// scoreRisk combines the low-bar anomaly verdict, absolute channel levels,
// and trend momentum into a single 0-100 score.
//
// Each factor is individually capped so no single channel can dominate;
// the final sum is clamped to [0, 100].
func scoreRisk(window []models.SensorReading, anomaly models.AnomalyResult, trends map[models.Metric]models.TrendResult) models.RiskAssessment {
	if len(window) < minReadings {
		return models.RiskAssessment{
			Tier:           models.RiskTierUnknown,
			Recommendation: recommendation(models.RiskTierUnknown, false),
		}
	}

	latest := window[len(window)-1]
	var score float64
	var factors []models.RiskFactor

	add := func(name string, contribution float64) {
		score += contribution
		factors = append(factors, models.RiskFactor{Name: name, Contribution: contribution})
	}

	if anomaly.IsAnomaly {
		add("statistical anomaly", math.Min(anomaly.Confidence*anomalyWeight, anomalyCap))
	}

	if latest.TemperatureC > tempFloor {
		add("temperature above melt floor", math.Min((latest.TemperatureC-tempFloor)*tempWeight, tempCap))
	}
	if t := trends[models.MetricTemperature]; t.Direction == models.TrendIncreasing && t.Slope > 0.5 {
		add("warming trend", tempTrendBonus)
	}

	if latest.WaterLevelCM > waterFloor {
		add("elevated lake level", math.Min((latest.WaterLevelCM-waterFloor)*waterWeight, waterCap))
	}
	if t := trends[models.MetricWaterLevel]; t.Direction == models.TrendIncreasing && t.Slope > 1 {
		add("rising lake level", waterTrendBonus)
	}

	if latest.SeismicActivity > seismicFloor {
		add("seismic activity", math.Min((latest.SeismicActivity-seismicFloor)*seismicWeight, seismicCap))
	}
	if t := trends[models.MetricSeismic]; t.Direction == models.TrendIncreasing || latest.SeismicActivity > 0.5 {
		add("seismic escalation", seismicTrendBonus)
	}

	score = math.Max(0, math.Min(score, 100))

	tier := models.RiskTierLow
	switch {
	case score >= riskTierCritical:
		tier = models.RiskTierCritical
	case score >= riskTierHigh:
		tier = models.RiskTierHigh
	case score >= riskTierMedium:
		tier = models.RiskTierMedium
	}

	return models.RiskAssessment{
		Score:          score,
		Tier:           tier,
		Factors:        factors,
		Recommendation: recommendation(tier, anomaly.IsAnomaly),
	}
}

// recommendation maps a tier to operator guidance. An active anomaly
// upgrades LOW guidance to the cautionary text.
func recommendation(tier models.RiskTier, anomalous bool) string {
	switch tier {
	case models.RiskTierCritical:
		return "IMMEDIATE ACTION REQUIRED: Evacuate downstream areas. GLOF imminent."
	case models.RiskTierHigh:
		return "HIGH ALERT: Prepare evacuation plans. Monitor continuously."
	case models.RiskTierMedium:
		return "CAUTION: Increased monitoring recommended. Alert authorities."
	case models.RiskTierUnknown:
		return "Insufficient readings to assess risk. Awaiting more data from this node."
	}
	if anomalous {
		return "CAUTION: Increased monitoring recommended. Alert authorities."
	}
	return "Normal conditions. Continue routine monitoring."
}
