// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

// Package stats implements the statistical analysis engine: multi-channel
// z-score anomaly detection and ordinary least squares trend fitting with
// short-horizon extrapolation.
//
// All analysis runs over the node's arrival-ordered reading window. With
// fewer than three readings every result is degraded rather than an error:
// a cold node is a normal condition, not a failure.
package stats

import (
	"fmt"
	"math"

	"github.com/project-barfani/barfani/internal/models"
)

// Defaults for the analysis engine.
const (
	// DefaultAnomalyThreshold is the z-score above which a reading is
	// anomalous.
	DefaultAnomalyThreshold = 2.5

	// DefaultTrendWindow is how many of the most recent readings the
	// trend fit uses.
	DefaultTrendWindow = 20

	// DefaultPredictionSteps is how many extrapolated points a trend
	// carries.
	DefaultPredictionSteps = 6

	// stepMinutes is the nominal reading cadence used to label
	// prediction horizons.
	stepMinutes = 10

	// minReadings is the number of readings below which analysis is
	// degraded.
	minReadings = 3
)

// Config tunes the analysis engine. Zero values take defaults.
type Config struct {
	AnomalyThreshold float64 `koanf:"anomaly_threshold"`
	TrendWindow      int     `koanf:"trend_window"`
	PredictionSteps  int     `koanf:"prediction_steps"`
}

// Engine performs anomaly and trend analysis. Stateless and safe for
// concurrent use.
type Engine struct {
	anomalyThreshold float64
	trendWindow      int
	predictionSteps  int
}

// NewEngine creates an engine, filling unset config fields with defaults.
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		anomalyThreshold: cfg.AnomalyThreshold,
		trendWindow:      cfg.TrendWindow,
		predictionSteps:  cfg.PredictionSteps,
	}
	if e.anomalyThreshold <= 0 {
		e.anomalyThreshold = DefaultAnomalyThreshold
	}
	if e.trendWindow < minReadings {
		e.trendWindow = DefaultTrendWindow
	}
	if e.predictionSteps < 1 {
		e.predictionSteps = DefaultPredictionSteps
	}
	return e
}

// AnomalyThreshold returns the configured z-score bar.
func (e *Engine) AnomalyThreshold() float64 {
	return e.anomalyThreshold
}

// DetectAnomalies compares the latest reading's channels against the
// window's mean and standard deviation.
//
// The verdict uses the maximum z-score across channels. Confidence maps
// that z linearly onto 0-100, saturating at z=3. A channel with zero
// variance contributes z=0: a perfectly flat series is never anomalous.
func (e *Engine) DetectAnomalies(window []models.SensorReading) models.AnomalyResult {
	if len(window) < minReadings {
		return models.AnomalyResult{Degraded: true}
	}

	latest := window[len(window)-1]
	result := models.AnomalyResult{}

	for _, m := range models.Metrics() {
		values := make([]float64, len(window))
		for i, r := range window {
			values[i] = r.Value(m)
		}
		mean, stddev := meanStddev(values)

		var z float64
		if stddev > 0 {
			z = math.Abs(latest.Value(m)-mean) / stddev
		}
		if z > result.MaxZScore {
			result.MaxZScore = z
		}
		if z > e.anomalyThreshold {
			result.Metrics = append(result.Metrics, models.MetricZScore{
				Metric: m,
				Value:  latest.Value(m),
				Mean:   mean,
				ZScore: z,
			})
		}
	}

	result.IsAnomaly = result.MaxZScore > e.anomalyThreshold
	result.Confidence = math.Min(result.MaxZScore/3*100, 100)
	return result
}

// AnalyzeTrend fits an ordinary least squares line to the channel over the
// trailing trend window, indexed by arrival position.
//
// Slopes within (-0.1, 0.1) units per reading are stable. Confidence is
// the coefficient of determination scaled to 0-100. Predictions extend
// the fitted line forward, labeled at the nominal 10-minute cadence.
func (e *Engine) AnalyzeTrend(window []models.SensorReading, metric models.Metric) models.TrendResult {
	if len(window) < minReadings {
		return models.TrendResult{
			Metric:    metric,
			Direction: models.TrendUnknown,
			Degraded:  true,
		}
	}

	if len(window) > e.trendWindow {
		window = window[len(window)-e.trendWindow:]
	}

	n := len(window)
	values := make([]float64, n)
	for i, r := range window {
		values[i] = r.Value(metric)
	}

	slope, intercept, r2 := leastSquares(values)

	result := models.TrendResult{
		Metric:     metric,
		Slope:      slope,
		Confidence: clamp(r2*100, 0, 100),
	}
	switch {
	case slope > 0.1:
		result.Direction = models.TrendIncreasing
	case slope < -0.1:
		result.Direction = models.TrendDecreasing
	default:
		result.Direction = models.TrendStable
	}

	result.Predictions = make([]models.Prediction, 0, e.predictionSteps)
	for step := 1; step <= e.predictionSteps; step++ {
		result.Predictions = append(result.Predictions, models.Prediction{
			Horizon: horizonLabel(step),
			Value:   intercept + slope*float64(n-1+step),
		})
	}
	return result
}

// AnalyzeAll runs trend analysis for every channel.
func (e *Engine) AnalyzeAll(window []models.SensorReading) map[models.Metric]models.TrendResult {
	out := make(map[models.Metric]models.TrendResult, len(models.Metrics()))
	for _, m := range models.Metrics() {
		out[m] = e.AnalyzeTrend(window, m)
	}
	return out
}

func horizonLabel(step int) string {
	return fmt.Sprintf("+%d min", step*stepMinutes)
}

// meanStddev returns the mean and population standard deviation.
func meanStddev(values []float64) (mean, stddev float64) {
	n := float64(len(values))
	for _, v := range values {
		mean += v
	}
	mean /= n

	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return mean, math.Sqrt(sumSq / n)
}

// leastSquares fits y = intercept + slope*x over x = 0..n-1 and returns
// the coefficient of determination. A vertical-variance-free series has
// r2 = 1 when the fit is exact and 0 otherwise.
func leastSquares(values []float64) (slope, intercept, r2 float64) {
	n := float64(len(values))

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for i, y := range values {
		fit := intercept + slope*float64(i)
		ssTot += (y - meanY) * (y - meanY)
		ssRes += (y - fit) * (y - fit)
	}
	if ssTot == 0 {
		// Flat series: the fit is exact, but there is no variance to
		// explain, so report full confidence only for a truly exact fit.
		if ssRes == 0 {
			return slope, intercept, 1
		}
		return slope, intercept, 0
	}
	return slope, intercept, 1 - ssRes/ssTot
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
