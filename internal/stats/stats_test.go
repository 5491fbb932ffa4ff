// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package stats

import (
	"math"
	"testing"

	"github.com/project-barfani/barfani/internal/models"
)

func windowFromLevels(levels ...float64) []models.SensorReading {
	out := make([]models.SensorReading, 0, len(levels))
	for _, l := range levels {
		out = append(out, models.SensorReading{NodeID: "node-a", WaterLevelCM: l})
	}
	return out
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestDetectAnomalies_RequiresThreeReadings(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{})
	got := e.DetectAnomalies(windowFromLevels(100, 101))

	if !got.Degraded {
		t.Error("two readings must yield a degraded result")
	}
	if got.IsAnomaly || got.Confidence != 0 {
		t.Errorf("degraded result must be empty, got %+v", got)
	}
}

func TestDetectAnomalies_ConstantSeriesIsNormal(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{})
	window := windowFromLevels(100, 100, 100, 100, 100)
	got := e.DetectAnomalies(window)

	if got.IsAnomaly {
		t.Error("flat series must not be anomalous")
	}
	if got.MaxZScore != 0 {
		t.Errorf("zero variance must give z=0, got %v", got.MaxZScore)
	}
	if got.Confidence != 0 {
		t.Errorf("confidence: got %v, want 0", got.Confidence)
	}
}

func TestDetectAnomalies_SpikeDetected(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{})

	// Stable baseline then a large jump in the latest reading.
	levels := make([]float64, 0, 21)
	for i := 0; i < 20; i++ {
		levels = append(levels, 100)
	}
	levels = append(levels, 200)
	got := e.DetectAnomalies(windowFromLevels(levels...))

	if !got.IsAnomaly {
		t.Fatalf("spike not detected: %+v", got)
	}
	if got.MaxZScore <= e.AnomalyThreshold() {
		t.Errorf("max z %v must exceed threshold %v", got.MaxZScore, e.AnomalyThreshold())
	}
	if len(got.Metrics) != 1 || got.Metrics[0].Metric != models.MetricWaterLevel {
		t.Errorf("expected water level flagged, got %+v", got.Metrics)
	}
}

func TestDetectAnomalies_ConfidenceSaturates(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{})

	levels := make([]float64, 0, 31)
	for i := 0; i < 30; i++ {
		levels = append(levels, 100)
	}
	levels = append(levels, 10000)
	got := e.DetectAnomalies(windowFromLevels(levels...))

	if got.Confidence != 100 {
		t.Errorf("confidence must saturate at 100, got %v", got.Confidence)
	}
}

func TestAnalyzeTrend_RequiresThreeReadings(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{})
	got := e.AnalyzeTrend(windowFromLevels(100, 105), models.MetricWaterLevel)

	if !got.Degraded {
		t.Error("two readings must yield a degraded trend")
	}
	if got.Direction != models.TrendUnknown || got.Slope != 0 {
		t.Errorf("degraded trend must be unknown with zero slope, got %+v", got)
	}
	if len(got.Predictions) != 0 {
		t.Errorf("degraded trend must carry no predictions, got %v", got.Predictions)
	}
}

func TestAnalyzeTrend_PerfectLine(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{})
	// y = 100 + 2x
	got := e.AnalyzeTrend(windowFromLevels(100, 102, 104, 106, 108), models.MetricWaterLevel)

	if got.Direction != models.TrendIncreasing {
		t.Errorf("direction: got %s, want increasing", got.Direction)
	}
	if !approxEqual(got.Slope, 2, 1e-9) {
		t.Errorf("slope: got %v, want 2", got.Slope)
	}
	if !approxEqual(got.Confidence, 100, 1e-9) {
		t.Errorf("confidence: got %v, want 100", got.Confidence)
	}
}

func TestAnalyzeTrend_SlopeBoundaries(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{})

	tests := []struct {
		name  string
		slope float64
		want  models.TrendDirection
	}{
		{"slope exactly 0.1 is stable", 0.1, models.TrendStable},
		{"slope just above 0.1 increases", 0.11, models.TrendIncreasing},
		{"slope exactly -0.1 is stable", -0.1, models.TrendStable},
		{"slope below -0.1 decreases", -0.2, models.TrendDecreasing},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			levels := make([]float64, 10)
			for i := range levels {
				levels[i] = 100 + tt.slope*float64(i)
			}
			got := e.AnalyzeTrend(windowFromLevels(levels...), models.MetricWaterLevel)
			if got.Direction != tt.want {
				t.Errorf("slope %v: got %s, want %s", tt.slope, got.Direction, tt.want)
			}
		})
	}
}

func TestAnalyzeTrend_FlatSeriesStable(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{})
	got := e.AnalyzeTrend(windowFromLevels(100, 100, 100, 100), models.MetricWaterLevel)

	if got.Direction != models.TrendStable {
		t.Errorf("direction: got %s, want stable", got.Direction)
	}
	if got.Slope != 0 {
		t.Errorf("slope: got %v, want 0", got.Slope)
	}
}

func TestAnalyzeTrend_UsesTrailingWindow(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{TrendWindow: 5})

	// Long falling prefix, rising tail; only the tail is in the window.
	levels := []float64{500, 400, 300, 200, 100, 102, 104, 106, 108}
	got := e.AnalyzeTrend(windowFromLevels(levels...), models.MetricWaterLevel)

	if got.Direction != models.TrendIncreasing {
		t.Errorf("direction: got %s, want increasing (tail only)", got.Direction)
	}
}

func TestAnalyzeTrend_Predictions(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{})
	got := e.AnalyzeTrend(windowFromLevels(100, 102, 104, 106, 108), models.MetricWaterLevel)

	if len(got.Predictions) != DefaultPredictionSteps {
		t.Fatalf("predictions: got %d, want %d", len(got.Predictions), DefaultPredictionSteps)
	}
	if got.Predictions[0].Horizon != "+10 min" {
		t.Errorf("first horizon: got %q, want %q", got.Predictions[0].Horizon, "+10 min")
	}
	if got.Predictions[5].Horizon != "+60 min" {
		t.Errorf("last horizon: got %q, want %q", got.Predictions[5].Horizon, "+60 min")
	}
	// Next point on y = 100 + 2x after x=4 is 110.
	if !approxEqual(got.Predictions[0].Value, 110, 1e-9) {
		t.Errorf("first prediction: got %v, want 110", got.Predictions[0].Value)
	}
	if !approxEqual(got.Predictions[5].Value, 120, 1e-9) {
		t.Errorf("last prediction: got %v, want 120", got.Predictions[5].Value)
	}
}

func TestAnalyzeAll_CoversEveryMetric(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{})
	window := []models.SensorReading{
		{TemperatureC: 1, WaterLevelCM: 100, SeismicActivity: 0.1},
		{TemperatureC: 2, WaterLevelCM: 101, SeismicActivity: 0.1},
		{TemperatureC: 3, WaterLevelCM: 102, SeismicActivity: 0.1},
	}
	got := e.AnalyzeAll(window)

	for _, m := range models.Metrics() {
		if _, ok := got[m]; !ok {
			t.Errorf("missing trend for metric %s", m)
		}
	}
	if got[models.MetricTemperature].Direction != models.TrendIncreasing {
		t.Errorf("temperature trend: got %s, want increasing", got[models.MetricTemperature].Direction)
	}
	if got[models.MetricSeismic].Direction != models.TrendStable {
		t.Errorf("seismic trend: got %s, want stable", got[models.MetricSeismic].Direction)
	}
}

func TestLeastSquares_ReadingsIdempotent(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{})
	window := windowFromLevels(100, 103, 99, 108, 112)

	first := e.AnalyzeTrend(window, models.MetricWaterLevel)
	second := e.AnalyzeTrend(window, models.MetricWaterLevel)

	if first.Slope != second.Slope || first.Confidence != second.Confidence {
		t.Error("repeated analysis over the same window must be identical")
	}
}
