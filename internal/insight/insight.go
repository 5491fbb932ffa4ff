// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

// Package insight composes the statistical analyses into per-node risk
// insights: the low-bar risk anomaly pass, trend fits for every channel,
// and the weighted composite risk score with operator guidance.
package insight

import (
	"time"

	"github.com/project-barfani/barfani/internal/history"
	"github.com/project-barfani/barfani/internal/models"
	"github.com/project-barfani/barfani/internal/stats"
)

// DefaultWindowSize is how many trailing readings an insight considers
// when the caller does not specify a window.
const DefaultWindowSize = 50

// Service produces MLInsight snapshots from the reading history.
type Service struct {
	hist *history.Store

	// trend fits run on the detector as configured
	detector *stats.Engine

	// low-bar detector (z > 1.8) whose verdict feeds the risk scorer
	// and the reported anomaly block
	riskDetector *stats.Engine
}

// NewService creates an insight service over the given history store.
// The detector is used as configured for trend analysis; anomaly
// verdicts in the insight come from the lower risk-pass threshold so
// risk scoring reacts before deviations are alert-worthy.
func NewService(hist *history.Store, detector *stats.Engine) *Service {
	return &Service{
		hist:     hist,
		detector: detector,
		riskDetector: stats.NewEngine(stats.Config{
			AnomalyThreshold: riskAnomalyThreshold,
		}),
	}
}

// Analyze builds the insight for one node over the trailing windowSize
// readings. windowSize < 1 takes DefaultWindowSize. Analysis is read-only
// over a snapshot, so repeated calls with an unchanged history return the
// same insight.
func (s *Service) Analyze(nodeID string, windowSize int) models.MLInsight {
	if windowSize < 1 {
		windowSize = DefaultWindowSize
	}
	window := s.hist.Tail(nodeID, windowSize)

	trends := s.detector.AnalyzeAll(window)
	riskAnomaly := s.riskDetector.DetectAnomalies(window)

	return models.MLInsight{
		NodeID:      nodeID,
		Anomaly:     riskAnomaly,
		Trends:      trends,
		Risk:        scoreRisk(window, riskAnomaly, trends),
		WindowSize:  windowSize,
		GeneratedAt: time.Now().UTC(),
	}
}

// AnalyzeAllNodes builds insights for every known node in lexical order.
func (s *Service) AnalyzeAllNodes(windowSize int) []models.MLInsight {
	ids := s.hist.NodeIDs()
	out := make([]models.MLInsight, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.Analyze(id, windowSize))
	}
	return out
}

// HighestRisk returns the insight with the highest risk score across all
// nodes, or nil when no node has one. UNKNOWN tiers never win over scored
// tiers.
func (s *Service) HighestRisk(windowSize int) *models.MLInsight {
	var best *models.MLInsight
	for _, ins := range s.AnalyzeAllNodes(windowSize) {
		ins := ins
		if ins.Risk.Tier == models.RiskTierUnknown {
			continue
		}
		if best == nil || ins.Risk.Score > best.Risk.Score {
			best = &ins
		}
	}
	return best
}
