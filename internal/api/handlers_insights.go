// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/project-barfani/barfani/internal/validation"
)

// NodeInsight godoc
// @Summary Statistical insight for a node
// @Description Runs anomaly detection, trend analysis, and risk scoring over the node's trailing reading window.
// @Tags ml
// @Produce json
// @Param nodeID path string true "Node identifier"
// @Param windowSize query int false "Trailing readings to analyze (default 50)"
// @Success 200 {object} models.APIResponse{data=models.MLInsight}
// @Failure 400 {object} models.APIResponse
// @Router /api/v1/ml/insights/{nodeID} [get]
func (h *Handler) NodeInsight(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	nodeID := chi.URLParam(r, "nodeID")
	if err := validation.GetValidator().Var(nodeID, "required,nodeid"); err != nil {
		rw.BadRequest("invalid node id")
		return
	}

	rw.Success(h.insights.Analyze(nodeID, queryInt(r, "windowSize")))
}

// AllInsights godoc
// @Summary Statistical insights for all nodes
// @Description Returns per-node insights for every node with readings, in lexical node order.
// @Tags ml
// @Produce json
// @Param windowSize query int false "Trailing readings to analyze (default 50)"
// @Success 200 {object} models.APIResponse{data=[]models.MLInsight}
// @Router /api/v1/ml/insights [get]
func (h *Handler) AllInsights(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(h.insights.AnalyzeAllNodes(queryInt(r, "windowSize")))
}

// InsightSummary godoc
// @Summary Highest-risk node
// @Description Returns the insight with the highest risk score across the fleet, or null when no node has enough readings.
// @Tags ml
// @Produce json
// @Param windowSize query int false "Trailing readings to analyze (default 50)"
// @Success 200 {object} models.APIResponse{data=models.MLInsight}
// @Router /api/v1/ml/summary [get]
func (h *Handler) InsightSummary(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(h.insights.HighestRisk(queryInt(r, "windowSize")))
}
