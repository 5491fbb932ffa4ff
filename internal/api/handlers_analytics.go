// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package api

import (
	"net/http"
	"time"

	"github.com/project-barfani/barfani/internal/models"
)

// AnalyticsSummary godoc
// @Summary Fleet-wide analytics summary
// @Description Aggregates archive counts, 24-hour severity totals, active alert state, and the highest-risk node insight for the dashboard overview.
// @Tags analytics
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.AnalyticsSummary}
// @Failure 500 {object} models.APIResponse
// @Router /api/v1/analytics/summary [get]
func (h *Handler) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx := r.Context()

	nodeCount, err := h.db.NodeCount(ctx)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	readingCount, err := h.db.ReadingCount(ctx)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	alertCount, err := h.db.AlertCount(ctx)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	active, err := h.db.ActiveAlerts(ctx)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	bySeverity, err := h.db.AlertCountsBySeverity(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.Success(models.AnalyticsSummary{
		NodeCount:    int(nodeCount),
		ReadingCount: readingCount,
		AlertCount:   alertCount,
		ActiveAlerts: len(active),
		BySeverity:   bySeverity,
		HighestRisk:  h.insights.HighestRisk(0),
		GeneratedAt:  time.Now().UTC(),
	})
}
