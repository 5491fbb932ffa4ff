// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/project-barfani/barfani/internal/logging"
	"github.com/project-barfani/barfani/internal/validation"
)

// IngestSensorData godoc
// @Summary Ingest a sensor reading
// @Description Accepts one telemetry reading, evaluates it against the alert rules, and returns the stored reading with its assessment. Raised alerts are included in the response.
// @Tags sensor
// @Accept json
// @Produce json
// @Param reading body IngestRequest true "Sensor reading"
// @Success 201 {object} models.APIResponse{data=models.IngestResponse}
// @Failure 400 {object} models.APIResponse
// @Router /api/v1/sensor/data [post]
func (h *Handler) IngestSensorData(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req IngestRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	resp := h.pipeline.Ingest(r.Context(), req.Reading())
	h.nodeCache.invalidate()

	rw.Created(resp)
}

// ListNodes godoc
// @Summary List monitoring nodes
// @Description Returns the latest status of every node that has reported at least one reading. Served from a short-lived cache.
// @Tags sensor
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.NodeStatus}
// @Router /api/v1/sensor/nodes [get]
func (h *Handler) ListNodes(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if statuses, ok := h.nodeCache.get(); ok {
		rw.Cached(statuses)
		return
	}

	statuses := h.history.Statuses()
	h.nodeCache.set(statuses)
	rw.Success(statuses)
}

// NodeReadings godoc
// @Summary Recent readings for a node
// @Description Returns the node's most recent readings from the in-memory window, newest last.
// @Tags sensor
// @Produce json
// @Param nodeID path string true "Node identifier"
// @Param limit query int false "Maximum readings to return, full retained window when unset"
// @Success 200 {object} models.APIResponse{data=[]models.SensorReading}
// @Failure 404 {object} models.APIResponse
// @Router /api/v1/sensor/node/{nodeID} [get]
func (h *Handler) NodeReadings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	nodeID := chi.URLParam(r, "nodeID")
	if err := validation.GetValidator().Var(nodeID, "required,nodeid"); err != nil {
		rw.BadRequest("invalid node id")
		return
	}

	if h.history.Len(nodeID) == 0 {
		rw.NotFound("node has no readings")
		return
	}

	// Without an explicit limit, serve the full retained window.
	limit := queryInt(r, "limit")
	if limit <= 0 {
		limit = h.history.Capacity()
	} else {
		limit = h.pageSize(limit)
	}
	rw.Success(h.history.Tail(nodeID, limit))
}

// NodeAssessment godoc
// @Summary Latest threshold assessment for a node
// @Description Re-evaluates the node's most recent reading against the current thresholds. Pure read, no state change.
// @Tags sensor
// @Produce json
// @Param nodeID path string true "Node identifier"
// @Success 200 {object} models.APIResponse{data=models.ThresholdAssessment}
// @Failure 404 {object} models.APIResponse
// @Router /api/v1/sensor/node/{nodeID}/assessment [get]
func (h *Handler) NodeAssessment(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	nodeID := chi.URLParam(r, "nodeID")
	if err := validation.GetValidator().Var(nodeID, "required,nodeid"); err != nil {
		rw.BadRequest("invalid node id")
		return
	}

	latest, ok := h.history.Latest(nodeID)
	if !ok {
		rw.NotFound("node has no readings")
		return
	}
	rw.Success(h.rules.Evaluate(latest, h.history.Snapshot(nodeID)))
}

// ResetSystem godoc
// @Summary Reset all monitoring state
// @Description Clears the in-memory history and the archive. Intended for demo and exercise scenarios.
// @Tags sensor
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/v1/sensor/reset [post]
func (h *Handler) ResetSystem(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.pipeline.Reset(r.Context()); err != nil {
		rw.DatabaseError(err)
		return
	}
	h.nodeCache.invalidate()

	logging.Info().Msg("system state reset")
	rw.Success(map[string]string{"message": "system reset complete"})
}

// queryInt parses an integer query parameter. Absent or malformed
// values return 0 and fall back to the handler's default.
func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
