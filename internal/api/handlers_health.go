// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package api

import (
	"net/http"
	"time"
)

var startedAt = time.Now()

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
	Nodes         int     `json:"nodes"`
	WSClients     int     `json:"wsClients"`
	ArchiveOK     bool    `json:"archiveOk"`
}

// Health godoc
// @Summary Service health
// @Description Returns overall health including archive reachability and connected client counts.
// @Tags health
// @Produce json
// @Success 200 {object} models.APIResponse{data=HealthStatus}
// @Router /api/v1/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := HealthStatus{
		Status:        "ok",
		UptimeSeconds: time.Since(startedAt).Seconds(),
		Nodes:         len(h.history.NodeIDs()),
		ArchiveOK:     true,
	}
	if h.hub != nil {
		status.WSClients = h.hub.GetClientCount()
	}
	if _, err := h.db.ReadingCount(r.Context()); err != nil {
		status.Status = "degraded"
		status.ArchiveOK = false
	}

	rw.Success(status)
}

// Liveness reports that the process is up. Always 200.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// Readiness reports whether the service can answer queries. The archive
// is the only hard dependency.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if _, err := h.db.ReadingCount(r.Context()); err != nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeInternal, "archive unavailable")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}
