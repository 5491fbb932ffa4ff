// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/project-barfani/barfani/internal/database"
	"github.com/project-barfani/barfani/internal/models"
	"github.com/project-barfani/barfani/internal/validation"
)

// ListAlerts godoc
// @Summary List alert history
// @Description Returns archived alerts, newest first, with limit/offset pagination. Optionally filtered by node and severity.
// @Tags alerts
// @Produce json
// @Param limit query int false "Maximum alerts to return"
// @Param offset query int false "Alerts to skip"
// @Param nodeId query string false "Filter by node"
// @Param severity query string false "Filter by severity (LOW, MEDIUM, HIGH, CRITICAL)"
// @Success 200 {object} models.APIResponse{data=[]models.Alert}
// @Failure 500 {object} models.APIResponse
// @Router /api/v1/alerts [get]
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	filter := database.AlertFilter{
		NodeID: r.URL.Query().Get("nodeId"),
		Limit:  h.pageSize(queryInt(r, "limit")),
		Offset: queryInt(r, "offset"),
	}
	if sev := r.URL.Query().Get("severity"); sev != "" {
		if err := validation.GetValidator().Var(sev, "risktier"); err != nil {
			rw.BadRequest("invalid severity")
			return
		}
		filter.Severity = models.Severity(sev)
	}

	alerts, err := h.db.Alerts(r.Context(), filter)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(alerts)
}

// ActiveAlerts godoc
// @Summary List active alerts
// @Description Returns HIGH and CRITICAL alerts raised within the last 24 hours.
// @Tags alerts
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.Alert}
// @Failure 500 {object} models.APIResponse
// @Router /api/v1/alerts/active [get]
func (h *Handler) ActiveAlerts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	alerts, err := h.db.ActiveAlerts(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(alerts)
}

// GetAlert godoc
// @Summary Fetch one alert
// @Description Returns the archived alert with the given ID.
// @Tags alerts
// @Produce json
// @Param alertID path string true "Alert UUID"
// @Success 200 {object} models.APIResponse{data=models.Alert}
// @Failure 404 {object} models.APIResponse
// @Router /api/v1/alerts/{alertID} [get]
func (h *Handler) GetAlert(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := uuid.Parse(chi.URLParam(r, "alertID"))
	if err != nil {
		rw.BadRequest("invalid alert id")
		return
	}

	alert, err := h.db.GetAlert(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrAlertNotFound) {
			rw.NotFound("alert not found")
			return
		}
		rw.DatabaseError(err)
		return
	}
	rw.Success(alert)
}

// AlertDeliveries godoc
// @Summary Delivery records for an alert
// @Description Returns the per-language notification delivery outcomes recorded for the alert.
// @Tags alerts
// @Produce json
// @Param alertID path string true "Alert UUID"
// @Success 200 {object} models.APIResponse{data=[]models.DeliveryRecord}
// @Failure 500 {object} models.APIResponse
// @Router /api/v1/alerts/deliveries/{alertID} [get]
func (h *Handler) AlertDeliveries(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := uuid.Parse(chi.URLParam(r, "alertID"))
	if err != nil {
		rw.BadRequest("invalid alert id")
		return
	}

	records, err := h.ledger.Deliveries(id)
	if err != nil {
		rw.InternalError(err)
		return
	}
	rw.Success(records)
}
