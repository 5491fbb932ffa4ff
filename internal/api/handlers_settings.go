// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package api

import (
	"net/http"

	"github.com/project-barfani/barfani/internal/alerting"
	"github.com/project-barfani/barfani/internal/logging"
	"github.com/project-barfani/barfani/internal/models"
	"github.com/project-barfani/barfani/internal/rules"
)

// SettingsResponse is the runtime settings snapshot. The SMTP password
// is never echoed back.
type SettingsResponse struct {
	Thresholds rules.Thresholds `json:"thresholds"`
	Alerting   alertingSettings `json:"alerting"`
}

type alertingSettings struct {
	SMTPHost     string                   `json:"smtpHost"`
	SMTPPort     int                      `json:"smtpPort"`
	SMTPFrom     string                   `json:"smtpFrom"`
	SMTPEnabled  bool                     `json:"smtpEnabled"`
	Recipients   alerting.RecipientGroups `json:"recipients"`
	DashboardURL string                   `json:"dashboardUrl"`
}

// GetSettings godoc
// @Summary Current runtime settings
// @Description Returns the active alert thresholds and notification configuration. Credentials are redacted.
// @Tags settings
// @Produce json
// @Success 200 {object} models.APIResponse{data=SettingsResponse}
// @Router /api/v1/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	cfg := h.dispatcher.ConfigSnapshot()
	rw.Success(SettingsResponse{
		Thresholds: h.rules.Thresholds(),
		Alerting: alertingSettings{
			SMTPHost:     cfg.SMTP.Host,
			SMTPPort:     cfg.SMTP.Port,
			SMTPFrom:     cfg.SMTP.From,
			SMTPEnabled:  cfg.SMTP.Enabled(),
			Recipients:   cfg.Recipients,
			DashboardURL: cfg.DashboardURL,
		},
	})
}

// UpdateThresholds godoc
// @Summary Update alert thresholds
// @Description Replaces the rule engine thresholds. Applies to subsequent readings immediately.
// @Tags settings
// @Accept json
// @Produce json
// @Param thresholds body ThresholdsRequest true "New thresholds"
// @Success 200 {object} models.APIResponse{data=rules.Thresholds}
// @Failure 400 {object} models.APIResponse
// @Router /api/v1/settings/thresholds [put]
func (h *Handler) UpdateThresholds(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ThresholdsRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	t := req.Thresholds()
	if err := h.rules.SetThresholds(t); err != nil {
		rw.BadRequest(err.Error())
		return
	}

	logging.Info().
		Float64("temperature", t.TemperatureC).
		Float64("seismic", t.Seismic).
		Float64("water_rise_percent", t.WaterRisePercent).
		Int("water_rise_lookback", t.WaterRiseLookback).
		Msg("alert thresholds updated")

	rw.Success(t)
}

// UpdateEmailSettings godoc
// @Summary Update notification settings
// @Description Replaces the dispatcher's SMTP and recipient configuration. Subsequent alerts use the new settings.
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body EmailSettingsRequest true "New notification settings"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /api/v1/settings/email [put]
func (h *Handler) UpdateEmailSettings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req EmailSettingsRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	h.dispatcher.Configure(req.AlertingConfig())
	logging.Info().
		Str("smtp_host", req.SMTP.Host).
		Msg("notification settings updated")

	rw.Success(map[string]string{"message": "notification settings updated"})
}

// SendTestEmail godoc
// @Summary Send a test notification
// @Description Sends a test message to one recipient using the current SMTP configuration.
// @Tags settings
// @Accept json
// @Produce json
// @Param request body TestEmailRequest true "Test recipient"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/v1/settings/email/test [post]
func (h *Handler) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req TestEmailRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	if err := h.dispatcher.SendTest(r.Context(), req.To, models.Language(req.Language)); err != nil {
		rw.InternalError(err)
		return
	}
	rw.Success(map[string]string{"message": "test notification sent"})
}
