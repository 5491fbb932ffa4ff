// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package api

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/project-barfani/barfani/internal/alerting"
	"github.com/project-barfani/barfani/internal/models"
	"github.com/project-barfani/barfani/internal/rules"
	"github.com/project-barfani/barfani/internal/validation"
)

// maxRequestBody caps JSON request bodies. Sensor payloads are a few
// hundred bytes; anything near the cap is malformed or hostile.
const maxRequestBody = 64 * 1024

// IngestRequest is the sensor ingestion payload.
type IngestRequest struct {
	NodeID          string    `json:"nodeId" validate:"required,nodeid"`
	Timestamp       time.Time `json:"timestamp"`
	TemperatureC    float64   `json:"temperature" validate:"gte=-60,lte=60"`
	WaterLevelCM    float64   `json:"waterLevel" validate:"gte=0,lte=10000"`
	SeismicActivity float64   `json:"seismicActivity" validate:"gte=0,lte=10"`
	BatteryPct      *float64  `json:"batteryLevel" validate:"omitempty,gte=0,lte=100"`
	SignalStrength  *float64  `json:"signalStrength" validate:"omitempty,gte=-150,lte=0"`
}

// Reading converts the request into the domain reading type.
func (req IngestRequest) Reading() models.SensorReading {
	return models.SensorReading{
		NodeID:          req.NodeID,
		Timestamp:       req.Timestamp,
		TemperatureC:    req.TemperatureC,
		WaterLevelCM:    req.WaterLevelCM,
		SeismicActivity: req.SeismicActivity,
		BatteryPct:      req.BatteryPct,
		SignalStrength:  req.SignalStrength,
	}
}

// LoginRequest is the jwt-mode login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// ThresholdsRequest updates the rule engine thresholds.
type ThresholdsRequest struct {
	TemperatureC      float64 `json:"temperature" validate:"gte=-60,lte=60"`
	Seismic           float64 `json:"seismic" validate:"gte=0,lte=10"`
	WaterRisePercent  float64 `json:"waterRisePercent" validate:"gt=0,lte=1000"`
	WaterRiseLookback int     `json:"waterRiseLookback" validate:"gte=1,lte=100"`
}

// Thresholds converts the request into engine thresholds.
func (req ThresholdsRequest) Thresholds() rules.Thresholds {
	return rules.Thresholds{
		TemperatureC:      req.TemperatureC,
		Seismic:           req.Seismic,
		WaterRisePercent:  req.WaterRisePercent,
		WaterRiseLookback: req.WaterRiseLookback,
	}
}

// EmailSettingsRequest updates the notification dispatcher configuration.
type EmailSettingsRequest struct {
	SMTP struct {
		Host     string `json:"host" validate:"omitempty,hostname_rfc1123"`
		Port     int    `json:"port" validate:"omitempty,gte=1,lte=65535"`
		Username string `json:"username" validate:"max=128"`
		Password string `json:"password" validate:"max=128"`
		From     string `json:"from" validate:"omitempty,email"`
		FromName string `json:"fromName" validate:"max=128"`
		UseTLS   bool   `json:"useTls"`
	} `json:"smtp"`
	Recipients struct {
		PDMA      []string `json:"pdma" validate:"max=50,dive,email"`
		Emergency []string `json:"emergency" validate:"max=50,dive,email"`
		Community []string `json:"community" validate:"max=50,dive,email"`
	} `json:"recipients"`
	DashboardURL string `json:"dashboardUrl" validate:"omitempty,url"`
}

// AlertingConfig converts the request into dispatcher configuration.
func (req EmailSettingsRequest) AlertingConfig() alerting.Config {
	return alerting.Config{
		SMTP: alerting.SMTPConfig{
			Host:     req.SMTP.Host,
			Port:     req.SMTP.Port,
			Username: req.SMTP.Username,
			Password: req.SMTP.Password,
			From:     req.SMTP.From,
			FromName: req.SMTP.FromName,
			UseTLS:   req.SMTP.UseTLS,
		},
		Recipients: alerting.RecipientGroups{
			PDMA:      req.Recipients.PDMA,
			Emergency: req.Recipients.Emergency,
			Community: req.Recipients.Community,
		},
		DashboardURL: req.DashboardURL,
	}
}

// TestEmailRequest triggers a test notification. Language defaults to
// English when omitted.
type TestEmailRequest struct {
	To       string `json:"to" validate:"required,email"`
	Language string `json:"language,omitempty" validate:"omitempty,langcode"`
}

// decodeAndValidate decodes a JSON body into dst and runs struct
// validation. On failure it writes the error envelope and returns false.
func decodeAndValidate(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(rw.w, r.Body, maxRequestBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		rw.BadRequest(fmt.Sprintf("invalid request body: %v", err))
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}
