// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package api

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/project-barfani/barfani/internal/logging"
	"github.com/project-barfani/barfani/internal/models"
)

// Error codes returned in the response envelope.
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeDatabase       = "DATABASE_ERROR"
	ErrCodeAuthentication = "AUTHENTICATION_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeRateLimit      = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// ResponseWriter writes envelope responses and tracks query timing.
// Create one per request with NewResponseWriter.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter creates a response writer for the given request.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{
		w:         w,
		r:         r,
		startTime: time.Now(),
	}
}

// Success writes a 200 envelope with the given payload.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.writeEnvelope(http.StatusOK, data, false)
}

// Created writes a 201 envelope with the given payload.
func (rw *ResponseWriter) Created(data interface{}) {
	rw.writeEnvelope(http.StatusCreated, data, false)
}

// Cached writes a 200 envelope flagged as served from cache.
func (rw *ResponseWriter) Cached(data interface{}) {
	rw.writeEnvelope(http.StatusOK, data, true)
}

// Error writes an error envelope with the given status and code.
func (rw *ResponseWriter) Error(status int, code, message string) {
	rw.ErrorWithDetails(status, code, message, nil)
}

// ErrorWithDetails writes an error envelope carrying structured details,
// such as per-field validation failures.
func (rw *ResponseWriter) ErrorWithDetails(status int, code, message string, details map[string]interface{}) {
	resp := models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	}
	rw.writeJSON(status, resp)
}

// ValidationError writes a 400 envelope from a structured API error,
// typically produced by the validation package.
func (rw *ResponseWriter) ValidationError(message string, details map[string]interface{}) {
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation, message, details)
}

// BadRequest writes a 400 validation error envelope.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeValidation, message)
}

// Unauthorized writes a 401 authentication error envelope.
func (rw *ResponseWriter) Unauthorized(message string) {
	rw.Error(http.StatusUnauthorized, ErrCodeAuthentication, message)
}

// NotFound writes a 404 envelope.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// DatabaseError writes a 500 envelope for a failed archive query. The
// underlying error is logged, not exposed.
func (rw *ResponseWriter) DatabaseError(err error) {
	logging.Err(err).
		Str("path", rw.r.URL.Path).
		Msg("database query failed")
	rw.Error(http.StatusInternalServerError, ErrCodeDatabase, "query execution failed")
}

// InternalError writes a 500 envelope for an unexpected failure.
func (rw *ResponseWriter) InternalError(err error) {
	logging.Err(err).
		Str("path", rw.r.URL.Path).
		Msg("internal error")
	rw.Error(http.StatusInternalServerError, ErrCodeInternal, "internal server error")
}

func (rw *ResponseWriter) writeEnvelope(status int, data interface{}, cached bool) {
	meta := models.Metadata{
		Timestamp: time.Now().UTC(),
		Cached:    cached,
	}
	if !cached {
		meta.QueryTimeMS = time.Since(rw.startTime).Milliseconds()
	}
	rw.writeJSON(status, models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: meta,
	})
}

func (rw *ResponseWriter) writeJSON(status int, resp models.APIResponse) {
	rw.w.Header().Set("Content-Type", "application/json")
	rw.w.WriteHeader(status)
	if err := json.NewEncoder(rw.w).Encode(resp); err != nil {
		logging.Err(err).
			Str("path", rw.r.URL.Path).
			Msg("failed to encode response")
	}
}
