// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/project-barfani/barfani/internal/logging"
)

type contextKey string

// RequestIDKey is the request context key holding the request ID.
const RequestIDKey contextKey = "request_id"

// RequestID generates a unique ID for each request, adds it to the
// response header, and wires it into the logging context so every log
// line for the request carries it. An upstream proxy's X-Request-ID is
// honored when present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logging.ContextWithRequestID(ctx, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
