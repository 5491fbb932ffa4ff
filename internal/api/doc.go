// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

// Package api provides the HTTP API for the monitoring gateway.
//
// Routing uses Chi with ecosystem middleware: go-chi/cors for CORS,
// go-chi/httprate for per-IP rate limiting, plus the project's own
// request-ID, Prometheus, and compression middleware. All endpoints
// respond with the standard envelope from the models package:
//
//	{"status": "success", "data": ..., "metadata": {...}}
//	{"status": "error", "error": {"code": ..., "message": ...}}
//
// Route groups:
//
//	/api/v1/sensor     reading ingestion, node listing, assessments, demo reset
//	/api/v1/alerts     alert history, active alerts, delivery records
//	/api/v1/ml         per-node statistical insights
//	/api/v1/analytics  fleet-wide summary
//	/api/v1/settings   runtime threshold and notification configuration
//	/api/v1/auth       login (jwt mode)
//	/api/v1/health     liveness and readiness
//	/api/v1/ws         live dashboard updates
//	/metrics           Prometheus scrape endpoint
//	/swagger           interactive API documentation
package api
