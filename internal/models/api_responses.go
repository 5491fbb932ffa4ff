// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP
// endpoints. It provides consistent structure for both successful and error
// responses, with metadata for observability and caching information.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"nodeId": "shisper-01", "severity": "HIGH"},
//	  "metadata": {
//	    "timestamp": "2026-08-28T12:00:00Z",
//	    "query_time_ms": 4,
//	    "cached": false
//	  }
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance
// tracking. Cached responses report QueryTimeMS 0 with Cached true; fresh
// queries report actual execution time.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - DATABASE_ERROR: Query execution failure
//   - AUTHENTICATION_ERROR: Invalid/missing credentials
//   - NOT_FOUND: Resource doesn't exist
//   - RATE_LIMIT_EXCEEDED: Too many requests
//   - INTERNAL_ERROR: Unexpected server failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// IngestResponse is the payload returned by the sensor ingestion endpoint.
// The assessment is computed synchronously before the response is written,
// so callers always see the alert decision for the reading they submitted.
type IngestResponse struct {
	Reading    SensorReading       `json:"reading"`
	Assessment ThresholdAssessment `json:"assessment"`
	Alert      *Alert              `json:"alert,omitempty"`
}

// AnalyticsSummary aggregates fleet-wide state for the dashboard.
// BySeverity counts alerts raised within the last 24 hours.
type AnalyticsSummary struct {
	NodeCount    int            `json:"nodeCount"`
	ReadingCount int64          `json:"readingCount"`
	AlertCount   int64          `json:"alertCount"`
	ActiveAlerts int            `json:"activeAlerts"`
	BySeverity   map[string]int `json:"bySeverity"`
	HighestRisk  *MLInsight     `json:"highestRisk,omitempty"`
	GeneratedAt  time.Time      `json:"generatedAt"`
}
