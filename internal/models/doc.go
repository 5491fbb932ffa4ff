// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

/*
Package models defines data structures for the Barfani application.

This package contains all data models used throughout the application,
including sensor telemetry, threshold and statistical assessments, risk
scoring outputs, alert records, and API request/response structures. It
serves as the single source of truth for data structure definitions.

Key Components:

  - SensorReading: Core telemetry model for a single node observation
  - ThresholdAssessment: Rule-based alert decision with contributing factors
  - AnomalyResult / TrendResult: Statistical analysis outputs
  - RiskAssessment: Weighted composite risk score with tier and guidance
  - MLInsight: Combined per-node analysis surface for API and WebSocket
  - Alert / DeliveryRecord: Persisted alert history and notification outcomes
  - APIResponse: Standardized API response wrapper

Model Categories:

1. Telemetry Models:
  - SensorReading: Per-node observation (temperature, lake level, seismic)

2. Assessment Models:
  - ThresholdAssessment: Additive rule scoring and severity tier
  - WaterTrend: Rapid-rise detection over the recent window
  - AnomalyResult, TrendResult, Prediction: Statistical engine outputs
  - RiskAssessment: Composite 0-100 score with recommendation

3. Alerting Models:
  - Alert: Persisted alert with triggering reading snapshot
  - DeliveryRecord: Per-language notification outcome

4. API Models:
  - APIResponse, APIError, Metadata: Standard response envelope
*/
package models
