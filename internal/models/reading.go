// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package models

import (
	"time"
)

// SensorReading represents a single observation reported by a monitoring node.
//
// Readings arrive over HTTP from field gateways and are retained per node in
// arrival order. Timestamps are informational only: ordering, windowing, and
// trend analysis all operate on arrival position, because field clocks drift
// and gateways batch uploads after connectivity gaps.
//
// Fields:
//   - NodeID: Stable identifier of the reporting station (e.g. "shisper-01")
//   - Timestamp: Device-reported observation time (RFC3339)
//   - ReceivedAt: Server arrival time, set during ingestion
//   - TemperatureC: Air temperature at the lake in degrees Celsius
//   - WaterLevelCM: Lake surface level in centimeters above the gauge datum
//   - SeismicActivity: Normalized ground motion magnitude (unitless, >= 0)
//   - BatteryPct: Optional station battery charge (0-100)
//   - SignalStrength: Optional gateway uplink RSSI in dBm
type SensorReading struct {
	NodeID          string    `json:"nodeId"`
	Timestamp       time.Time `json:"timestamp"`
	ReceivedAt      time.Time `json:"receivedAt,omitempty"`
	TemperatureC    float64   `json:"temperature"`
	WaterLevelCM    float64   `json:"waterLevel"`
	SeismicActivity float64   `json:"seismicActivity"`
	BatteryPct      *float64  `json:"batteryLevel,omitempty"`
	SignalStrength  *float64  `json:"signalStrength,omitempty"`
}

// Metric identifies one of the analyzed telemetry channels.
type Metric string

// Telemetry channels subject to statistical analysis.
const (
	MetricTemperature Metric = "temperature"
	MetricWaterLevel  Metric = "waterLevel"
	MetricSeismic     Metric = "seismicActivity"
)

// Metrics lists the analyzed channels in canonical order.
func Metrics() []Metric {
	return []Metric{MetricTemperature, MetricWaterLevel, MetricSeismic}
}

// Value extracts the named channel from a reading.
func (r SensorReading) Value(m Metric) float64 {
	switch m {
	case MetricTemperature:
		return r.TemperatureC
	case MetricWaterLevel:
		return r.WaterLevelCM
	case MetricSeismic:
		return r.SeismicActivity
	}
	return 0
}

// NodeStatus summarizes the most recent state of a monitoring node for the
// node list endpoint and WebSocket sensor_update broadcasts.
type NodeStatus struct {
	NodeID       string         `json:"nodeId"`
	LastReading  *SensorReading `json:"lastReading,omitempty"`
	ReadingCount int            `json:"readingCount"`
	LastSeen     time.Time      `json:"lastSeen"`
}
