// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package models

import (
	"time"

	"github.com/google/uuid"
)

// Alert is a persisted record of a threshold breach that crossed the
// notification bar (HIGH or CRITICAL severity).
//
// The triggering reading is stored as a snapshot so the alert remains
// interpretable after the node's in-memory history rolls over.
type Alert struct {
	ID         uuid.UUID     `json:"id"`
	NodeID     string        `json:"nodeId"`
	Severity   Severity      `json:"severity"`
	Score      int           `json:"score"`
	Factors    []string      `json:"factors"`
	Reading    SensorReading `json:"reading"`
	WaterTrend WaterTrend    `json:"waterTrend"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// DeliveryStatus is the outcome of a single notification attempt.
type DeliveryStatus string

// Delivery outcomes. Each alert/language pair gets at most one attempt;
// there are no retries, so these states are terminal.
const (
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
	DeliverySkipped DeliveryStatus = "skipped"
)

// Language is a notification rendering language.
type Language string

// Supported notification languages. Urdu and Balti serve the communities
// in the monitored valleys; English serves the provincial authorities.
const (
	LangEnglish Language = "en"
	LangUrdu    Language = "ur"
	LangBalti   Language = "bs"
)

// Languages lists the notification languages in dispatch order.
func Languages() []Language {
	return []Language{LangEnglish, LangUrdu, LangBalti}
}

// DeliveryRecord captures the outcome of one per-language notification
// attempt for an alert. Records are written to the delivery ledger after
// the attempt completes, success or failure.
type DeliveryRecord struct {
	AlertID     uuid.UUID      `json:"alertId"`
	Language    Language       `json:"language"`
	Recipients  []string       `json:"recipients"`
	Status      DeliveryStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	AttemptedAt time.Time      `json:"attemptedAt"`
	DurationMS  int64          `json:"durationMs"`
}
