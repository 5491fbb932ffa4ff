// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package validation

import (
	"strings"
	"testing"
)

type ingestRequest struct {
	NodeID       string  `validate:"required,nodeid"`
	TemperatureC float64 `validate:"gte=-60,lte=60"`
	WaterLevelCM float64 `validate:"gte=0,lte=10000"`
	Seismic      float64 `validate:"gte=0,lte=10"`
}

func validRequest() ingestRequest {
	return ingestRequest{
		NodeID:       "hunza-01",
		TemperatureC: -2.5,
		WaterLevelCM: 245.0,
		Seismic:      0.12,
	}
}

func TestValidateStructPasses(t *testing.T) {
	t.Parallel()
	req := validRequest()
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("ValidateStruct() = %v, want nil", err)
	}
}

func TestNodeIDValidation(t *testing.T) {
	t.Parallel()
	cases := []struct {
		nodeID string
		ok     bool
	}{
		{"hunza-01", true},
		{"passu_glacier_2", true},
		{"N1", true},
		{"a", true},
		{"", false},
		{"-leading-dash", false},
		{"has space", false},
		{"semi;colon", false},
		{"path/../traversal", false},
		{strings.Repeat("a", 64), true},
		{strings.Repeat("a", 65), false},
	}

	for _, tc := range cases {
		req := validRequest()
		req.NodeID = tc.nodeID
		err := ValidateStruct(&req)
		if tc.ok && err != nil {
			t.Errorf("nodeID %q rejected: %v", tc.nodeID, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("nodeID %q accepted, want rejection", tc.nodeID)
		}
	}
}

func TestRangeValidation(t *testing.T) {
	t.Parallel()
	req := validRequest()
	req.TemperatureC = -100

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("out-of-range temperature accepted")
	}
	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "TemperatureC") {
		t.Errorf("message %q does not name the field", apiErr.Message)
	}
}

func TestMultipleErrorsListAllFields(t *testing.T) {
	t.Parallel()
	req := ingestRequest{NodeID: "", TemperatureC: 500, WaterLevelCM: -1, Seismic: 0.1}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("invalid request accepted")
	}
	if got := len(err.Errors()); got != 3 {
		t.Fatalf("got %d errors, want 3", got)
	}
	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("details fields has type %T", apiErr.Details["fields"])
	}
	if len(fields) != 3 {
		t.Errorf("details list %d fields, want 3", len(fields))
	}
}

func TestLanguageCodeValidation(t *testing.T) {
	t.Parallel()
	type req struct {
		Language string `validate:"omitempty,langcode"`
	}

	cases := []struct {
		lang string
		ok   bool
	}{
		{"", true},
		{"en", true},
		{"ur", true},
		{"bs", true},
		{"EN", false},
		{"de", false},
		{"english", false},
	}

	for _, tc := range cases {
		err := ValidateStruct(&req{Language: tc.lang})
		if tc.ok && err != nil {
			t.Errorf("language %q rejected: %v", tc.lang, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("language %q accepted, want rejection", tc.lang)
		}
	}
}

func TestRiskTierValidation(t *testing.T) {
	t.Parallel()
	type req struct {
		Severity string `validate:"omitempty,risktier"`
	}

	cases := []struct {
		severity string
		ok       bool
	}{
		{"", true},
		{"LOW", true},
		{"MEDIUM", true},
		{"HIGH", true},
		{"CRITICAL", true},
		{"critical", false},
		{"SEVERE", false},
	}

	for _, tc := range cases {
		err := ValidateStruct(&req{Severity: tc.severity})
		if tc.ok && err != nil {
			t.Errorf("severity %q rejected: %v", tc.severity, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("severity %q accepted, want rejection", tc.severity)
		}
	}
}
