// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/project-barfani/barfani/internal/alerting"
	"github.com/project-barfani/barfani/internal/auth"
	"github.com/project-barfani/barfani/internal/config"
	"github.com/project-barfani/barfani/internal/database"
	"github.com/project-barfani/barfani/internal/history"
	"github.com/project-barfani/barfani/internal/insight"
	"github.com/project-barfani/barfani/internal/models"
	"github.com/project-barfani/barfani/internal/pipeline"
	"github.com/project-barfani/barfani/internal/rules"
	"github.com/project-barfani/barfani/internal/stats"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080, Environment: "test"},
		Security: config.SecurityConfig{
			AuthMode:          "none",
			RateLimitDisabled: true,
		},
		API: config.APIConfig{
			DefaultPageSize: 50,
			MaxPageSize:     500,
			NodeCacheTTL:    time.Minute,
		},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *Handler) {
	t.Helper()

	cfg := testConfig()

	db, err := database.New(&config.DatabaseConfig{})
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ledger, err := alerting.OpenLedger("")
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { ledger.Close() })

	hist := history.NewStore(100)
	engine := rules.NewEngine(rules.DefaultThresholds())
	detector := stats.NewEngine(stats.Config{})
	insights := insight.NewService(hist, detector)
	dispatcher := alerting.NewDispatcher(alerting.DefaultConfig(), ledger, nil)
	pipe := pipeline.New(hist, engine, db, nil, nil)

	authMW := auth.NewMiddleware(&cfg.Security, nil, nil)
	h := NewHandler(cfg, pipe, hist, engine, insights, db, dispatcher, ledger, nil, authMW)

	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, h
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) models.APIResponse {
	t.Helper()
	defer resp.Body.Close()
	var env models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func ingestReading(t *testing.T, srv *httptest.Server, nodeID string, temp, water, seismic float64) {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/v1/sensor/data", map[string]interface{}{
		"nodeId":          nodeID,
		"temperature":     temp,
		"waterLevel":      water,
		"seismicActivity": seismic,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("ingest status = %d, want 201", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestIngestEndpoint(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/sensor/data", map[string]interface{}{
		"nodeId":          "shisper-01",
		"temperature":     -2.5,
		"waterLevel":      240.0,
		"seismicActivity": 0.05,
		"batteryLevel":    87.0,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	if env.Status != "success" {
		t.Fatalf("envelope status = %q, want success", env.Status)
	}

	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data type = %T, want object", env.Data)
	}
	assessment, ok := data["assessment"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing assessment in ingest response")
	}
	if sev := assessment["severity"]; sev != "LOW" {
		t.Errorf("severity = %v, want LOW for a quiet reading", sev)
	}
}

func TestIngestValidationError(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/sensor/data", map[string]interface{}{
		"nodeId":          "../etc/passwd",
		"temperature":     5.0,
		"waterLevel":      240.0,
		"seismicActivity": 0.05,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	if env.Status != "error" {
		t.Fatalf("envelope status = %q, want error", env.Status)
	}
	if env.Error == nil || env.Error.Code != ErrCodeValidation {
		t.Fatalf("error = %+v, want code %s", env.Error, ErrCodeValidation)
	}
}

func TestIngestRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/sensor/data", map[string]interface{}{
		"nodeId":          "shisper-01",
		"temperature":     5.0,
		"waterLevel":      240.0,
		"seismicActivity": 0.05,
		"bogusField":      true,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListNodesCached(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	ingestReading(t, srv, "shisper-01", -3, 240, 0.05)
	ingestReading(t, srv, "passu-02", -5, 180, 0.02)

	resp, err := http.Get(srv.URL + "/api/v1/sensor/nodes")
	if err != nil {
		t.Fatalf("GET nodes: %v", err)
	}
	env := decodeEnvelope(t, resp)
	nodes, ok := env.Data.([]interface{})
	if !ok || len(nodes) != 2 {
		t.Fatalf("nodes = %v, want 2 entries", env.Data)
	}
	if env.Metadata.Cached {
		t.Errorf("first fetch should not be cached")
	}

	resp, err = http.Get(srv.URL + "/api/v1/sensor/nodes")
	if err != nil {
		t.Fatalf("GET nodes: %v", err)
	}
	env = decodeEnvelope(t, resp)
	if !env.Metadata.Cached {
		t.Errorf("second fetch should be served from cache")
	}
}

func TestNodeReadingsNotFound(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/sensor/node/never-reported")
	if err != nil {
		t.Fatalf("GET node: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestNodeAssessment(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	ingestReading(t, srv, "ghulkin-03", -4, 220, 0.05)

	resp, err := http.Get(srv.URL + "/api/v1/sensor/node/ghulkin-03/assessment")
	if err != nil {
		t.Fatalf("GET assessment: %v", err)
	}
	env := decodeEnvelope(t, resp)
	data := env.Data.(map[string]interface{})
	if data["severity"] != "LOW" {
		t.Errorf("severity = %v, want LOW", data["severity"])
	}
	if data["shouldAlert"] != false {
		t.Errorf("shouldAlert = %v, want false", data["shouldAlert"])
	}
}

func TestAlertLifecycle(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	// Establish a calm baseline, then hit every threshold at once.
	for i := 0; i < 5; i++ {
		ingestReading(t, srv, "shisper-01", -4, 240, 0.05)
	}
	resp := postJSON(t, srv.URL+"/api/v1/sensor/data", map[string]interface{}{
		"nodeId":          "shisper-01",
		"temperature":     14.0,
		"waterLevel":      350.0,
		"seismicActivity": 0.9,
	})
	env := decodeEnvelope(t, resp)
	data := env.Data.(map[string]interface{})
	alertData, ok := data["alert"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected an alert in the ingest response, got %v", data["alert"])
	}
	alertID, _ := alertData["id"].(string)
	if alertID == "" {
		t.Fatalf("alert has no id")
	}

	resp, err := http.Get(srv.URL + "/api/v1/alerts/active")
	if err != nil {
		t.Fatalf("GET active alerts: %v", err)
	}
	env = decodeEnvelope(t, resp)
	active, ok := env.Data.([]interface{})
	if !ok || len(active) != 1 {
		t.Fatalf("active alerts = %v, want 1", env.Data)
	}

	resp, err = http.Get(srv.URL + "/api/v1/alerts/" + alertID)
	if err != nil {
		t.Fatalf("GET alert: %v", err)
	}
	env = decodeEnvelope(t, resp)
	got := env.Data.(map[string]interface{})
	if got["severity"] != "CRITICAL" {
		t.Errorf("severity = %v, want CRITICAL", got["severity"])
	}
}

func TestGetAlertNotFound(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/alerts/7a0b3c52-5a3f-4a63-9d6f-0c8f5a3b1d2e")
	if err != nil {
		t.Fatalf("GET alert: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestNodeInsight(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	for i := 0; i < 10; i++ {
		ingestReading(t, srv, "passu-02", -4, 200+float64(i), 0.05)
	}

	resp, err := http.Get(srv.URL + "/api/v1/ml/insights/passu-02")
	if err != nil {
		t.Fatalf("GET insight: %v", err)
	}
	env := decodeEnvelope(t, resp)
	data := env.Data.(map[string]interface{})
	if data["nodeId"] != "passu-02" {
		t.Errorf("nodeId = %v, want passu-02", data["nodeId"])
	}
	if _, ok := data["risk"]; !ok {
		t.Errorf("insight missing risk assessment")
	}
}

func TestAnalyticsSummary(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	ingestReading(t, srv, "shisper-01", -3, 240, 0.05)
	ingestReading(t, srv, "shisper-01", -3, 241, 0.05)
	ingestReading(t, srv, "passu-02", -5, 180, 0.02)

	resp, err := http.Get(srv.URL + "/api/v1/analytics/summary")
	if err != nil {
		t.Fatalf("GET summary: %v", err)
	}
	env := decodeEnvelope(t, resp)
	data := env.Data.(map[string]interface{})
	if n := data["nodeCount"]; n != float64(2) {
		t.Errorf("nodeCount = %v, want 2", n)
	}
	if n := data["readingCount"]; n != float64(3) {
		t.Errorf("readingCount = %v, want 3", n)
	}
}

func TestUpdateThresholds(t *testing.T) {
	t.Parallel()
	srv, h := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/settings/thresholds",
		bytes.NewReader([]byte(`{"temperature":12,"seismic":0.7,"waterRisePercent":25,"waterRiseLookback":30}`)))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT thresholds: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	got := h.rules.Thresholds()
	if got.TemperatureC != 12 || got.Seismic != 0.7 {
		t.Errorf("thresholds not applied: %+v", got)
	}
}

func TestUpdateThresholdsRejectsInvalid(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/settings/thresholds",
		bytes.NewReader([]byte(`{"temperature":12,"seismic":0.7,"waterRisePercent":0,"waterRiseLookback":30}`)))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT thresholds: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSendTestEmailWithoutSMTP(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/settings/email/test", map[string]interface{}{
		"to": "operator@example.com",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 with no SMTP configured", resp.StatusCode)
	}
}

func TestLoginUnavailableInNoneMode(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/auth/login", map[string]interface{}{
		"username": "operator",
		"password": "hunza-valley-9",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestResetClearsState(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	ingestReading(t, srv, "shisper-01", -3, 240, 0.05)

	resp := postJSON(t, srv.URL+"/api/v1/sensor/reset", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/v1/sensor/nodes")
	if err != nil {
		t.Fatalf("GET nodes: %v", err)
	}
	env := decodeEnvelope(t, resp)
	if nodes, ok := env.Data.([]interface{}); ok && len(nodes) != 0 {
		t.Errorf("nodes after reset = %d, want 0", len(nodes))
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	env := decodeEnvelope(t, resp)
	data := env.Data.(map[string]interface{})
	if data["status"] != "ok" {
		t.Errorf("health status = %v, want ok", data["status"])
	}
}

func TestNotFoundUsesEnvelope(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	if env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Fatalf("error = %+v, want code %s", env.Error, ErrCodeNotFound)
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	defer resp.Body.Close()
	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := resp.Header.Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Errorf("missing X-Request-ID header")
	}
}

func TestPaginationBounds(t *testing.T) {
	t.Parallel()
	_, h := newTestServer(t)

	for _, tc := range []struct {
		requested, want int
	}{
		{0, 50},
		{-1, 50},
		{25, 25},
		{9999, 500},
	} {
		if got := h.pageSize(tc.requested); got != tc.want {
			t.Errorf("pageSize(%d) = %d, want %d", tc.requested, got, tc.want)
		}
	}
}

func TestListAlertsPagination(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	for i := 0; i < 5; i++ {
		ingestReading(t, srv, fmt.Sprintf("node-%d", i), -4, 240, 0.05)
	}

	resp, err := http.Get(srv.URL + "/api/v1/alerts?limit=2")
	if err != nil {
		t.Fatalf("GET alerts: %v", err)
	}
	env := decodeEnvelope(t, resp)
	if env.Status != "success" {
		t.Fatalf("envelope status = %q, want success", env.Status)
	}
}
