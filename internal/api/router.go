// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/project-barfani/barfani/internal/middleware"
)

// NewRouter assembles the full route tree with the middleware stack.
func NewRouter(h *Handler) chi.Router {
	mw := NewChiMiddleware(h.cfg)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(SecurityHeaders())
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

	// Unauthenticated probes and scrape endpoints.
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitHealth())
		r.Get("/api/v1/health", h.Health)
		r.Get("/api/v1/health/live", h.Liveness)
		r.Get("/api/v1/health/ready", h.Readiness)
		r.Handle("/metrics", promhttp.Handler())
	})

	// Login stays outside the auth wall and under the strictest limiter.
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitLogin())
		r.Post("/api/v1/auth/login", h.Login)
	})

	// Ingestion has its own budget sized for gateway relays.
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitIngest())
		r.Use(h.auth.Authenticate)
		r.Post("/api/v1/sensor/data", h.IngestSensorData)
	})

	// Authenticated API.
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitAPI())
		r.Use(h.auth.Authenticate)

		r.Route("/api/v1/sensor", func(r chi.Router) {
			r.Get("/nodes", h.ListNodes)
			r.Get("/node/{nodeID}", h.NodeReadings)
			r.Get("/node/{nodeID}/assessment", h.NodeAssessment)
			r.Post("/reset", h.ResetSystem)
		})

		r.Route("/api/v1/alerts", func(r chi.Router) {
			r.Get("/", h.ListAlerts)
			r.Get("/active", h.ActiveAlerts)
			r.Get("/deliveries/{alertID}", h.AlertDeliveries)
			r.Get("/{alertID}", h.GetAlert)
		})

		r.Route("/api/v1/ml", func(r chi.Router) {
			r.Get("/insights", h.AllInsights)
			r.Get("/insights/{nodeID}", h.NodeInsight)
			r.Get("/summary", h.InsightSummary)
		})

		r.Get("/api/v1/analytics/summary", h.AnalyticsSummary)

		r.Route("/api/v1/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/thresholds", h.UpdateThresholds)
			r.Put("/email", h.UpdateEmailSettings)
			r.Post("/email/test", h.SendTestEmail)
		})
	})

	// Live updates. Auth happens at upgrade time like any other request.
	r.Group(func(r chi.Router) {
		r.Use(h.auth.Authenticate)
		r.Get("/api/v1/ws", h.ServeWebSocket)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("route not found")
	})

	return r
}
