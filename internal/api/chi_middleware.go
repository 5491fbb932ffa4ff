// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	json "github.com/goccy/go-json"

	"github.com/project-barfani/barfani/internal/config"
	"github.com/project-barfani/barfani/internal/logging"
	"github.com/project-barfani/barfani/internal/models"
)

// ChiMiddleware builds the router middleware stack from configuration.
type ChiMiddleware struct {
	cfg *config.Config
}

// NewChiMiddleware creates the middleware factory.
func NewChiMiddleware(cfg *config.Config) *ChiMiddleware {
	return &ChiMiddleware{cfg: cfg}
}

// CORS returns the CORS handler. With no configured origins it stays
// permissive for the bundled dashboard and local development.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	origins := m.cfg.Security.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// RateLimitLogin limits login attempts to 5 per 5 minutes per IP. This
// is the outer guard; the auth package keeps its own token bucket so
// that one address cannot burn the budget for a shared NAT.
func (m *ChiMiddleware) RateLimitLogin() func(http.Handler) http.Handler {
	if m.cfg.Security.RateLimitDisabled {
		return passthrough
	}
	return httprate.Limit(5, 5*time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimitExceeded),
	)
}

// RateLimitAPI limits general API traffic per IP using the configured
// request budget.
func (m *ChiMiddleware) RateLimitAPI() func(http.Handler) http.Handler {
	if m.cfg.Security.RateLimitDisabled {
		return passthrough
	}
	reqs := m.cfg.Security.RateLimitReqs
	window := m.cfg.Security.RateLimitWindow
	if reqs <= 0 {
		reqs = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(reqs, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimitExceeded),
	)
}

// RateLimitIngest limits sensor ingestion per IP. Field stations report
// at most every few seconds, so 600 per minute leaves headroom for a
// gateway relaying a whole valley.
func (m *ChiMiddleware) RateLimitIngest() func(http.Handler) http.Handler {
	if m.cfg.Security.RateLimitDisabled {
		return passthrough
	}
	return httprate.Limit(600, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimitExceeded),
	)
}

// RateLimitHealth limits health and metrics probes. Permissive so that
// aggressive orchestrator probing never trips it.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	if m.cfg.Security.RateLimitDisabled {
		return passthrough
	}
	return httprate.Limit(1000, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimitExceeded),
	)
}

// SecurityHeaders sets baseline security headers on every response.
// HSTS is only sent when the request arrived over TLS.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

func passthrough(next http.Handler) http.Handler {
	return next
}

func rateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	logging.Warn().
		Str("path", r.URL.Path).
		Str("remote_addr", r.RemoteAddr).
		Msg("rate limit exceeded")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    ErrCodeRateLimit,
			Message: "too many requests",
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}
