// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/project-barfani/barfani/internal/config"
	"github.com/project-barfani/barfani/internal/logging"
	"github.com/project-barfani/barfani/internal/metrics"
)

type contextKey string

// ClaimsContextKey is the request context key holding the caller's Claims.
const ClaimsContextKey contextKey = "claims"

// Middleware enforces authentication on protected routes.
type Middleware struct {
	jwtManager       *JWTManager
	basicAuthManager *BasicAuthManager
	authMode         string
	loginLimiter     *LoginLimiter
}

// NewMiddleware creates the authentication middleware for the
// configured mode. The managers it does not need for that mode may be
// nil.
func NewMiddleware(cfg *config.SecurityConfig, jwtManager *JWTManager, basicAuthManager *BasicAuthManager) *Middleware {
	return &Middleware{
		jwtManager:       jwtManager,
		basicAuthManager: basicAuthManager,
		authMode:         cfg.AuthMode,
		loginLimiter:     NewLoginLimiter(),
	}
}

// Mode returns the active authentication mode.
func (m *Middleware) Mode() string {
	return m.authMode
}

// LoginLimiter returns the shared per-IP login throttle.
func (m *Middleware) LoginLimiter() *LoginLimiter {
	return m.loginLimiter
}

// JWTManager returns the token manager, nil unless mode is jwt.
func (m *Middleware) JWTManager() *JWTManager {
	return m.jwtManager
}

// BasicAuthManager returns the basic auth manager, nil unless mode is basic.
func (m *Middleware) BasicAuthManager() *BasicAuthManager {
	return m.basicAuthManager
}

// Authenticate wraps a handler, rejecting unauthenticated requests
// according to the configured mode.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.authMode == "none" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")

		if m.authMode == "basic" {
			m.handleBasicAuth(w, r, next, authHeader)
			return
		}

		m.handleJWTAuth(w, r, next, authHeader)
	})
}

func (m *Middleware) handleBasicAuth(w http.ResponseWriter, r *http.Request, next http.Handler, authHeader string) {
	if authHeader == "" {
		m.sendBasicAuthChallenge(w, "Unauthorized: authentication required")
		return
	}

	username, err := m.basicAuthManager.ValidateCredentials(authHeader)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		logging.Ctx(r.Context()).Warn().Err(err).Msg("basic auth validation failed")
		m.sendBasicAuthChallenge(w, "Unauthorized: invalid credentials")
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	claims := &Claims{Username: username, Role: "admin"}
	ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
	next.ServeHTTP(w, r.WithContext(ctx))
}

func (m *Middleware) sendBasicAuthChallenge(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", m.basicAuthManager.GetWWWAuthenticateHeader())
	http.Error(w, message, http.StatusUnauthorized)
}

func (m *Middleware) handleJWTAuth(w http.ResponseWriter, r *http.Request, next http.Handler, authHeader string) {
	token, err := extractJWTToken(r, authHeader)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		logging.Ctx(r.Context()).Warn().Err(err).Msg("token validation failed")
		http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
		return
	}

	ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// extractJWTToken pulls the token from the Authorization header or,
// failing that, the "token" cookie set by the dashboard login flow.
func extractJWTToken(r *http.Request, authHeader string) (string, error) {
	if authHeader == "" {
		cookie, err := r.Cookie("token")
		if err != nil {
			return "", fmt.Errorf("unauthorized: missing token")
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("unauthorized: invalid authorization header")
	}

	return parts[1], nil
}

// ClaimsFromContext returns the authenticated caller's claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

// LoginLimiter throttles login attempts per client IP. Separate from
// the general API rate limit so a misbehaving sensor cannot lock out
// operators, and vice versa.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*loginLimiterEntry
}

type loginLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

const (
	// 5 attempts burst, refilling one attempt every 12 seconds.
	loginRate  = rate.Limit(1.0 / 12.0)
	loginBurst = 5

	loginEntryTTL = time.Hour
)

// NewLoginLimiter creates an empty login throttle.
func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{
		limiters: make(map[string]*loginLimiterEntry),
	}
}

// Allow reports whether another login attempt from this IP is permitted.
func (l *LoginLimiter) Allow(ip string) bool {
	l.mu.Lock()
	entry, ok := l.limiters[ip]
	if !ok {
		entry = &loginLimiterEntry{limiter: rate.NewLimiter(loginRate, loginBurst)}
		l.limiters[ip] = entry
		l.evictStaleLocked()
	}
	entry.lastAccess = time.Now()
	limiter := entry.limiter
	l.mu.Unlock()

	return limiter.Allow()
}

// evictStaleLocked drops entries idle past the TTL. Called with the
// lock held, piggybacked on new-IP inserts to avoid a cleanup goroutine.
func (l *LoginLimiter) evictStaleLocked() {
	threshold := time.Now().Add(-loginEntryTTL)
	for ip, entry := range l.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(l.limiters, ip)
		}
	}
}

// ClientIP extracts the client address for throttling purposes.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
