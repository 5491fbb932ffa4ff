// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package api

import (
	"net/http"
	"time"

	"github.com/project-barfani/barfani/internal/auth"
	"github.com/project-barfani/barfani/internal/logging"
)

// Login godoc
// @Summary Authenticate and obtain a JWT
// @Description Validates operator credentials and issues a bearer token. Only available when auth_mode is jwt.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Operator credentials"
// @Success 200 {object} models.APIResponse{data=LoginResponse}
// @Failure 401 {object} models.APIResponse
// @Failure 429 {object} models.APIResponse
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.auth.Mode() != "jwt" {
		rw.NotFound("login is only available in jwt auth mode")
		return
	}

	ip := auth.ClientIP(r)
	if !h.auth.LoginLimiter().Allow(ip) {
		logging.Warn().Str("remote_ip", ip).Msg("login throttled")
		rw.Error(http.StatusTooManyRequests, ErrCodeRateLimit, "too many login attempts")
		return
	}

	var req LoginRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	creds := h.auth.BasicAuthManager()
	if creds == nil || !creds.CheckCredentials(req.Username, req.Password) {
		logging.Warn().Str("remote_ip", ip).Msg("login failed")
		rw.Unauthorized("invalid credentials")
		return
	}

	const role = "admin"
	token, err := h.auth.JWTManager().GenerateToken(req.Username, role)
	if err != nil {
		rw.InternalError(err)
		return
	}

	logging.Info().Str("username", req.Username).Msg("login succeeded")
	rw.Success(LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.cfg.Security.SessionTimeout).UTC(),
		Username:  req.Username,
		Role:      role,
	})
}
