// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package api

import (
	"sync"
	"time"

	"github.com/project-barfani/barfani/internal/alerting"
	"github.com/project-barfani/barfani/internal/auth"
	"github.com/project-barfani/barfani/internal/config"
	"github.com/project-barfani/barfani/internal/database"
	"github.com/project-barfani/barfani/internal/history"
	"github.com/project-barfani/barfani/internal/insight"
	"github.com/project-barfani/barfani/internal/models"
	"github.com/project-barfani/barfani/internal/pipeline"
	"github.com/project-barfani/barfani/internal/rules"
	"github.com/project-barfani/barfani/internal/websocket"
)

// Pagination bounds applied when the config leaves them zero.
const (
	fallbackDefaultPageSize = 50
	fallbackMaxPageSize     = 500
)

// Handler holds the API dependencies and implements all HTTP endpoints.
type Handler struct {
	cfg        *config.Config
	pipeline   *pipeline.Pipeline
	history    *history.Store
	rules      *rules.Engine
	insights   *insight.Service
	db         *database.DB
	dispatcher *alerting.Dispatcher
	ledger     *alerting.Ledger
	hub        *websocket.Hub
	auth       *auth.Middleware

	nodeCache nodeStatusCache
}

// NewHandler creates the API handler. The hub may be nil when the
// WebSocket endpoint is disabled.
func NewHandler(
	cfg *config.Config,
	pipe *pipeline.Pipeline,
	hist *history.Store,
	engine *rules.Engine,
	insights *insight.Service,
	db *database.DB,
	dispatcher *alerting.Dispatcher,
	ledger *alerting.Ledger,
	hub *websocket.Hub,
	authMW *auth.Middleware,
) *Handler {
	ttl := cfg.API.NodeCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Handler{
		cfg:        cfg,
		pipeline:   pipe,
		history:    hist,
		rules:      engine,
		insights:   insights,
		db:         db,
		dispatcher: dispatcher,
		ledger:     ledger,
		hub:        hub,
		auth:       authMW,
		nodeCache:  nodeStatusCache{ttl: ttl},
	}
}

// pageSize resolves the limit query parameter against configured bounds.
func (h *Handler) pageSize(requested int) int {
	def := h.cfg.API.DefaultPageSize
	if def <= 0 {
		def = fallbackDefaultPageSize
	}
	max := h.cfg.API.MaxPageSize
	if max <= 0 {
		max = fallbackMaxPageSize
	}
	if requested <= 0 {
		return def
	}
	if requested > max {
		return max
	}
	return requested
}

// nodeStatusCache memoizes the node list for a short TTL. The list is
// rebuilt from the history store on miss and invalidated on ingest, so
// dashboard polling never observes a node more than one TTL stale.
type nodeStatusCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	statuses []models.NodeStatus
	expires  time.Time
}

func (c *nodeStatusCache) get() ([]models.NodeStatus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statuses == nil || time.Now().After(c.expires) {
		return nil, false
	}
	return c.statuses, true
}

func (c *nodeStatusCache) set(statuses []models.NodeStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses = statuses
	c.expires = time.Now().Add(c.ttl)
}

func (c *nodeStatusCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses = nil
}
