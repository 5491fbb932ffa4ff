// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/project-barfani/barfani/internal/logging"
	"github.com/project-barfani/barfani/internal/metrics"
	"github.com/project-barfani/barfani/internal/models"
)

// Message types pushed to dashboard clients.
const (
	MessageTypeSensorUpdate = "sensor_update"
	MessageTypeNewAlert     = "new_alert"
	MessageTypeMLInsight    = "ml_insight"
	MessageTypeSystemReset  = "system_reset"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
)

// Message is the envelope for all WebSocket traffic.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext runs the hub until the context is canceled, then closes
// all connected clients and returns ctx.Err(). Designed for suture
// supervision so a restart never leaves orphaned connections.
//
// Selection is priority ordered: shutdown first, then client lifecycle
// events, then broadcasts. This keeps client state consistent before any
// message is fanned out.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Priority 1: shutdown (non-blocking check)
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		// Priority 2: client lifecycle events (non-blocking check)
		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		// Priority 3: broadcasts, or block until any event arrives
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnectedClients.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnectedClients.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

// broadcastToClients fans a message out to every connected client in
// client-ID order. A client whose send buffer is full is disconnected.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
			metrics.WSMessagesSent.WithLabelValues(message.Type).Inc()
		default:
			toRemove = append(toRemove, client)
			metrics.WSMessagesDropped.Inc()
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
	if len(toRemove) > 0 {
		metrics.WSConnectedClients.Set(float64(len(h.clients)))
		logging.Warn().Int("dropped_clients", len(toRemove)).Msg("disconnected slow websocket clients")
	}
}

// shutdown closes all connected clients and logs the stop. Context
// cancellation is expected during graceful shutdown and is not logged
// as an error.
func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	metrics.WSConnectedClients.Set(0)
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", reason).
		Int("clients_closed", len(clients)).
		Msg("websocket hub stopped")
}

// BroadcastJSON queues a message for all connected clients. Drops the
// message if the broadcast channel is full.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	message := Message{
		Type: messageType,
		Data: data,
	}

	select {
	case h.broadcast <- message:
	default:
		metrics.WSMessagesDropped.Inc()
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// SensorUpdateData is the payload of a sensor_update message.
type SensorUpdateData struct {
	Reading    models.SensorReading       `json:"reading"`
	Assessment models.ThresholdAssessment `json:"assessment"`
}

// BroadcastSensorUpdate pushes an accepted reading and its assessment.
func (h *Hub) BroadcastSensorUpdate(reading models.SensorReading, assessment models.ThresholdAssessment) {
	h.BroadcastJSON(MessageTypeSensorUpdate, SensorUpdateData{
		Reading:    reading,
		Assessment: assessment,
	})
}

// BroadcastNewAlert pushes a freshly raised alert.
func (h *Hub) BroadcastNewAlert(alert *models.Alert) {
	h.BroadcastJSON(MessageTypeNewAlert, alert)
}

// BroadcastInsight pushes an analysis result for a node.
func (h *Hub) BroadcastInsight(insight *models.MLInsight) {
	h.BroadcastJSON(MessageTypeMLInsight, insight)
}

// SystemResetData is the payload of a system_reset message.
type SystemResetData struct {
	Timestamp string `json:"timestamp"`
}

// BroadcastSystemReset tells clients all monitoring state was cleared.
func (h *Hub) BroadcastSystemReset() {
	h.BroadcastJSON(MessageTypeSystemReset, SystemResetData{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
