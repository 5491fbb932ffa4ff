// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/project-barfani/barfani/internal/models"
)

// startHub runs the hub under a cancelable context and returns a stop
// function that blocks until the run loop has exited.
func startHub(t *testing.T) (*Hub, func()) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	return hub, func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("hub did not stop after context cancel")
		}
	}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.GetClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", hub.GetClientCount(), want)
}

func recvMessage(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed while waiting for message")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestRegisterUnregister(t *testing.T) {
	t.Parallel()
	hub, stop := startHub(t)
	defer stop()

	client := NewClient(hub, nil)
	hub.Register <- client
	waitForClients(t, hub, 1)

	hub.Unregister <- client
	waitForClients(t, hub, 0)

	if _, ok := <-client.send; ok {
		t.Error("send channel still open after unregister")
	}
}

func TestBroadcastSensorUpdate(t *testing.T) {
	t.Parallel()
	hub, stop := startHub(t)
	defer stop()

	client := NewClient(hub, nil)
	hub.Register <- client
	waitForClients(t, hub, 1)

	reading := models.SensorReading{NodeID: "hunza-01", TemperatureC: 12.5}
	assessment := models.ThresholdAssessment{Score: 30, Severity: models.SeverityMedium}
	hub.BroadcastSensorUpdate(reading, assessment)

	msg := recvMessage(t, client)
	if msg.Type != MessageTypeSensorUpdate {
		t.Fatalf("message type = %q, want %q", msg.Type, MessageTypeSensorUpdate)
	}
	data, ok := msg.Data.(SensorUpdateData)
	if !ok {
		t.Fatalf("message data has type %T, want SensorUpdateData", msg.Data)
	}
	if data.Reading.NodeID != "hunza-01" {
		t.Errorf("reading node = %q, want hunza-01", data.Reading.NodeID)
	}
	if data.Assessment.Severity != models.SeverityMedium {
		t.Errorf("assessment severity = %q, want MEDIUM", data.Assessment.Severity)
	}
}

func TestBroadcastNewAlert(t *testing.T) {
	t.Parallel()
	hub, stop := startHub(t)
	defer stop()

	client := NewClient(hub, nil)
	hub.Register <- client
	waitForClients(t, hub, 1)

	alert := &models.Alert{ID: uuid.New(), NodeID: "passu-02", Severity: models.SeverityCritical}
	hub.BroadcastNewAlert(alert)

	msg := recvMessage(t, client)
	if msg.Type != MessageTypeNewAlert {
		t.Fatalf("message type = %q, want %q", msg.Type, MessageTypeNewAlert)
	}
	got, ok := msg.Data.(*models.Alert)
	if !ok {
		t.Fatalf("message data has type %T, want *models.Alert", msg.Data)
	}
	if got.ID != alert.ID {
		t.Errorf("alert id = %s, want %s", got.ID, alert.ID)
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	t.Parallel()
	hub, stop := startHub(t)
	defer stop()

	clients := make([]*Client, 3)
	for i := range clients {
		clients[i] = NewClient(hub, nil)
		hub.Register <- clients[i]
	}
	waitForClients(t, hub, 3)

	hub.BroadcastSystemReset()

	for i, c := range clients {
		msg := recvMessage(t, c)
		if msg.Type != MessageTypeSystemReset {
			t.Errorf("client %d: message type = %q, want %q", i, msg.Type, MessageTypeSystemReset)
		}
	}
}

func TestSlowClientDisconnected(t *testing.T) {
	t.Parallel()
	hub, stop := startHub(t)
	defer stop()

	slow := NewClient(hub, nil)
	slow.send = make(chan Message) // unbuffered, nobody reading
	healthy := NewClient(hub, nil)
	hub.Register <- slow
	hub.Register <- healthy
	waitForClients(t, hub, 2)

	hub.BroadcastSystemReset()

	msg := recvMessage(t, healthy)
	if msg.Type != MessageTypeSystemReset {
		t.Errorf("healthy client got %q, want %q", msg.Type, MessageTypeSystemReset)
	}
	waitForClients(t, hub, 1)
}

func TestShutdownClosesClients(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	client := NewClient(hub, nil)
	hub.Register <- client
	waitForClients(t, hub, 1)

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop after cancel")
	}

	if _, ok := <-client.send; ok {
		t.Error("send channel still open after shutdown")
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("client count after shutdown = %d, want 0", hub.GetClientCount())
	}
}
