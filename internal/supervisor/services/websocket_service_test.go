// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/project-barfani/barfani/internal/websocket"
)

type mockHub struct {
	err     error
	started chan struct{}
}

func (m *mockHub) RunWithContext(ctx context.Context) error {
	close(m.started)
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestWebSocketHubServiceImplementsSutureService(t *testing.T) {
	t.Parallel()
	var _ suture.Service = NewWebSocketHubService(&mockHub{})
}

func TestWebSocketHubServiceAcceptsRealHub(t *testing.T) {
	t.Parallel()
	var _ ContextHub = websocket.NewHub()
}

func TestWebSocketHubServiceDelegates(t *testing.T) {
	t.Parallel()

	hub := &mockHub{started: make(chan struct{})}
	svc := NewWebSocketHubService(hub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	select {
	case <-hub.started:
	case <-time.After(2 * time.Second):
		t.Fatal("hub never started")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestWebSocketHubServicePropagatesFailure(t *testing.T) {
	t.Parallel()

	hub := &mockHub{started: make(chan struct{}), err: errors.New("hub crashed")}
	svc := NewWebSocketHubService(hub)

	if err := svc.Serve(context.Background()); !errors.Is(err, hub.err) {
		t.Errorf("Serve returned %v, want hub error", err)
	}
}

func TestWebSocketHubServiceString(t *testing.T) {
	t.Parallel()
	if got := NewWebSocketHubService(&mockHub{}).String(); got != "websocket-hub" {
		t.Errorf("String() = %q, want websocket-hub", got)
	}
}
