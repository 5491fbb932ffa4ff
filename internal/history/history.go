// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

// Package history maintains the bounded in-memory reading window for each
// monitoring node.
//
// Every node keeps its most recent readings in a fixed-capacity ring buffer
// (default 100). When the buffer is full the oldest reading is evicted.
// Readings are held in arrival order, not device-timestamp order: field
// clocks drift and gateways batch uploads, so arrival position is the only
// ordering the analysis engines can trust.
//
// The store is the working set for threshold evaluation and statistical
// analysis; long-term retention is the archive's job.
package history

import (
	"sort"
	"sync"
	"time"

	"github.com/project-barfani/barfani/internal/models"
)

// DefaultCapacity is the per-node reading window size.
const DefaultCapacity = 100

// MaxNodes bounds the node map itself. Node identifiers arrive from the
// network, so a flood of fabricated IDs must not grow memory without
// limit. When the bound is hit the least-recently-seen node's window is
// evicted.
const MaxNodes = 1000

type nodeWindow struct {
	buf      []models.SensorReading
	start    int
	count    int
	lastSeen time.Time
}

func (w *nodeWindow) append(r models.SensorReading, capacity int) {
	if len(w.buf) < capacity {
		w.buf = append(w.buf, r)
		w.count++
		return
	}
	// Full: overwrite the oldest slot and advance.
	w.buf[w.start] = r
	w.start = (w.start + 1) % capacity
}

func (w *nodeWindow) snapshot() []models.SensorReading {
	out := make([]models.SensorReading, 0, w.count)
	for i := 0; i < w.count; i++ {
		out = append(out, w.buf[(w.start+i)%len(w.buf)])
	}
	return out
}

// Store holds bounded per-node reading windows. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	capacity int
	nodes    map[string]*nodeWindow
	total    int64
}

// NewStore creates a store with the given per-node capacity.
// Capacities below 1 fall back to DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		nodes:    make(map[string]*nodeWindow),
	}
}

// Capacity returns the per-node window size.
func (s *Store) Capacity() int {
	return s.capacity
}

// Append records a reading for its node, evicting the oldest reading if
// the node's window is full. Returns the node's reading count after the
// append (capped at capacity).
func (s *Store) Append(r models.SensorReading) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.nodes[r.NodeID]
	if !ok {
		if len(s.nodes) >= MaxNodes {
			s.evictStalest()
		}
		w = &nodeWindow{buf: make([]models.SensorReading, 0, s.capacity)}
		s.nodes[r.NodeID] = w
	}
	w.append(r, s.capacity)
	w.lastSeen = time.Now().UTC()
	s.total++
	return w.count
}

// evictStalest drops the node with the oldest lastSeen. Caller holds
// the write lock.
func (s *Store) evictStalest() {
	var stalest string
	var stalestSeen time.Time
	first := true
	for id, w := range s.nodes {
		if first || w.lastSeen.Before(stalestSeen) {
			stalest = id
			stalestSeen = w.lastSeen
			first = false
		}
	}
	if stalest != "" {
		delete(s.nodes, stalest)
	}
}

// Snapshot returns the node's readings oldest to newest. The slice is a
// copy; callers may mutate it freely. Unknown nodes yield an empty slice.
func (s *Store) Snapshot(nodeID string) []models.SensorReading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.nodes[nodeID]
	if !ok {
		return []models.SensorReading{}
	}
	return w.snapshot()
}

// Tail returns up to n of the node's most recent readings, oldest to
// newest. n < 1 yields an empty slice.
func (s *Store) Tail(nodeID string, n int) []models.SensorReading {
	if n < 1 {
		return []models.SensorReading{}
	}
	all := s.Snapshot(nodeID)
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// Latest returns the node's most recent reading.
func (s *Store) Latest(nodeID string) (models.SensorReading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.nodes[nodeID]
	if !ok || w.count == 0 {
		return models.SensorReading{}, false
	}
	idx := (w.start + w.count - 1) % len(w.buf)
	return w.buf[idx], true
}

// Len returns how many readings the node currently holds.
func (s *Store) Len(nodeID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if w, ok := s.nodes[nodeID]; ok {
		return w.count
	}
	return 0
}

// NodeIDs returns the known node IDs in lexical order.
func (s *Store) NodeIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Statuses summarizes every known node in lexical order.
func (s *Store) Statuses() []models.NodeStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]models.NodeStatus, 0, len(ids))
	for _, id := range ids {
		w := s.nodes[id]
		status := models.NodeStatus{
			NodeID:       id,
			ReadingCount: w.count,
			LastSeen:     w.lastSeen,
		}
		if w.count > 0 {
			last := w.buf[(w.start+w.count-1)%len(w.buf)]
			status.LastReading = &last
		}
		out = append(out, status)
	}
	return out
}

// TotalReadings returns the number of readings accepted since startup or
// the last reset, including readings already evicted from windows.
func (s *Store) TotalReadings() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Reset drops all nodes and their windows.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = make(map[string]*nodeWindow)
	s.total = 0
}
