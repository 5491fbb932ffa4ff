// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

// Package websocket pushes live monitoring events to connected dashboards.
//
// A single Hub fans out messages to all connected clients. The ingestion
// pipeline publishes sensor_update and new_alert messages as readings
// arrive; ml_insight and system_reset messages follow analysis runs and
// demo resets. Delivery is best-effort: a client whose send buffer is
// full is dropped rather than allowed to stall the hub.
//
// The hub runs under supervision via RunWithContext and uses priority
// selection so shutdown and client lifecycle events are never starved
// by a busy broadcast channel.
package websocket
