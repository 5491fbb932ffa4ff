// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

// Package middleware provides the cross-cutting HTTP middleware shared
// by every route: request IDs for log correlation, Prometheus request
// instrumentation, and gzip response compression.
package middleware
