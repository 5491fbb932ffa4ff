// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

// Package auth implements authentication for the monitoring API.
//
// Three modes are supported, selected by AUTH_MODE:
//
//   - jwt: stateless HS256 tokens issued by the login endpoint, carried
//     in a Bearer header or a "token" cookie
//   - basic: HTTP Basic Auth against a single configured operator
//     account, bcrypt-verified
//   - none: no authentication, for local development and demos only
//
// Login attempts are throttled per client IP with a token bucket so a
// field-deployed gateway on a public address cannot be brute-forced at
// line rate.
package auth
