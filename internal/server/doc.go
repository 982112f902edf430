// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server hosts the static default FAQ resource.
//
// Endpoints:
//   - GET /default_faqs.csv - the default FAQ corpus (local file or embedded copy)
//   - GET /health           - health check
//
// A browser or TUI client pointed at this host with an asset base URL
// fetches its default preview from here.
package server
