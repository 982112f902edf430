// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the FAQ chatbot backend.
//
// Two endpoints are used:
//   - Chat: POST JSON {"user_input", "faq_source"}, answers {"response"}
//   - Upload: POST multipart form with a single "file" field, 200 on success
//
// Requests are never retried; callers decide what a failure means to the
// user.
package api
