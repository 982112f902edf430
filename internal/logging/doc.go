// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap logger used across faqchat.
//
// Logs are JSON lines written to a rotating file. The terminal belongs to
// the TUI while it runs, so console output is opt-in and meant for the
// one-shot commands only.
package logging
