// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the FAQ chat session.
//
// # Key Types
//
//   - Message: Single transcript entry with role, content and timestamp
//   - Transcript: Append-only, in-memory sequence of messages
//   - FaqSource: Which FAQ corpus is active (default or uploaded)
//   - FaqEntry: A question/answer pair parsed from CSV
//
// # Usage
//
//	t := model.NewTranscript()
//	q := model.NewUserMessage("What is X?")
//	t.Append(q)
//	t.Append(model.NewAssistantMessage("X is Y", q.ID))
package model
