// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller holds the state and operations of the FAQ chat screen,
// independent of how it is drawn.
//
// The controller is not safe for concurrent use. Every method is meant to
// be called from a single event loop. Network work is handed back to the
// caller as a job (Exchange, SourceLoad, UploadJob) whose Run method may
// execute on any goroutine; its result is fed back through the matching
// Apply method on the event loop.
//
// # Key Types
//
//   - Controller: transcript, input text, FAQ source, pending file, preview
//   - Exchange: one chat request and its Reply
//   - SourceLoad: a default-corpus fetch and its SamplesLoaded result
//   - UploadJob: one upload and its UploadResult
//   - Notice: a transient message for the toast area
//   - View: a read-only snapshot for rendering
//
// # Usage
//
//	ctrl := controller.New(client, loader)
//	if ex, ok := ctrl.Submit("How do I reset my password?"); ok {
//	    ctrl.ApplyReply(ex.Run(ctx))
//	}
package controller
