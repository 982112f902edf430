// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/jeranaias/faqchat/internal/controller"

// =============================================================================
// NETWORK RESULT MESSAGES
// =============================================================================

// ReplyMsg carries a finished chat exchange.
type ReplyMsg struct {
	Reply controller.Reply
}

// SamplesMsg carries a finished default-corpus load.
type SamplesMsg struct {
	Result controller.SamplesLoaded
}

// UploadMsg carries a finished upload.
type UploadMsg struct {
	Result controller.UploadResult
}

// =============================================================================
// FILE WATCH MESSAGES
// =============================================================================

// DefaultsChangedMsg signals that the default FAQ file changed.
type DefaultsChangedMsg struct{}

// reloadsClosedMsg signals that the change feed ended.
type reloadsClosedMsg struct{}
