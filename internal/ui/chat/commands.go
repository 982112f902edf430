// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/faqchat/internal/controller"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// ExchangeCmd runs a chat exchange off the event loop.
func ExchangeCmd(ex *controller.Exchange) tea.Cmd {
	if ex == nil {
		return nil
	}
	return func() tea.Msg {
		return ReplyMsg{Reply: ex.Run(context.Background())}
	}
}

// LoadCmd runs a default-corpus load off the event loop.
func LoadCmd(load *controller.SourceLoad) tea.Cmd {
	if load == nil {
		return nil
	}
	return func() tea.Msg {
		return SamplesMsg{Result: load.Run(context.Background())}
	}
}

// UploadCmd runs an upload off the event loop.
func UploadCmd(job *controller.UploadJob) tea.Cmd {
	if job == nil {
		return nil
	}
	return func() tea.Msg {
		return UploadMsg{Result: job.Run(context.Background())}
	}
}

// waitForReload blocks until the default FAQ file changes.
func waitForReload(reloads <-chan struct{}) tea.Cmd {
	if reloads == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-reloads; !ok {
			return reloadsClosedMsg{}
		}
		return DefaultsChangedMsg{}
	}
}
