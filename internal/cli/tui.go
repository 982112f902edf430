// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/faqchat/internal/ui/chat"
	"github.com/jeranaias/faqchat/internal/ui/styles"
)

// runTUI opens the full-screen chat.
func runTUI(cmd *cobra.Command, opts *globalOptions) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	reloads, err := a.watchDefaults(ctx)
	if err != nil {
		a.log.Warn("default FAQ watch disabled", zap.Error(err))
	}

	m := chat.New(a.controller(), chat.Options{
		Theme:    styles.ParseMode(a.cfg.UI.Theme),
		Markdown: a.cfg.UI.Markdown,
		Reloads:  reloads,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("chat screen failed: %w", err)
	}
	a.log.Info("chat screen closed")
	return nil
}
