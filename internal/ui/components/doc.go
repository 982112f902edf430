// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the rendering pieces of the faqchat TUI.

# Display Components

MessageBubble (message.go) - Question and answer bubbles. Questions are
right-aligned, answers left-aligned.
MarkdownRenderer (markdown.go) - glamour rendering of bot answers.
RenderSamplePanel, RenderCallToAction, RenderHeader (samples.go) - Sample
FAQ preview, empty-upload prompt and the title row with the source selector.

# Feedback

ToastManager (toast.go) - Auto-dismissing notices fed from controller
notices.

# Usage

	theme := styles.NewTheme(styles.ModeAuto)
	toasts := components.NewToastManager()
	toasts.AddNotices(notices)
	view := components.RenderToastStack(toasts.Toasts(), width, time.Now())
*/
package components
