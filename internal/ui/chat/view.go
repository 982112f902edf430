// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/faqchat/internal/controller"
	"github.com/jeranaias/faqchat/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the screen.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	v := m.ctrl.View()
	sections := []string{components.RenderHeader(v.Source, m.width, m.theme)}

	if panel := m.renderPanel(v); panel != "" {
		sections = append(sections, panel)
	}
	sections = append(sections, m.viewport.View())

	if toasts := components.RenderToastStack(m.toasts.Toasts(), m.width, time.Now()); toasts != "" {
		sections = append(sections, toasts)
	}

	sections = append(sections,
		m.renderStatus(v),
		m.renderInput(),
		m.theme.Help.Render(components.Truncate(m.keys.HelpLine(), m.width)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderPanel renders the sample list or the upload prompt.
func (m Model) renderPanel(v controller.View) string {
	if v.ShowUploadPrompt {
		return components.RenderCallToAction(controller.UploadPrompt, m.width, m.theme)
	}
	return components.RenderSamplePanel(v.Samples, m.width, m.theme)
}

// renderStatus renders the pending file and request activity.
func (m Model) renderStatus(v controller.View) string {
	var parts []string
	if m.ctrl.Busy() {
		parts = append(parts, fmt.Sprintf("%s waiting for the server (%d)", m.spinner.View(), v.InFlight))
	}
	if v.PendingName != "" {
		parts = append(parts, m.theme.FileLabel.Render(fmt.Sprintf("Selected: %s (C-u to upload)", v.PendingName)))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderInput() string {
	if m.focus == focusFile {
		return m.theme.InputFocused.Width(max(m.width-2, 10)).Render(m.file.View())
	}
	return m.theme.InputContainer.Width(max(m.width-2, 10)).Render(m.question.View())
}

// chromeHeight measures everything except the transcript viewport.
func (m Model) chromeHeight(v controller.View) int {
	h := lipgloss.Height(components.RenderHeader(v.Source, m.width, m.theme))
	if panel := m.renderPanel(v); panel != "" {
		h += lipgloss.Height(panel)
	}
	if toasts := components.RenderToastStack(m.toasts.Toasts(), m.width, time.Now()); toasts != "" {
		h += lipgloss.Height(toasts)
	}
	h += 1 // status
	h += lipgloss.Height(m.renderInput())
	h += 1 // help
	return h
}
