// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/faqchat/internal/model"
	"github.com/jeranaias/faqchat/internal/ui/styles"
)

// Header text.
const (
	AppTitle     = "💬 FAQ Chatbot"
	SamplesTitle = "🧾 Sample FAQs:"
)

// =============================================================================
// SAMPLE PANEL
// =============================================================================

// RenderSamplePanel lists the preview entries in the given order. It
// renders nothing for an empty preview.
func RenderSamplePanel(entries []model.FaqEntry, width int, theme *styles.Theme) string {
	if len(entries) == 0 {
		return ""
	}

	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	lines := []string{theme.SampleTitle.Render(SamplesTitle)}
	for _, e := range entries {
		q := theme.SampleQuestion.Render("Q: " + Truncate(e.Question, inner-3))
		a := theme.SampleAnswer.Render("A: " + Truncate(e.Answer, inner-3))
		lines = append(lines, q, a)
	}

	return theme.SamplePanel.Width(inner).Render(strings.Join(lines, "\n"))
}

// RenderCallToAction renders the prompt shown when the uploaded source has
// no preview yet.
func RenderCallToAction(text string, width int, theme *styles.Theme) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	return theme.CallToAction.Width(inner).Render(WordWrap(text, inner-2))
}

// =============================================================================
// SOURCE SELECTOR
// =============================================================================

// RenderSourceSelector shows both FAQ sources with the active one
// highlighted.
func RenderSourceSelector(active model.FaqSource, theme *styles.Theme) string {
	render := func(src model.FaqSource) string {
		if src == active {
			return theme.SourceActive.Render(src.Label())
		}
		return theme.SourceInactive.Render(src.Label())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		render(model.SourceDefault),
		render(model.SourceUploaded),
	)
}

// RenderHeader renders the title row with the source selector on the right.
func RenderHeader(active model.FaqSource, width int, theme *styles.Theme) string {
	title := theme.Title.Render(AppTitle)
	selector := RenderSourceSelector(active, theme)

	gap := width - lipgloss.Width(title) - lipgloss.Width(selector)
	if gap < 1 {
		return lipgloss.JoinVertical(lipgloss.Left, title, selector)
	}
	return title + strings.Repeat(" ", gap) + selector
}
