// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/faqchat/internal/model"
	"github.com/jeranaias/faqchat/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// ContentRenderer turns assistant text into terminal output.
type ContentRenderer interface {
	Render(content string, width int) string
}

// MessageBubble renders one transcript entry. Questions from the user sit
// on the right, bot answers on the left.
type MessageBubble struct {
	Message  model.Message
	Width    int
	renderer ContentRenderer
	theme    *styles.Theme
}

// NewMessageBubble creates a bubble. renderer may be nil, in which case
// answers are word-wrapped plain text.
func NewMessageBubble(msg model.Message, theme *styles.Theme, renderer ContentRenderer) *MessageBubble {
	return &MessageBubble{
		Message:  msg,
		Width:    80,
		renderer: renderer,
		theme:    theme,
	}
}

// SetWidth sets the available line width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the bubble.
func (b *MessageBubble) View() string {
	if b.Message.IsUser() {
		return b.renderUser()
	}
	return b.renderAssistant()
}

func (b *MessageBubble) maxContentWidth() int {
	w := b.theme.BubbleWidth()
	if b.Width > 0 && w > b.Width {
		w = b.Width
	}
	w -= 4 // border and padding
	if w < 10 {
		w = 10
	}
	return w
}

func (b *MessageBubble) renderUser() string {
	content := WordWrap(b.Message.Content, b.maxContentWidth())
	bubble := b.theme.UserBubble.Render(content)
	label := b.theme.RoleLabel.Render(model.RoleUser.DisplayName())

	block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
	return lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, block)
}

func (b *MessageBubble) renderAssistant() string {
	width := b.maxContentWidth()

	var content string
	if b.renderer != nil {
		content = strings.TrimSpace(b.renderer.Render(b.Message.Content, width))
	} else {
		content = WordWrap(b.Message.Content, width)
	}

	bubble := b.theme.AssistantBubble.Render(content)
	label := b.theme.RoleLabel.Render(model.RoleAssistant.DisplayName())

	block := lipgloss.JoinVertical(lipgloss.Left, label, bubble)
	return lipgloss.PlaceHorizontal(b.Width, lipgloss.Left, block)
}

// =============================================================================
// MESSAGE LIST
// =============================================================================

// RenderTranscript renders every message in order, separated by blank
// lines.
func RenderTranscript(msgs []model.Message, width int, theme *styles.Theme, renderer ContentRenderer) string {
	if len(msgs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		b := NewMessageBubble(msg, theme, renderer)
		b.SetWidth(width)
		parts = append(parts, b.View())
	}
	return strings.Join(parts, "\n\n")
}

// ==========================================================================
// UTILITY FUNCTIONS
// ==========================================================================

// WordWrap wraps text to fit within width display cells. Words wider than
// width are kept whole.
func WordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for lineIdx, line := range strings.Split(text, "\n") {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			if runewidth.StringWidth(current)+1+runewidth.StringWidth(word) <= width {
				current += " " + word
			} else {
				result.WriteString(current)
				result.WriteString("\n")
				current = word
			}
		}
		result.WriteString(current)
	}

	return result.String()
}

// Truncate shortens s to at most width display cells, adding "..." when cut.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
