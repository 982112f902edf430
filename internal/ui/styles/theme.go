// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects how the background is determined.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// ParseMode maps a configuration value to a Mode, defaulting to auto.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDark:
		return ModeDark
	case ModeLight:
		return ModeLight
	default:
		return ModeAuto
	}
}

// Theme holds the styled components of the chat screen.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Header
	Title          lipgloss.Style
	SourceActive   lipgloss.Style
	SourceInactive lipgloss.Style

	// Transcript
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	RoleLabel       lipgloss.Style

	// Sample panel
	SamplePanel    lipgloss.Style
	SampleTitle    lipgloss.Style
	SampleQuestion lipgloss.Style
	SampleAnswer   lipgloss.Style
	CallToAction   lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputFocused   lipgloss.Style
	FileLabel      lipgloss.Style

	// Footer
	Help    lipgloss.Style
	Spinner lipgloss.Style
}

// NewTheme creates a theme for the given mode.
func NewTheme(mode Mode) *Theme {
	profile := termenv.ColorProfile()

	isDark := termenv.HasDarkBackground()
	switch mode {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	}
	if mode != ModeAuto {
		lipgloss.SetHasDarkBackground(isDark)
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.SourceActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 1)

	t.SourceInactive = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)

	t.RoleLabel = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.SamplePanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SampleTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.SampleQuestion = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.SampleAnswer = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.CallToAction = lipgloss.NewStyle().
		Foreground(Amber).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(0, 1)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputFocused = t.InputContainer.
		BorderForeground(Cyan)

	t.FileLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Help = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// BubbleWidth returns the maximum width of a message bubble.
func (t *Theme) BubbleWidth() int {
	if t.Width <= 0 {
		return 60
	}
	w := t.Width * 3 / 4
	if w < 20 {
		w = t.Width
	}
	return w
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
