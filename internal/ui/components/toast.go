// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/faqchat/internal/controller"
	"github.com/jeranaias/faqchat/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast (cyan color)
	ToastKindStatus ToastKind = iota
	// ToastKindError is an error toast (rose/red color)
	ToastKindError
	// ToastKindWarning is a warning toast (amber color)
	ToastKindWarning
	// ToastKindSuccess is a success toast (emerald color)
	ToastKindSuccess
)

// DefaultToastDuration applies when a notice carries no duration.
const DefaultToastDuration = 3 * time.Second

// Toast is one visible notification.
type Toast struct {
	ID          int
	Title       string
	Description string
	Kind        ToastKind
	CreatedAt   time.Time
	Duration    time.Duration
}

// ToastFromNotice converts a controller notice.
func ToastFromNotice(n controller.Notice) Toast {
	kind := ToastKindStatus
	switch n.Kind {
	case controller.NoticeSuccess:
		kind = ToastKindSuccess
	case controller.NoticeWarning:
		kind = ToastKindWarning
	case controller.NoticeError:
		kind = ToastKindError
	}

	d := n.Duration
	if d <= 0 {
		d = DefaultToastDuration
	}

	return Toast{
		Title:       n.Title,
		Description: n.Description,
		Kind:        kind,
		CreatedAt:   time.Now(),
		Duration:    d,
	}
}

// IsExpired returns true if the toast should be dismissed.
func (t *Toast) IsExpired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// TimeRemaining returns how much time is left before auto-dismiss.
func (t *Toast) TimeRemaining(now time.Time) time.Duration {
	remaining := t.Duration - now.Sub(t.CreatedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager keeps the visible toasts, newest first. It is owned by the
// Bubble Tea model and is not safe for concurrent use.
type ToastManager struct {
	toasts    []Toast
	nextID    int
	maxToasts int
}

// NewToastManager creates a new toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{
		nextID:    1,
		maxToasts: 5,
	}
}

// Add adds a toast and returns its ID.
func (m *ToastManager) Add(toast Toast) int {
	if toast.ID == 0 {
		toast.ID = m.nextID
		m.nextID++
	}
	if toast.CreatedAt.IsZero() {
		toast.CreatedAt = time.Now()
	}

	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	return toast.ID
}

// AddNotices adds one toast per notice.
func (m *ToastManager) AddNotices(notices []controller.Notice) {
	for _, n := range notices {
		m.Add(ToastFromNotice(n))
	}
}

// Remove removes a toast by ID.
func (m *ToastManager) Remove(id int) {
	for i, toast := range m.toasts {
		if toast.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// Tick drops expired toasts and returns the remaining ones.
func (m *ToastManager) Tick(now time.Time) []Toast {
	active := m.toasts[:0]
	for _, toast := range m.toasts {
		if !toast.IsExpired(now) {
			active = append(active, toast)
		}
	}
	m.toasts = active
	return m.Toasts()
}

// Toasts returns a copy of the current toasts.
func (m *ToastManager) Toasts() []Toast {
	result := make([]Toast, len(m.toasts))
	copy(result, m.toasts)
	return result
}

// HasToasts returns true if there are any active toasts.
func (m *ToastManager) HasToasts() bool {
	return len(m.toasts) > 0
}

// Clear removes all toasts.
func (m *ToastManager) Clear() {
	m.toasts = nil
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically to expire toasts.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd returns a command that ticks toasts every 100ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToast renders a single toast notification.
func RenderToast(toast Toast, width int, now time.Time) string {
	maxWidth := 60
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	var color lipgloss.AdaptiveColor
	var icon string
	switch toast.Kind {
	case ToastKindError:
		color, icon = styles.Rose, styles.StatusIndicators.Error
	case ToastKindWarning:
		color, icon = styles.Amber, styles.StatusIndicators.Warning
	case ToastKindSuccess:
		color, icon = styles.Emerald, styles.StatusIndicators.Success
	default:
		color, icon = styles.Cyan, styles.StatusIndicators.Info
	}

	titleStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	content := titleStyle.Render(icon + " " + toast.Title)

	if toast.Description != "" {
		descStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)
		content += "\n" + descStyle.Render(WordWrap(toast.Description, maxWidth-6))
	}

	if secs := int(toast.TimeRemaining(now).Round(time.Second).Seconds()); secs > 0 {
		hint := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
		content += "\n" + hint.Render(strconv.Itoa(secs)+"s")
	}

	box := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 2).
		MaxWidth(maxWidth)

	return box.Render(content)
}

// RenderToastStack renders toasts stacked vertically, right-aligned.
func RenderToastStack(toasts []Toast, width int, now time.Time) string {
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, toast := range toasts {
		rendered = append(rendered, RenderToast(toast, width, now))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)

	if width > 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
	}
	return strings.TrimRight(stack, "\n")
}
