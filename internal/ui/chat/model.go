// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/faqchat/internal/controller"
	"github.com/jeranaias/faqchat/internal/model"
	"github.com/jeranaias/faqchat/internal/ui/components"
	"github.com/jeranaias/faqchat/internal/ui/styles"
)

// Placeholder text of the inputs.
const (
	QuestionPlaceholder = "Type your question..."
	FilePlaceholder     = "Path to a .csv file"
)

// focusArea is the input receiving keystrokes.
type focusArea int

const (
	focusQuestion focusArea = iota
	focusFile
)

// Options configures the chat screen.
type Options struct {
	// Theme is the background mode.
	Theme styles.Mode
	// Markdown renders bot answers with glamour.
	Markdown bool
	// Reloads delivers a value whenever the default FAQ file changes.
	Reloads <-chan struct{}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model of the chat screen.
type Model struct {
	ctrl     *controller.Controller
	theme    *styles.Theme
	keys     KeyMap
	renderer components.ContentRenderer
	toasts   *components.ToastManager
	reloads  <-chan struct{}

	question textinput.Model
	file     textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	focus    focusArea

	width  int
	height int
	ready  bool
}

// New creates the chat screen for ctrl.
func New(ctrl *controller.Controller, opts Options) Model {
	theme := styles.NewTheme(opts.Theme)

	question := textinput.New()
	question.Placeholder = QuestionPlaceholder
	question.Prompt = "> "
	question.Focus()

	file := textinput.New()
	file.Placeholder = FilePlaceholder
	file.Prompt = "📂 "

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = theme.Spinner

	m := Model{
		ctrl:     ctrl,
		theme:    theme,
		keys:     DefaultKeyMap(),
		toasts:   components.NewToastManager(),
		reloads:  opts.Reloads,
		question: question,
		file:     file,
		viewport: viewport.New(80, 10),
		spinner:  sp,
	}
	if opts.Markdown {
		style := "light"
		if theme.IsDark {
			style = "dark"
		}
		m.renderer = components.NewMarkdownRenderer(style)
	}
	return m
}

// Init loads the default preview and starts the timers.
func (m Model) Init() tea.Cmd {
	var load *controller.SourceLoad
	if m.ctrl.Source() == model.SourceDefault {
		load = m.ctrl.SelectSource(model.SourceDefault)
	}

	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		components.ToastTickCmd(),
		LoadCmd(load),
		waitForReload(m.reloads),
	)
}

// Controller returns the underlying controller.
func (m Model) Controller() *controller.Controller {
	return m.ctrl
}

// Toasts returns the visible toasts.
func (m Model) Toasts() []components.Toast {
	return m.toasts.Toasts()
}
