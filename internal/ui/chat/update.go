// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/faqchat/internal/faq"
	"github.com/jeranaias/faqchat/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.question.Width = msg.Width - 8
		m.file.Width = msg.Width - 8
		m.ready = true
		m.refresh(true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReplyMsg:
		m.ctrl.ApplyReply(msg.Reply)
		m.refresh(true)
		return m, nil

	case SamplesMsg:
		m.toasts.AddNotices(m.ctrl.ApplySamples(msg.Result))
		m.refresh(false)
		return m, nil

	case UploadMsg:
		m.toasts.AddNotices(m.ctrl.ApplyUpload(msg.Result))
		m.refresh(false)
		return m, nil

	case DefaultsChangedMsg:
		return m, tea.Batch(LoadCmd(m.ctrl.Reload()), waitForReload(m.reloads))

	case reloadsClosedMsg:
		m.reloads = nil
		return m, nil

	case components.ToastTickMsg:
		before := len(m.toasts.Toasts())
		if len(m.toasts.Tick(msg.Time)) != before {
			m.refresh(false)
		}
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateInputs(msg)
}

// handleKey routes a key press.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		if m.focus == focusFile {
			m.focusQuestion()
			m.refresh(false)
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		if m.focus == focusFile {
			m.ctrl.SelectFile(faq.NewPendingFile(m.file.Value()))
			m.focusQuestion()
			m.refresh(false)
			return m, nil
		}
		return m.submit()

	case key.Matches(msg, m.keys.ToggleSource):
		load := m.ctrl.SelectSource(m.ctrl.Source().Toggle())
		m.refresh(false)
		return m, LoadCmd(load)

	case key.Matches(msg, m.keys.PickFile):
		m.focus = focusFile
		m.question.Blur()
		m.file.SetValue(m.ctrl.PendingFile().Path)
		m.file.CursorEnd()
		m.file.Focus()
		m.refresh(false)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Upload):
		job, notices := m.ctrl.Upload()
		m.toasts.AddNotices(notices)
		m.refresh(false)
		return m, UploadCmd(job)

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	return m.updateInputs(msg)
}

// submit sends the question typed so far.
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.ctrl.SetInput(m.question.Value())
	ex, ok := m.ctrl.SubmitInput()
	if !ok {
		return m, nil
	}
	m.question.Reset()
	m.refresh(true)
	return m, ExchangeCmd(ex)
}

// updateInputs forwards a message to the focused text input.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusFile {
		m.file, cmd = m.file.Update(msg)
		return m, cmd
	}

	m.question, cmd = m.question.Update(msg)
	m.ctrl.SetInput(m.question.Value())
	return m, cmd
}

func (m *Model) focusQuestion() {
	m.focus = focusQuestion
	m.file.Blur()
	m.file.Reset()
	m.question.Focus()
}

// refresh re-renders the transcript into the viewport and resizes it to
// the space left by the surrounding chrome.
func (m *Model) refresh(toBottom bool) {
	if !m.ready {
		return
	}

	v := m.ctrl.View()
	atBottom := m.viewport.AtBottom()

	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-m.chromeHeight(v), 3)
	m.viewport.SetContent(components.RenderTranscript(v.Transcript, m.width, m.theme, m.renderer))

	if toBottom || atBottom {
		m.viewport.GotoBottom()
	}
}
