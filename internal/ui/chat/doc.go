// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea model of the FAQ chat screen.

The model is a thin shell around controller.Controller: key presses become
controller calls, and the network jobs the controller hands back run as
tea.Cmds whose results come back as messages.

# Key Types

  - Model: the Bubble Tea model
  - KeyMap: keyboard bindings
  - ReplyMsg, SamplesMsg, UploadMsg: finished network jobs
  - DefaultsChangedMsg: the default FAQ file changed on disk

# Keys

	Enter       send the question (or record the file path)
	Tab / F2    switch between Default FAQs and Uploaded FAQs
	Ctrl+O      enter a CSV file path
	Ctrl+U      upload the selected file
	PgUp/PgDn   scroll the conversation
	Esc/Ctrl+C  leave the file field, or quit

# Usage

	m := chat.New(ctrl, chat.Options{Theme: styles.ModeAuto, Markdown: true})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
*/
package chat
