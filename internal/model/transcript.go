// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Transcript is the ordered, append-only record of a chat session.
// It lives in memory only and is dropped when the process exits.
type Transcript struct {
	messages []Message
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{messages: make([]Message, 0)}
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(msg Message) {
	t.messages = append(t.messages, msg)
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// All returns a copy of the messages in order.
func (t *Transcript) All() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Last returns the most recent message, or false if the transcript is empty.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// ReplyTo returns the assistant reply for the user message with the given ID.
func (t *Transcript) ReplyTo(requestID string) (Message, bool) {
	for _, m := range t.messages {
		if m.Role == RoleAssistant && m.RequestID == requestID {
			return m, true
		}
	}
	return Message{}, false
}
