// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// MarkdownRenderer renders bot answers with glamour. Renderers are cached
// per wrap width since glamour fixes the width at construction.
type MarkdownRenderer struct {
	style string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer. style is a glamour standard
// style name ("dark", "light") or "auto".
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	return &MarkdownRenderer{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render renders content at the given width. Content is returned unchanged
// when glamour fails.
func (r *MarkdownRenderer) Render(content string, width int) string {
	tr := r.renderer(width)
	if tr == nil {
		return WordWrap(content, width)
	}

	out, err := tr.Render(content)
	if err != nil {
		return WordWrap(content, width)
	}
	return out
}

func (r *MarkdownRenderer) renderer(width int) *glamour.TermRenderer {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tr, ok := r.renderers[width]; ok {
		return tr
	}

	styleOpt := glamour.WithAutoStyle()
	if r.style == "dark" || r.style == "light" {
		styleOpt = glamour.WithStandardStyle(r.style)
	}

	tr, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		tr = nil
	}
	r.renderers[width] = tr
	return tr
}
