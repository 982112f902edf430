// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/jeranaias/faqchat/internal/controller"
	"github.com/jeranaias/faqchat/internal/model"
	"github.com/jeranaias/faqchat/internal/ui/components"
)

// =============================================================================
// COLORS
// =============================================================================

var (
	titleColor   = color.New(color.FgHiMagenta, color.Bold)
	userColor    = color.New(color.FgHiCyan, color.Bold)
	botColor     = color.New(color.FgHiMagenta, color.Bold)
	dimColor     = color.New(color.Faint)
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgBlue, color.Bold)
)

// =============================================================================
// PRINTERS
// =============================================================================

func noticeColor(kind controller.NoticeKind) *color.Color {
	switch kind {
	case controller.NoticeSuccess:
		return successColor
	case controller.NoticeWarning:
		return warningColor
	case controller.NoticeError:
		return errorColor
	default:
		return infoColor
	}
}

// printNotices writes each notice as "[kind] Title: Description".
func printNotices(w io.Writer, notices []controller.Notice) {
	for _, n := range notices {
		label := noticeColor(n.Kind).Sprintf("[%s]", n.Kind)
		if n.Description == "" {
			fmt.Fprintf(w, "%s %s\n", label, n.Title)
			continue
		}
		fmt.Fprintf(w, "%s %s: %s\n", label, n.Title, n.Description)
	}
}

// printPreview writes the sample panel, or the upload prompt when the
// uploaded source has nothing to show.
func printPreview(w io.Writer, view controller.View, width int) {
	if view.ShowUploadPrompt {
		fmt.Fprintln(w, dimColor.Sprint(controller.UploadPrompt))
		return
	}
	if len(view.Samples) == 0 {
		return
	}

	fmt.Fprintln(w, titleColor.Sprint(components.SamplesTitle))
	for _, e := range view.Samples {
		fmt.Fprintf(w, "  Q: %s\n", components.Truncate(e.Question, width-5))
		fmt.Fprintf(w, "  A: %s\n", components.Truncate(e.Answer, width-5))
	}
}

// printMessage writes one transcript message with a colored role prefix.
func printMessage(w io.Writer, msg model.Message, width int) {
	prefix := botColor.Sprint(msg.Role.DisplayName() + ":")
	if msg.IsUser() {
		prefix = userColor.Sprint(msg.Role.DisplayName() + ":")
	}
	body := components.WordWrap(msg.Content, width-2)
	fmt.Fprintf(w, "%s %s\n", prefix, strings.ReplaceAll(body, "\n", "\n  "))
}
