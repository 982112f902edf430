// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the colours and Lip Gloss styles of the faqchat TUI.

# Color System (colors.go)

All colors are Lip Gloss AdaptiveColor values, so the light or dark variant
is picked from the terminal background:

	UserBubbleBg      - Background for the user's questions
	AssistantBubbleBg - Background for bot answers
	Emerald/Amber/Rose/Cyan - success, warning, error and info notices

# Theme System (theme.go)

NewTheme detects the terminal with termenv. The "dark" and "light" modes
from the configuration override the detected background:

	theme := styles.NewTheme(styles.ModeAuto)
	bubble := theme.UserBubble.Render("hello")
*/
package styles
