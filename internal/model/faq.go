// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// FAQ SOURCE
// =============================================================================

// FaqSource selects which FAQ corpus answers and previews are drawn from.
type FaqSource string

const (
	SourceDefault  FaqSource = "default"
	SourceUploaded FaqSource = "uploaded"
)

// ErrUnknownSource is returned when parsing an unrecognised source name.
var ErrUnknownSource = errors.New("unknown FAQ source")

// ParseFaqSource parses a source name, ignoring case and surrounding space.
func ParseFaqSource(s string) (FaqSource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SourceDefault):
		return SourceDefault, nil
	case string(SourceUploaded):
		return SourceUploaded, nil
	default:
		return "", fmt.Errorf("%w: %q (want default or uploaded)", ErrUnknownSource, s)
	}
}

// String returns the wire value of the source.
func (s FaqSource) String() string {
	return string(s)
}

// Label returns the selector label shown in the UI.
func (s FaqSource) Label() string {
	switch s {
	case SourceUploaded:
		return "Uploaded FAQs"
	default:
		return "Default FAQs"
	}
}

// Toggle returns the other source.
func (s FaqSource) Toggle() FaqSource {
	if s == SourceUploaded {
		return SourceDefault
	}
	return SourceUploaded
}

// =============================================================================
// FAQ ENTRY
// =============================================================================

// FaqEntry is one question/answer pair.
type FaqEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
