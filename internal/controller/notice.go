// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import "time"

// NoticeKind classifies a notice.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeWarning
	NoticeError
)

// String returns the kind name.
func (k NoticeKind) String() string {
	switch k {
	case NoticeSuccess:
		return "success"
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a transient, non-blocking message shown to the user.
type Notice struct {
	Kind        NoticeKind
	Title       string
	Description string
	// Duration is how long the notice stays visible.
	Duration time.Duration
}

// User-facing text.
const (
	FallbackReply  = "Sorry, I couldn't understand that."
	ErrorReply     = "❌ Could not reach the chatbot API."
	UploadPrompt   = "📂 Please upload a CSV to view uploaded FAQs."
	schemaHint     = "CSV must contain 'question' and 'answer' columns."
	uploadFailHint = "Unable to upload FAQ file."
)

// Notice durations.
const (
	ShortNotice = 3 * time.Second
	LongNotice  = 5 * time.Second
)

func noFileNotice() Notice {
	return Notice{Kind: NoticeWarning, Title: "No file selected", Duration: ShortNotice}
}

func invalidCSVNotice() Notice {
	return Notice{Kind: NoticeError, Title: "Invalid CSV", Description: schemaHint, Duration: LongNotice}
}

func unreadableNotice(name string, err error) Notice {
	return Notice{
		Kind:        NoticeError,
		Title:       "Invalid CSV",
		Description: "Unable to read " + name + ": " + err.Error(),
		Duration:    LongNotice,
	}
}

func fileTypeNotice(name, detected string) Notice {
	desc := name + " does not look like a CSV file"
	if detected != "" {
		desc += " (detected " + detected + ")"
	}
	return Notice{
		Kind:        NoticeWarning,
		Title:       "Unexpected file type",
		Description: desc + "; uploading anyway.",
		Duration:    ShortNotice,
	}
}

func uploadedNotice() Notice {
	return Notice{Kind: NoticeSuccess, Title: "FAQ uploaded and processed!", Duration: ShortNotice}
}

func uploadFailedNotice() Notice {
	return Notice{Kind: NoticeError, Title: "Upload Failed", Description: uploadFailHint, Duration: ShortNotice}
}

func defaultsUnavailableNotice() Notice {
	return Notice{
		Kind:        NoticeWarning,
		Title:       "Default FAQs unavailable",
		Description: "The sample list could not be loaded.",
		Duration:    ShortNotice,
	}
}
