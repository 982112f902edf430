// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package faq

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// AcceptExtension is the file extension offered by the file picker.
const AcceptExtension = ".csv"

// PendingFile is a file the user picked for upload. Nothing is checked
// when it is picked; problems surface when the upload is attempted.
type PendingFile struct {
	Path string
	Name string
}

// NewPendingFile records a file path.
func NewPendingFile(path string) PendingFile {
	path = strings.TrimSpace(path)
	if path == "" {
		return PendingFile{}
	}
	return PendingFile{Path: path, Name: filepath.Base(path)}
}

// IsZero reports whether no file has been picked.
func (p PendingFile) IsZero() bool {
	return p.Path == ""
}

// HasAcceptedExtension reports whether the name ends in .csv.
func (p PendingFile) HasAcceptedExtension() bool {
	return strings.EqualFold(filepath.Ext(p.Name), AcceptExtension)
}

// Sniff detects the MIME type of the file content.
func (p PendingFile) Sniff() (string, error) {
	mtype, err := mimetype.DetectFile(p.Path)
	if err != nil {
		return "", err
	}
	return mtype.String(), nil
}

// LooksLikeText reports whether the content sniffs as CSV or plain text.
// Used for advisory warnings only.
func (p PendingFile) LooksLikeText() bool {
	mtype, err := mimetype.DetectFile(p.Path)
	if err != nil {
		return false
	}
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/csv") || m.Is("text/plain") {
			return true
		}
	}
	return false
}

// Open opens the raw file for reading.
func (p PendingFile) Open() (io.ReadCloser, error) {
	return os.Open(p.Path)
}
