// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package faq

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPendingFile(t *testing.T) {
	assert.True(t, NewPendingFile("   ").IsZero())

	p := NewPendingFile("/tmp/data/faqs.CSV")
	assert.False(t, p.IsZero())
	assert.Equal(t, "faqs.CSV", p.Name)
	assert.True(t, p.HasAcceptedExtension())
	assert.False(t, NewPendingFile("notes.txt").HasAcceptedExtension())
}

func TestPendingFile_OpenAndSniff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faqs.csv")
	require.NoError(t, os.WriteFile(path, []byte("question,answer\nq,a\n"), 0o600))

	p := NewPendingFile(path)
	rc, err := p.Open()
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "question,answer\nq,a\n", string(data))

	mime, err := p.Sniff()
	require.NoError(t, err)
	assert.NotEmpty(t, mime)
	assert.True(t, p.LooksLikeText())
}

func TestPendingFile_Missing(t *testing.T) {
	p := NewPendingFile(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := p.Open()
	assert.Error(t, err)
	assert.False(t, p.LooksLikeText())
}
