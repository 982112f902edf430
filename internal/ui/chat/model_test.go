// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/faqchat/internal/api"
	"github.com/jeranaias/faqchat/internal/controller"
	"github.com/jeranaias/faqchat/internal/model"
	"github.com/jeranaias/faqchat/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type stubBackend struct {
	answer    string
	uploadErr error
	uploads   int
}

func (s *stubBackend) Chat(context.Context, string, model.FaqSource) (api.ChatResult, error) {
	return api.ChatResult{Answer: s.answer, HasAnswer: s.answer != ""}, nil
}

func (s *stubBackend) Upload(_ context.Context, _ string, r io.Reader) error {
	_, _ = io.Copy(io.Discard, r)
	s.uploads++
	return s.uploadErr
}

type stubCorpus struct{}

func (stubCorpus) Load(context.Context) ([]model.FaqEntry, error) {
	return []model.FaqEntry{
		{Question: "How do I reset my password?", Answer: "Use the reset link."},
		{Question: "Where are you located?", Answer: "Online only."},
	}, nil
}

func newTestModel(t *testing.T, backend *stubBackend) Model {
	t.Helper()
	ctrl := controller.New(backend, stubCorpus{})
	m := New(ctrl, Options{Theme: styles.ModeDark})
	return send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

// send delivers msg and returns the updated model.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// sendAndRun delivers msg, runs the returned command and feeds its result
// back into the model.
func sendAndRun(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	return send(t, m, cmd())
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestSubmit_EnterSendsQuestion(t *testing.T) {
	m := newTestModel(t, &stubBackend{answer: "X is Y"})
	m = typeText(t, m, "What is X?")

	if got := m.Controller().Input(); got != "What is X?" {
		t.Fatalf("controller input = %q", got)
	}

	next, cmd := m.Update(enter())
	m = next.(Model)
	if cmd == nil {
		t.Fatal("Enter should start a chat request")
	}

	v := m.Controller().View()
	if len(v.Transcript) != 1 || v.Transcript[0].Content != "What is X?" {
		t.Fatalf("user message should appear immediately, got %+v", v.Transcript)
	}
	if m.question.Value() != "" {
		t.Error("input should be cleared after sending")
	}

	msg := cmd()
	if _, ok := msg.(ReplyMsg); !ok {
		t.Fatalf("expected ReplyMsg, got %T", msg)
	}
	m = send(t, m, msg)

	v = m.Controller().View()
	if len(v.Transcript) != 2 || v.Transcript[1].Content != "X is Y" {
		t.Fatalf("expected answer appended, got %+v", v.Transcript)
	}
	if !strings.Contains(m.View(), "X is Y") {
		t.Error("answer should be visible")
	}
}

func TestStatus_ShowsOutstandingRequests(t *testing.T) {
	m := newTestModel(t, &stubBackend{answer: "soon"})
	m = typeText(t, m, "first?")
	next, cmd := m.Update(enter())
	m = next.(Model)

	if !strings.Contains(m.View(), "waiting for the server (1)") {
		t.Fatalf("status should report one outstanding request:\n%s", m.View())
	}

	m = send(t, m, cmd())
	if strings.Contains(m.View(), "waiting for the server") {
		t.Error("status should clear once the reply is applied")
	}
}

func TestSubmit_BlankEnterIsNoop(t *testing.T) {
	m := newTestModel(t, &stubBackend{})
	m = typeText(t, m, "   ")

	next, cmd := m.Update(enter())
	m = next.(Model)
	if cmd != nil {
		t.Error("blank input should not start a request")
	}
	if n := len(m.Controller().View().Transcript); n != 0 {
		t.Errorf("transcript length = %d, want 0", n)
	}
}

func TestSubmit_FallbackReply(t *testing.T) {
	m := newTestModel(t, &stubBackend{})
	m = typeText(t, m, "hello")
	m = sendAndRun(t, m, enter())

	v := m.Controller().View()
	if len(v.Transcript) != 2 || v.Transcript[1].Content != controller.FallbackReply {
		t.Errorf("expected fallback reply, got %+v", v.Transcript)
	}
}

// =============================================================================
// SOURCE TESTS
// =============================================================================

func TestToggleSource(t *testing.T) {
	m := newTestModel(t, &stubBackend{})

	m = sendAndRun(t, m, tea.KeyMsg{Type: tea.KeyTab})
	v := m.Controller().View()
	if v.Source != model.SourceUploaded {
		t.Fatalf("source = %s, want uploaded", v.Source)
	}
	if !strings.Contains(m.View(), "Please upload a CSV") {
		t.Error("uploaded source without samples should show the call to action")
	}

	m = sendAndRun(t, m, tea.KeyMsg{Type: tea.KeyTab})
	v = m.Controller().View()
	if v.Source != model.SourceDefault {
		t.Fatalf("source = %s, want default", v.Source)
	}
	if len(v.Samples) != 2 {
		t.Errorf("samples = %d, want 2", len(v.Samples))
	}
	if !strings.Contains(m.View(), "How do I reset my password?") {
		t.Error("sample questions should be listed")
	}
}

func TestDefaultsChanged_ReloadsPreview(t *testing.T) {
	m := newTestModel(t, &stubBackend{})

	next, cmd := m.Update(DefaultsChangedMsg{})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a reload command")
	}
	if m.Controller().View().InFlight != 1 {
		t.Error("reload should be in flight")
	}
}

// =============================================================================
// UPLOAD TESTS
// =============================================================================

func pickFile(t *testing.T, m Model, path string) Model {
	t.Helper()
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.focus != focusFile {
		t.Fatal("Ctrl+O should focus the file field")
	}
	m = typeText(t, m, path)
	m = send(t, m, enter())
	if m.focus != focusQuestion {
		t.Fatal("Enter should return focus to the question field")
	}
	return m
}

func TestUpload_NoFileSelected(t *testing.T) {
	backend := &stubBackend{}
	m := newTestModel(t, backend)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	m = next.(Model)
	if cmd != nil {
		t.Error("no request should be made")
	}

	toasts := m.Toasts()
	if len(toasts) != 1 || toasts[0].Title != "No file selected" {
		t.Errorf("expected a 'No file selected' toast, got %+v", toasts)
	}
}

func TestUpload_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faqs.csv")
	if err := os.WriteFile(path, []byte("question,answer\nq1,a1\nq2,a2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	backend := &stubBackend{}
	m := newTestModel(t, backend)
	m = pickFile(t, m, path)

	if got := m.Controller().View().PendingName; got != "faqs.csv" {
		t.Fatalf("pending file = %q", got)
	}
	if !strings.Contains(m.View(), "faqs.csv") {
		t.Error("selected file should be shown")
	}

	m = sendAndRun(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})

	if backend.uploads != 1 {
		t.Errorf("uploads = %d, want 1", backend.uploads)
	}
	v := m.Controller().View()
	if v.Source != model.SourceUploaded {
		t.Errorf("source = %s, want uploaded", v.Source)
	}
	if len(v.Samples) != 2 {
		t.Errorf("samples = %d, want 2", len(v.Samples))
	}
	toasts := m.Toasts()
	if len(toasts) == 0 || toasts[0].Title != "FAQ uploaded and processed!" {
		t.Errorf("expected success toast, got %+v", toasts)
	}
}

func TestUpload_InvalidCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("question,foo\nq,x\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	backend := &stubBackend{}
	m := newTestModel(t, backend)
	m = pickFile(t, m, path)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	m = next.(Model)
	if cmd != nil {
		t.Error("invalid file must not be sent")
	}
	if backend.uploads != 0 {
		t.Errorf("uploads = %d, want 0", backend.uploads)
	}
	toasts := m.Toasts()
	if len(toasts) != 1 || toasts[0].Title != "Invalid CSV" {
		t.Errorf("expected Invalid CSV toast, got %+v", toasts)
	}
}

func TestFileField_EscReturnsToQuestion(t *testing.T) {
	m := newTestModel(t, &stubBackend{})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	m = typeText(t, m, "/tmp/whatever.csv")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if cmd != nil {
		t.Error("Esc in the file field should not quit")
	}
	if m.focus != focusQuestion {
		t.Error("Esc should return to the question field")
	}
	if !m.Controller().PendingFile().IsZero() {
		t.Error("cancelled path should not be recorded")
	}
}

// =============================================================================
// VIEW TESTS
// =============================================================================

func TestView_BeforeResize(t *testing.T) {
	ctrl := controller.New(&stubBackend{}, stubCorpus{})
	m := New(ctrl, Options{Theme: styles.ModeDark})
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q", got)
	}
}

func TestView_Layout(t *testing.T) {
	m := newTestModel(t, &stubBackend{})
	out := m.View()

	for _, want := range []string{"FAQ Chatbot", "Default FAQs", "Uploaded FAQs", QuestionPlaceholder[:4]} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t, &stubBackend{})
	for _, k := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s should quit", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should produce QuitMsg", k)
		}
	}
}

func TestKeyMap_HelpLine(t *testing.T) {
	line := DefaultKeyMap().HelpLine()
	for _, want := range []string{"Enter", "Tab", "C-o", "C-u"} {
		if !strings.Contains(line, want) {
			t.Errorf("help line missing %q: %q", want, line)
		}
	}
}
