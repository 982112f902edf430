// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jeranaias/faqchat/internal/api"
	"github.com/jeranaias/faqchat/internal/faq"
	"github.com/jeranaias/faqchat/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}

// =============================================================================
// FAKES
// =============================================================================

type fakeBackend struct {
	mu sync.Mutex

	chatResult api.ChatResult
	chatErr    error
	uploadErr  error

	queries []string
	sources []model.FaqSource
	uploads []string
	bodies  []string
}

func (f *fakeBackend) Chat(_ context.Context, query string, source model.FaqSource) (api.ChatResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.sources = append(f.sources, source)
	return f.chatResult, f.chatErr
}

func (f *fakeBackend) Upload(_ context.Context, name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, name)
	f.bodies = append(f.bodies, string(data))
	return f.uploadErr
}

func (f *fakeBackend) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

type fakeCorpus struct {
	entries []model.FaqEntry
	err     error
	loads   int
}

func (f *fakeCorpus) Load(context.Context) ([]model.FaqEntry, error) {
	f.loads++
	return f.entries, f.err
}

func entries(n int) []model.FaqEntry {
	out := make([]model.FaqEntry, n)
	for i := range out {
		out[i] = model.FaqEntry{
			Question: "q" + string(rune('a'+i)),
			Answer:   "a" + string(rune('a'+i)),
		}
	}
	return out
}

func writeCSV(t *testing.T, name, content string) faq.PendingFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return faq.NewPendingFile(path)
}

func validCSV(rows int) string {
	s := "question,answer,category\n"
	for _, e := range entries(rows) {
		s += e.Question + "," + e.Answer + ",misc\n"
	}
	return s
}

// roles returns (role, content) pairs for comparison.
func roles(msgs []model.Message) [][2]string {
	out := make([][2]string, len(msgs))
	for i, m := range msgs {
		out[i] = [2]string{string(m.Role), m.Content}
	}
	return out
}

var ignoreMessageMeta = cmpopts.IgnoreFields(model.Message{}, "ID", "Timestamp", "RequestID")

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestNew_InitialState(t *testing.T) {
	c := New(&fakeBackend{}, &fakeCorpus{})
	v := c.View()

	assert.Empty(t, v.Transcript)
	assert.Equal(t, model.SourceDefault, v.Source)
	assert.Empty(t, v.Samples)
	assert.Empty(t, v.Input)
	assert.Empty(t, v.PendingName)
	assert.False(t, v.ShowUploadPrompt)
	assert.Equal(t, 0, v.InFlight)
}

func TestSubmit_BlankIsNoop(t *testing.T) {
	backend := &fakeBackend{}
	c := New(backend, &fakeCorpus{})

	for _, text := range []string{"", " ", "\t\n", "   \r\n "} {
		c.SetInput(text)
		ex, ok := c.SubmitInput()
		assert.False(t, ok, "%q", text)
		assert.Nil(t, ex)
		assert.Equal(t, text, c.Input(), "input is left as typed")
	}
	assert.Empty(t, c.View().Transcript)
	assert.Empty(t, backend.queries)
}

func TestSubmit_AppendsUserMessageImmediately(t *testing.T) {
	c := New(&fakeBackend{}, &fakeCorpus{})
	c.SetInput("What is X?")

	ex, ok := c.SubmitInput()
	require.True(t, ok)
	require.NotNil(t, ex)

	v := c.View()
	assert.Empty(t, v.Input)
	assert.Equal(t, 1, v.InFlight)
	want := []model.Message{{Role: model.RoleUser, Content: "What is X?"}}
	if diff := cmp.Diff(want, v.Transcript, ignoreMessageMeta); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_EndToEndSuccess(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = decodeJSON(r, &got)
		_, _ = io.WriteString(w, `{"response":"X is Y"}`)
	}))
	defer srv.Close()

	c := New(api.NewClient(srv.URL, ""), &fakeCorpus{})
	ex, ok := c.Submit("What is X?")
	require.True(t, ok)
	assert.Equal(t, [][2]string{{"user", "What is X?"}}, roles(c.View().Transcript))

	c.ApplyReply(ex.Run(context.Background()))

	assert.Equal(t, [][2]string{
		{"user", "What is X?"},
		{"assistant", "X is Y"},
	}, roles(c.View().Transcript))
	assert.Equal(t, map[string]any{"user_input": "What is X?", "faq_source": "default"}, got)
	assert.Equal(t, 0, c.View().InFlight)
}

func TestSubmit_EndToEndNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(api.NewClient(url, ""), &fakeCorpus{})
	ex, ok := c.Submit("What is X?")
	require.True(t, ok)
	reply := ex.Run(context.Background())
	c.ApplyReply(reply)

	msgs := c.View().Transcript
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, ErrorReply, msgs[1].Content)
	assert.ErrorIs(t, reply.Err, api.ErrUnreachable)
}

func TestSubmit_ReplyContent(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
		want    string
	}{
		{"answer", &fakeBackend{chatResult: api.ChatResult{Answer: "42", HasAnswer: true}}, "42"},
		{"missing answer", &fakeBackend{}, FallbackReply},
		{"status error", &fakeBackend{chatErr: &api.StatusError{Endpoint: "chat", Status: 502}}, ErrorReply},
		{"timeout", &fakeBackend{chatErr: context.DeadlineExceeded}, ErrorReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.backend, &fakeCorpus{})
			ex, ok := c.Submit("hello")
			require.True(t, ok)
			c.ApplyReply(ex.Run(context.Background()))

			msgs := c.View().Transcript
			require.Len(t, msgs, 2, "exactly one user and one assistant message")
			assert.Equal(t, model.RoleUser, msgs[0].Role)
			assert.Equal(t, "hello", msgs[0].Content)
			assert.Equal(t, model.RoleAssistant, msgs[1].Role)
			assert.Equal(t, tt.want, msgs[1].Content)
			assert.Equal(t, msgs[0].ID, msgs[1].RequestID)
		})
	}
}

func TestSubmit_SendsCurrentSource(t *testing.T) {
	backend := &fakeBackend{}
	c := New(backend, &fakeCorpus{})

	ex1, _ := c.Submit("one")
	c.SelectSource(model.SourceUploaded)
	ex2, _ := c.Submit("two")

	ex1.Run(context.Background())
	ex2.Run(context.Background())
	assert.Equal(t, []model.FaqSource{model.SourceDefault, model.SourceUploaded}, backend.sources)
}

func TestSubmit_OutOfOrderRepliesAreCorrelated(t *testing.T) {
	c := New(&fakeBackend{chatResult: api.ChatResult{Answer: "ok", HasAnswer: true}}, &fakeCorpus{})

	first, _ := c.Submit("first")
	second, _ := c.Submit("second")
	assert.Equal(t, 2, c.View().InFlight)

	// The later request settles first.
	r2 := second.Run(context.Background())
	r1 := first.Run(context.Background())
	c.ApplyReply(r2)
	c.ApplyReply(r1)

	msgs := c.View().Transcript
	require.Len(t, msgs, 4)
	assert.Equal(t, [][2]string{
		{"user", "first"},
		{"user", "second"},
		{"assistant", "ok"},
		{"assistant", "ok"},
	}, roles(msgs))
	assert.Equal(t, msgs[1].ID, msgs[2].RequestID)
	assert.Equal(t, msgs[0].ID, msgs[3].RequestID)
	assert.Equal(t, 0, c.View().InFlight)
}

func TestSubmit_ConcurrentRuns(t *testing.T) {
	backend := &fakeBackend{chatResult: api.ChatResult{Answer: "ok", HasAnswer: true}}
	c := New(backend, &fakeCorpus{})

	const n = 8
	exchanges := make([]*Exchange, n)
	for i := range exchanges {
		ex, ok := c.Submit("msg")
		require.True(t, ok)
		exchanges[i] = ex
	}

	replies := make(chan Reply, n)
	var wg sync.WaitGroup
	for _, ex := range exchanges {
		wg.Add(1)
		go func(ex *Exchange) {
			defer wg.Done()
			replies <- ex.Run(context.Background())
		}(ex)
	}
	wg.Wait()
	close(replies)

	for r := range replies {
		c.ApplyReply(r)
	}

	msgs := c.View().Transcript
	assert.Len(t, msgs, 2*n)
	for _, m := range msgs[:n] {
		assert.True(t, m.IsUser())
		_, ok := c.transcript.ReplyTo(m.ID)
		assert.True(t, ok, "every request gets one reply")
	}
}

// =============================================================================
// SOURCE TESTS
// =============================================================================

func TestSelectSource_DefaultLoadsFirstFive(t *testing.T) {
	corpus := &fakeCorpus{entries: entries(8)}
	c := New(&fakeBackend{}, corpus)

	load := c.SelectSource(model.SourceDefault)
	require.NotNil(t, load)
	assert.Equal(t, 1, c.View().InFlight)

	notices := c.ApplySamples(load.Run(context.Background()))
	assert.Empty(t, notices)

	v := c.View()
	assert.Equal(t, entries(5), v.Samples)
	assert.False(t, v.ShowUploadPrompt)
	assert.Equal(t, 0, v.InFlight)
}

func TestSelectSource_DefaultFromBundledCorpus(t *testing.T) {
	loader := faq.NewDefaultLoader(faq.LoaderConfig{})
	c := New(&fakeBackend{}, loader)

	c.ApplySamples(c.SelectSource(model.SourceDefault).Run(context.Background()))

	samples := c.View().Samples
	require.NotEmpty(t, samples)
	assert.LessOrEqual(t, len(samples), faq.DefaultPreviewSize)

	all, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, all[:len(samples)], samples, "preview keeps parse order")
}

func TestSelectSource_ShortCorpus(t *testing.T) {
	c := New(&fakeBackend{}, &fakeCorpus{entries: entries(2)})
	c.ApplySamples(c.SelectSource(model.SourceDefault).Run(context.Background()))
	assert.Equal(t, entries(2), c.View().Samples)
}

func TestSelectSource_UploadedWithoutUpload(t *testing.T) {
	c := New(&fakeBackend{}, &fakeCorpus{entries: entries(8)})
	c.ApplySamples(c.SelectSource(model.SourceDefault).Run(context.Background()))
	require.NotEmpty(t, c.View().Samples)

	assert.Nil(t, c.SelectSource(model.SourceUploaded))

	v := c.View()
	assert.Equal(t, model.SourceUploaded, v.Source)
	assert.Empty(t, v.Samples)
	assert.True(t, v.ShowUploadPrompt)
}

func TestSelectSource_StaleLoadIsDropped(t *testing.T) {
	c := New(&fakeBackend{}, &fakeCorpus{entries: entries(8)})

	load := c.SelectSource(model.SourceDefault)
	c.SelectSource(model.SourceUploaded)
	c.ApplySamples(load.Run(context.Background()))

	v := c.View()
	assert.Empty(t, v.Samples, "samples belong to a source no longer selected")
	assert.True(t, v.ShowUploadPrompt)
	assert.Equal(t, 0, v.InFlight)
}

func TestSelectSource_LoadFailure(t *testing.T) {
	c := New(&fakeBackend{}, &fakeCorpus{err: errors.New("404")})

	notices := c.ApplySamples(c.SelectSource(model.SourceDefault).Run(context.Background()))
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeWarning, notices[0].Kind)
	assert.Empty(t, c.View().Samples)
}

func TestReload(t *testing.T) {
	corpus := &fakeCorpus{entries: entries(3)}
	c := New(&fakeBackend{}, corpus)

	load := c.Reload()
	require.NotNil(t, load)
	c.ApplySamples(load.Run(context.Background()))
	assert.Equal(t, entries(3), c.View().Samples)

	corpus.entries = entries(6)
	load = c.Reload()
	assert.Equal(t, entries(3), c.View().Samples, "preview kept until the reload lands")
	c.ApplySamples(load.Run(context.Background()))
	assert.Equal(t, entries(5), c.View().Samples)

	c.SelectSource(model.SourceUploaded)
	assert.Nil(t, c.Reload())
	assert.Equal(t, 2, corpus.loads)
}

// =============================================================================
// UPLOAD TESTS
// =============================================================================

func TestUpload_NoFileSelected(t *testing.T) {
	backend := &fakeBackend{}
	c := New(backend, &fakeCorpus{})

	job, notices := c.Upload()
	assert.Nil(t, job)
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeWarning, notices[0].Kind)
	assert.Equal(t, "No file selected", notices[0].Title)
	assert.Equal(t, ShortNotice, notices[0].Duration)
	assert.Zero(t, backend.uploadCount())
}

func TestUpload_MissingAnswerColumn(t *testing.T) {
	backend := &fakeBackend{}
	c := New(backend, &fakeCorpus{entries: entries(8)})
	c.ApplySamples(c.SelectSource(model.SourceDefault).Run(context.Background()))
	before := c.View()

	f := writeCSV(t, "bad.csv", "question,foo\nq1,x\n")
	c.SelectFile(f)
	job, notices := c.Upload()

	assert.Nil(t, job)
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeError, notices[0].Kind)
	assert.Equal(t, "Invalid CSV", notices[0].Title)
	assert.Equal(t, "CSV must contain 'question' and 'answer' columns.", notices[0].Description)
	assert.Equal(t, LongNotice, notices[0].Duration)

	after := c.View()
	assert.Zero(t, backend.uploadCount(), "nothing sent")
	assert.Equal(t, before.Source, after.Source)
	assert.Equal(t, before.Samples, after.Samples)
	assert.Equal(t, f, c.PendingFile(), "file stays selected")
}

func TestUpload_RejectedFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"header only", "question,answer\n"},
		{"missing question", "answer,other\na,b\n"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			c := New(backend, &fakeCorpus{})
			c.SelectFile(writeCSV(t, "f.csv", tt.content))

			job, notices := c.Upload()
			assert.Nil(t, job)
			require.Len(t, notices, 1)
			assert.Equal(t, NoticeError, notices[0].Kind)
			assert.Zero(t, backend.uploadCount())
		})
	}
}

func TestUpload_UnreadableFile(t *testing.T) {
	c := New(&fakeBackend{}, &fakeCorpus{})
	c.SelectFile(faq.NewPendingFile(filepath.Join(t.TempDir(), "missing.csv")))

	job, notices := c.Upload()
	assert.Nil(t, job)
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeError, notices[0].Kind)
	assert.Contains(t, notices[0].Description, "missing.csv")
}

func TestUpload_Success(t *testing.T) {
	backend := &fakeBackend{}
	c := New(backend, &fakeCorpus{}, WithRand(rand.New(rand.NewPCG(1, 2))))

	content := validCSV(25)
	c.SelectFile(writeCSV(t, "faqs.csv", content))
	assert.Equal(t, "faqs.csv", c.View().PendingName)

	job, notices := c.Upload()
	require.NotNil(t, job)
	assert.Empty(t, notices)
	assert.True(t, c.PendingFile().IsZero(), "cleared once the upload is under way")
	assert.Equal(t, model.SourceDefault, c.View().Source, "source changes only on success")

	notices = c.ApplyUpload(job.Run(context.Background()))
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeSuccess, notices[0].Kind)
	assert.Equal(t, "FAQ uploaded and processed!", notices[0].Title)

	assert.Equal(t, []string{"faqs.csv"}, backend.uploads)
	assert.Equal(t, []string{content}, backend.bodies, "raw file is sent")

	v := c.View()
	assert.Equal(t, model.SourceUploaded, v.Source)
	assert.Len(t, v.Samples, faq.UploadedPreviewSize)
	assert.False(t, v.ShowUploadPrompt)
	assert.Subset(t, entries(25), v.Samples)
}

func TestUpload_SmallFileSamplesAll(t *testing.T) {
	c := New(&fakeBackend{}, &fakeCorpus{})
	c.SelectFile(writeCSV(t, "faqs.csv", validCSV(3)))

	job, _ := c.Upload()
	require.NotNil(t, job)
	c.ApplyUpload(job.Run(context.Background()))

	assert.ElementsMatch(t, entries(3), c.View().Samples)
}

func TestUpload_Failure(t *testing.T) {
	backend := &fakeBackend{uploadErr: &api.StatusError{Endpoint: "upload", Status: 500}}
	c := New(backend, &fakeCorpus{entries: entries(8)})
	c.ApplySamples(c.SelectSource(model.SourceDefault).Run(context.Background()))
	before := c.View()

	c.SelectFile(writeCSV(t, "faqs.csv", validCSV(4)))
	job, _ := c.Upload()
	require.NotNil(t, job)
	notices := c.ApplyUpload(job.Run(context.Background()))

	require.Len(t, notices, 1)
	assert.Equal(t, NoticeError, notices[0].Kind)
	assert.Equal(t, "Upload Failed", notices[0].Title)
	assert.Equal(t, "Unable to upload FAQ file.", notices[0].Description)

	after := c.View()
	assert.Equal(t, before.Source, after.Source)
	assert.Equal(t, before.Samples, after.Samples)
	assert.True(t, c.PendingFile().IsZero())
	assert.Equal(t, 0, after.InFlight)
}

func TestUpload_NonCSVExtensionWarns(t *testing.T) {
	c := New(&fakeBackend{}, &fakeCorpus{})
	c.SelectFile(writeCSV(t, "faqs.txt", validCSV(2)))

	job, notices := c.Upload()
	require.NotNil(t, job)
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeWarning, notices[0].Kind)
}

func TestUpload_BinaryContentWarns(t *testing.T) {
	b := &fakeBackend{}
	c := New(b, &fakeCorpus{})
	// Passes the header check but carries NUL bytes, so it sniffs as binary.
	c.SelectFile(writeCSV(t, "faqs.csv", "question,answer\nq\x00\x01,a\x00\x02\n"))

	job, notices := c.Upload()
	require.NotNil(t, job)
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeWarning, notices[0].Kind)
	assert.Equal(t, "Unexpected file type", notices[0].Title)
	assert.Contains(t, notices[0].Description, "application/octet-stream")

	res := job.Run(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, 1, b.uploadCount())
}

func TestUpload_TextCSVHasNoTypeWarning(t *testing.T) {
	c := New(&fakeBackend{}, &fakeCorpus{})
	c.SelectFile(writeCSV(t, "faqs.csv", validCSV(3)))

	job, notices := c.Upload()
	require.NotNil(t, job)
	assert.Empty(t, notices)
}

func TestWithSampleSizes(t *testing.T) {
	c := New(&fakeBackend{}, &fakeCorpus{entries: entries(8)}, WithSampleSizes(2, 0))
	c.ApplySamples(c.SelectSource(model.SourceDefault).Run(context.Background()))
	assert.Len(t, c.View().Samples, 2)
	assert.Equal(t, faq.UploadedPreviewSize, c.uploadSize)
}

func TestView_IsSnapshot(t *testing.T) {
	c := New(&fakeBackend{}, &fakeCorpus{entries: entries(5)})
	c.ApplySamples(c.SelectSource(model.SourceDefault).Run(context.Background()))
	c.Submit("hi")

	v := c.View()
	v.Samples[0].Question = "changed"
	v.Transcript[0].Content = "changed"

	again := c.View()
	assert.Equal(t, "qa", again.Samples[0].Question)
	assert.Equal(t, "hi", again.Transcript[0].Content)
}

func TestNoticeKind_String(t *testing.T) {
	assert.Equal(t, "info", NoticeInfo.String())
	assert.Equal(t, "success", NoticeSuccess.String())
	assert.Equal(t, "warning", NoticeWarning.String())
	assert.Equal(t, "error", NoticeError.String())
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func TestExchange_LogsPreviewAndElapsed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(&fakeBackend{chatResult: api.ChatResult{Answer: "ok", HasAnswer: true}}, &fakeCorpus{},
		WithLogger(zap.New(core)))

	long := "How do I find the building where the orientation session for new starters is held?"
	ex, ok := c.Submit(long)
	require.True(t, ok)

	submitted := logs.FilterMessage("message submitted").All()
	require.Len(t, submitted, 1)
	fields := submitted[0].ContextMap()
	assert.Equal(t, ex.Request.ID, fields["request_id"])
	assert.Equal(t, "default", fields["source"])
	assert.Equal(t, ex.Request.Preview(submitPreviewLen), fields["preview"])
	assert.Less(t, len([]rune(fields["preview"].(string))), len([]rune(long)))

	reply := ex.Run(context.Background())
	c.ApplyReply(reply)

	applied := logs.FilterMessage("reply applied").All()
	require.Len(t, applied, 1)
	fields = applied[0].ContextMap()
	assert.Equal(t, ex.Request.ID, fields["request_id"])
	assert.Equal(t, reply.Elapsed, fields["elapsed"])
	assert.Equal(t, false, fields["failed"])
	assert.False(t, c.Busy())
}
