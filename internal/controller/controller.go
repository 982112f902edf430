// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/faqchat/internal/api"
	"github.com/jeranaias/faqchat/internal/faq"
	"github.com/jeranaias/faqchat/internal/model"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Backend is the remote chatbot service. Implementations must be safe to
// call from several goroutines at once.
type Backend interface {
	Chat(ctx context.Context, query string, source model.FaqSource) (api.ChatResult, error)
	Upload(ctx context.Context, filename string, content io.Reader) error
}

// DefaultCorpus supplies the bundled default FAQ entries in file order.
type DefaultCorpus interface {
	Load(ctx context.Context) ([]model.FaqEntry, error)
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the state of the chat screen.
type Controller struct {
	backend  Backend
	defaults DefaultCorpus

	transcript *model.Transcript
	input      string
	source     model.FaqSource
	pending    faq.PendingFile
	samples    []model.FaqEntry
	inFlight   int

	defaultSize int
	uploadSize  int
	rng         *rand.Rand
	log         *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithSampleSizes overrides the preview sizes for the default and
// uploaded sources. Non-positive values are ignored.
func WithSampleSizes(defaultSize, uploadSize int) Option {
	return func(c *Controller) {
		if defaultSize > 0 {
			c.defaultSize = defaultSize
		}
		if uploadSize > 0 {
			c.uploadSize = uploadSize
		}
	}
}

// WithRand sets the random source used to sample uploaded entries.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) { c.rng = rng }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a controller in its initial state: empty transcript, empty
// input, default source, no pending file and an empty preview.
//
// The initial state does not load the default preview; callers that want
// it shown at startup call SelectSource(model.SourceDefault).
func New(backend Backend, defaults DefaultCorpus, opts ...Option) *Controller {
	c := &Controller{
		backend:     backend,
		defaults:    defaults,
		transcript:  model.NewTranscript(),
		source:      model.SourceDefault,
		defaultSize: faq.DefaultPreviewSize,
		uploadSize:  faq.UploadedPreviewSize,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("controller")
	return c
}

// =============================================================================
// INPUT AND MESSAGES
// =============================================================================

// SetInput replaces the input text.
func (c *Controller) SetInput(text string) {
	c.input = text
}

// Input returns the current input text.
func (c *Controller) Input() string {
	return c.input
}

// SubmitInput submits the current input text.
func (c *Controller) SubmitInput() (*Exchange, bool) {
	return c.Submit(c.input)
}

// submitPreviewLen bounds the message text copied into debug logs.
const submitPreviewLen = 60

// Submit appends text as a user message, clears the input and returns the
// chat request to run. Text that is empty after trimming changes nothing
// and returns false.
//
// The message is sent as typed; only the emptiness check trims it.
func (c *Controller) Submit(text string) (*Exchange, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	msg := model.NewUserMessage(text)
	c.transcript.Append(msg)
	c.input = ""
	c.inFlight++
	c.log.Debug("message submitted",
		zap.String("request_id", msg.ID),
		zap.String("source", c.source.String()),
		zap.String("preview", msg.Preview(submitPreviewLen)))

	return &Exchange{
		Request: msg,
		Source:  c.source,
		backend: c.backend,
		log:     c.log,
	}, true
}

// ApplyReply appends the assistant message for a finished exchange.
func (c *Controller) ApplyReply(r Reply) {
	c.transcript.Append(model.NewAssistantMessage(r.Content, r.RequestID))
	c.done()
	c.log.Debug("reply applied",
		zap.String("request_id", r.RequestID),
		zap.Duration("elapsed", r.Elapsed),
		zap.Bool("failed", r.Err != nil))
}

// =============================================================================
// FAQ SOURCE
// =============================================================================

// Source returns the active FAQ source.
func (c *Controller) Source() model.FaqSource {
	return c.source
}

// SelectSource switches the FAQ source. The preview is cleared straight
// away. For the default source the returned load fills it; for the
// uploaded source nil is returned and the preview stays empty until the
// next successful upload.
func (c *Controller) SelectSource(src model.FaqSource) *SourceLoad {
	c.source = src
	c.samples = nil
	if src != model.SourceDefault {
		return nil
	}
	return c.newLoad()
}

// Reload re-reads the default corpus when it is the active source and
// returns nil otherwise. The current preview is kept until the load lands.
func (c *Controller) Reload() *SourceLoad {
	if c.source != model.SourceDefault {
		return nil
	}
	return c.newLoad()
}

func (c *Controller) newLoad() *SourceLoad {
	c.inFlight++
	return &SourceLoad{size: c.defaultSize, defaults: c.defaults}
}

// ApplySamples installs a finished default-corpus load. Results arriving
// after the user switched away from the default source are dropped.
func (c *Controller) ApplySamples(res SamplesLoaded) []Notice {
	c.done()

	if c.source != model.SourceDefault {
		return nil
	}
	if res.Err != nil {
		c.log.Warn("default FAQs unavailable", zap.Error(res.Err))
		c.samples = nil
		return []Notice{defaultsUnavailableNotice()}
	}
	c.samples = res.Entries
	return nil
}

// =============================================================================
// FILE UPLOAD
// =============================================================================

// SelectFile records the file to upload. Nothing is validated here.
func (c *Controller) SelectFile(f faq.PendingFile) {
	c.pending = f
}

// PendingFile returns the file awaiting upload.
func (c *Controller) PendingFile() faq.PendingFile {
	return c.pending
}

// Upload validates the pending file and returns the upload to run.
//
// Validation happens here, before any network call: a missing file, an
// unreadable file or a header without both required columns produces
// notices and a nil job, and the pending file stays selected. Once a job
// is returned the pending file is cleared.
func (c *Controller) Upload() (*UploadJob, []Notice) {
	f := c.pending
	if f.IsZero() {
		return nil, []Notice{noFileNotice()}
	}

	data, err := readAll(f)
	if err != nil {
		c.log.Info("upload rejected", zap.String("file", f.Name), zap.Error(err))
		return nil, []Notice{unreadableNotice(f.Name, err)}
	}

	table, err := faq.Parse(bytes.NewReader(data))
	if err == nil {
		err = table.Validate()
	}
	if err != nil {
		c.log.Info("upload rejected", zap.String("file", f.Name), zap.Error(err))
		return nil, []Notice{invalidCSVNotice()}
	}

	var notices []Notice
	if !f.HasAcceptedExtension() || !f.LooksLikeText() {
		detected, _ := f.Sniff()
		c.log.Info("unexpected upload type", zap.String("file", f.Name), zap.String("mime", detected))
		notices = append(notices, fileTypeNotice(f.Name, detected))
	}

	c.pending = faq.PendingFile{}
	c.inFlight++

	return &UploadJob{
		Name:    f.Name,
		data:    data,
		entries: table.Entries(),
		backend: c.backend,
	}, notices
}

// ApplyUpload applies a finished upload. On success the source becomes
// uploaded and the preview is a random sample of the parsed entries; on
// failure the source and preview are left alone.
func (c *Controller) ApplyUpload(res UploadResult) []Notice {
	c.done()

	if res.Err != nil {
		c.log.Warn("upload failed", zap.String("file", res.Name), zap.Error(res.Err))
		return []Notice{uploadFailedNotice()}
	}

	c.source = model.SourceUploaded
	c.samples = faq.RandomSample(res.Entries, c.uploadSize, c.rng)
	c.log.Info("upload accepted", zap.String("file", res.Name), zap.Int("entries", len(res.Entries)))
	return []Notice{uploadedNotice()}
}

// =============================================================================
// VIEW
// =============================================================================

// View is a snapshot of the controller state for rendering.
type View struct {
	Transcript  []model.Message
	Source      model.FaqSource
	Samples     []model.FaqEntry
	Input       string
	PendingName string
	// ShowUploadPrompt is set when the uploaded source has nothing to show.
	ShowUploadPrompt bool
	// InFlight counts network jobs handed out and not yet applied.
	InFlight int
}

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	return View{
		Transcript:       c.transcript.All(),
		Source:           c.source,
		Samples:          faq.First(c.samples, len(c.samples)),
		Input:            c.input,
		PendingName:      c.pending.Name,
		ShowUploadPrompt: c.source == model.SourceUploaded && len(c.samples) == 0,
		InFlight:         c.inFlight,
	}
}

// Busy reports whether any network job is outstanding.
func (c *Controller) Busy() bool {
	return c.inFlight > 0
}

func (c *Controller) done() {
	if c.inFlight > 0 {
		c.inFlight--
	}
}

func readAll(f faq.PendingFile) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("file is empty")
	}
	return data, nil
}
