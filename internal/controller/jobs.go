// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"bytes"
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/faqchat/internal/faq"
	"github.com/jeranaias/faqchat/internal/model"
)

// =============================================================================
// CHAT EXCHANGE
// =============================================================================

// Exchange is one outstanding chat request.
type Exchange struct {
	// Request is the user message being answered.
	Request model.Message
	// Source is the FAQ source active when the message was sent.
	Source model.FaqSource

	backend Backend
	log     *zap.Logger
}

// Reply is the outcome of an Exchange. Content is always displayable:
// the answer, the fallback text or the transport error text.
type Reply struct {
	RequestID string
	Content   string
	Err       error
	Elapsed   time.Duration
}

// Run performs the chat call. It never fails; errors are folded into the
// reply text.
func (e *Exchange) Run(ctx context.Context) Reply {
	start := time.Now()
	res, err := e.backend.Chat(ctx, e.Request.Content, e.Source)
	reply := Reply{RequestID: e.Request.ID, Err: err, Elapsed: time.Since(start)}

	switch {
	case err != nil:
		e.log.Debug("chat failed", zap.String("request_id", e.Request.ID), zap.Error(err))
		reply.Content = ErrorReply
	case !res.HasAnswer:
		reply.Content = FallbackReply
	default:
		reply.Content = res.Answer
	}
	return reply
}

// =============================================================================
// DEFAULT CORPUS LOAD
// =============================================================================

// SourceLoad is an outstanding read of the default corpus.
type SourceLoad struct {
	size     int
	defaults DefaultCorpus
}

// SamplesLoaded is the outcome of a SourceLoad.
type SamplesLoaded struct {
	Entries []model.FaqEntry
	Err     error
}

// Run loads the default corpus and keeps its leading entries.
func (l *SourceLoad) Run(ctx context.Context) SamplesLoaded {
	entries, err := l.defaults.Load(ctx)
	if err != nil {
		return SamplesLoaded{Err: err}
	}
	return SamplesLoaded{Entries: faq.First(entries, l.size)}
}

// =============================================================================
// UPLOAD
// =============================================================================

// UploadJob is an outstanding upload of a validated file.
type UploadJob struct {
	Name string

	data    []byte
	entries []model.FaqEntry
	backend Backend
}

// UploadResult is the outcome of an UploadJob.
type UploadResult struct {
	Name    string
	Entries []model.FaqEntry
	Err     error
}

// Run sends the raw file bytes.
func (j *UploadJob) Run(ctx context.Context) UploadResult {
	err := j.backend.Upload(ctx, j.Name, bytes.NewReader(j.data))
	return UploadResult{Name: j.Name, Entries: j.entries, Err: err}
}
