// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/faqchat/internal/model"
)

// Configuration constants.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024

	// UploadField is the multipart field carrying the CSV file.
	UploadField = "file"
)

// Error variables for common failures.
var (
	// ErrNotConfigured indicates the endpoint address is empty.
	ErrNotConfigured = errors.New("endpoint not configured")

	// ErrUnreachable wraps transport failures (DNS, refused, timeout).
	ErrUnreachable = errors.New("endpoint unreachable")
)

// StatusError reports an unexpected HTTP status.
type StatusError struct {
	Endpoint string
	Status   int
	Body     string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s returned HTTP %d: %s", e.Endpoint, e.Status, e.Body)
	}
	return fmt.Sprintf("%s returned HTTP %d", e.Endpoint, e.Status)
}

// ChatRequest is the body sent to the chat endpoint.
type ChatRequest struct {
	UserInput string          `json:"user_input"`
	FaqSource model.FaqSource `json:"faq_source"`
}

// chatResponse is decoded loosely: anything without a string "response"
// counts as an unanswered reply.
type chatResponse struct {
	Response *string `json:"response"`
}

// ChatResult is the outcome of a successful chat call.
type ChatResult struct {
	Answer string
	// HasAnswer is false when the body had no usable "response" field.
	HasAnswer bool
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the chat and upload endpoints.
type Client struct {
	chatURL    string
	uploadURL  string
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{
			Transport: c.httpClient.Transport,
			Timeout:   timeout,
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a client for the given endpoints.
func NewClient(chatURL, uploadURL string, opts ...Option) *Client {
	c := &Client{
		chatURL:    strings.TrimSpace(chatURL),
		uploadURL:  strings.TrimSpace(uploadURL),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("api")
	return c
}

// ChatURL returns the chat endpoint address.
func (c *Client) ChatURL() string { return c.chatURL }

// UploadURL returns the upload endpoint address.
func (c *Client) UploadURL() string { return c.uploadURL }

// Chat sends a question to the chat endpoint.
//
// Any 2xx response is a success; a body without a string "response" field
// yields HasAnswer=false rather than an error.
func (c *Client) Chat(ctx context.Context, query string, source model.FaqSource) (ChatResult, error) {
	if c.chatURL == "" {
		return ChatResult{}, fmt.Errorf("chat: %w", ErrNotConfigured)
	}

	body, err := json.Marshal(ChatRequest{UserInput: query, FaqSource: source})
	if err != nil {
		return ChatResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, bytes.NewReader(body))
	if err != nil {
		return ChatResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	respBody, status, err := c.do(req, "chat")
	if err != nil {
		return ChatResult{}, err
	}
	if status < 200 || status > 299 {
		return ChatResult{}, &StatusError{Endpoint: "chat", Status: status, Body: truncate(string(respBody), 200)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil || parsed.Response == nil {
		c.log.Debug("chat response without answer", zap.Int("bytes", len(respBody)))
		return ChatResult{}, nil
	}
	return ChatResult{Answer: *parsed.Response, HasAnswer: *parsed.Response != ""}, nil
}

// Upload sends the raw file as a multipart form. Only HTTP 200 succeeds.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) error {
	if c.uploadURL == "" {
		return fmt.Errorf("upload: %w", ErrNotConfigured)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(UploadField, filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	respBody, status, err := c.do(req, "upload")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &StatusError{Endpoint: "upload", Status: status, Body: truncate(string(respBody), 200)}
	}
	return nil
}

// do performs req and reads the body with a size limit.
func (c *Client) do(req *http.Request, endpoint string) ([]byte, int, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("endpoint", endpoint),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, 0, fmt.Errorf("%s: %w: %v", endpoint, ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%s: %w", endpoint, err)
	}

	c.log.Info("request finished",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	return body, resp.StatusCode, nil
}

// readResponse reads the response body with size limits to prevent memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
