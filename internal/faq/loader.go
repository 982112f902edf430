// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package faq

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/jeranaias/faqchat/internal/model"
)

// DefaultAssetPath is where the default FAQ CSV is served relative to the
// asset base URL.
const DefaultAssetPath = "/default_faqs.csv"

// DefaultCacheTTL is how long a parsed default corpus is reused.
const DefaultCacheTTL = 5 * time.Minute

// maxDefaultSize caps the size of a fetched default corpus.
const maxDefaultSize = 5 * 1024 * 1024

const cacheKey = "default"

//go:embed default_faqs.csv
var embeddedDefault []byte

// EmbeddedDefault returns the default FAQ CSV bundled into the binary.
func EmbeddedDefault() []byte {
	out := make([]byte, len(embeddedDefault))
	copy(out, embeddedDefault)
	return out
}

// DefaultCSV returns the default FAQ CSV from localPath, or the bundled copy
// when localPath is empty.
func DefaultCSV(localPath string) ([]byte, error) {
	if localPath == "" {
		return EmbeddedDefault(), nil
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read default FAQs: %w", err)
	}
	return data, nil
}

// =============================================================================
// DEFAULT LOADER
// =============================================================================

// LoaderConfig configures a DefaultLoader.
type LoaderConfig struct {
	// AssetBaseURL, when set, is the host serving DefaultAssetPath.
	AssetBaseURL string
	// LocalPath, when set and AssetBaseURL is empty, is read from disk.
	LocalPath string
	// CacheTTL controls reuse of the parsed corpus. Zero uses DefaultCacheTTL.
	CacheTTL time.Duration

	HTTPClient *http.Client
	Logger     *zap.Logger
}

// DefaultLoader fetches and parses the default FAQ corpus.
type DefaultLoader struct {
	cfg    LoaderConfig
	client *http.Client
	cache  *cache.Cache
	log    *zap.Logger
}

// NewDefaultLoader creates a loader.
func NewDefaultLoader(cfg LoaderConfig) *DefaultLoader {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &DefaultLoader{
		cfg:    cfg,
		client: client,
		cache:  cache.New(ttl, 2*ttl),
		log:    log.Named("faq"),
	}
}

// Origin describes where the corpus is read from.
func (l *DefaultLoader) Origin() string {
	switch {
	case l.cfg.AssetBaseURL != "":
		return strings.TrimSuffix(l.cfg.AssetBaseURL, "/") + DefaultAssetPath
	case l.cfg.LocalPath != "":
		return l.cfg.LocalPath
	default:
		return "embedded"
	}
}

// LocalPath returns the watched file path, or "" when not reading from disk.
func (l *DefaultLoader) LocalPath() string {
	if l.cfg.AssetBaseURL != "" {
		return ""
	}
	return l.cfg.LocalPath
}

// Load returns every entry of the default corpus in file order.
func (l *DefaultLoader) Load(ctx context.Context) ([]model.FaqEntry, error) {
	if cached, ok := l.cache.Get(cacheKey); ok {
		entries := cached.([]model.FaqEntry)
		return First(entries, len(entries)), nil
	}

	data, err := l.read(ctx)
	if err != nil {
		return nil, err
	}

	table, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse default FAQs: %w", err)
	}

	entries := table.Entries()
	l.cache.SetDefault(cacheKey, entries)
	l.log.Debug("default FAQs loaded",
		zap.String("origin", l.Origin()),
		zap.Int("entries", len(entries)))

	return First(entries, len(entries)), nil
}

// Invalidate drops the cached corpus so the next Load re-reads it.
func (l *DefaultLoader) Invalidate() {
	l.cache.Delete(cacheKey)
}

func (l *DefaultLoader) read(ctx context.Context) ([]byte, error) {
	if l.cfg.AssetBaseURL == "" {
		return DefaultCSV(l.cfg.LocalPath)
	}

	url := l.Origin()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch default FAQs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch default FAQs: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDefaultSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read default FAQs: %w", err)
	}
	return data, nil
}
