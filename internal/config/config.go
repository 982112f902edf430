// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete faqchat configuration.
type Config struct {
	Endpoints EndpointsConfig `toml:"endpoints" json:"endpoints" yaml:"endpoints"`
	FAQ       FAQConfig       `toml:"faq" json:"faq" yaml:"faq"`
	UI        UIConfig        `toml:"ui" json:"ui" yaml:"ui"`
	Log       LogConfig       `toml:"log" json:"log" yaml:"log"`
	Server    ServerConfig    `toml:"server" json:"server" yaml:"server"`
}

// EndpointsConfig holds the backend addresses.
type EndpointsConfig struct {
	// ChatURL receives {user_input, faq_source} and answers {response}
	ChatURL string `toml:"chat_url" json:"chat_url" yaml:"chat_url" validate:"omitempty,url"`
	// UploadURL receives the multipart FAQ upload
	UploadURL string `toml:"upload_url" json:"upload_url" yaml:"upload_url" validate:"omitempty,url"`
	// AssetBaseURL serves /default_faqs.csv; empty reads the default corpus locally
	AssetBaseURL string `toml:"asset_base_url" json:"asset_base_url" yaml:"asset_base_url" validate:"omitempty,url"`
	// TimeoutSecs bounds each request; 0 disables the client timeout
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs" validate:"gte=0,lte=600"`
}

// FAQConfig controls the default corpus and preview sizes.
type FAQConfig struct {
	// DefaultPath is a local default corpus; empty uses the bundled copy
	DefaultPath       string `toml:"default_path" json:"default_path" yaml:"default_path"`
	DefaultSampleSize int    `toml:"default_sample_size" json:"default_sample_size" yaml:"default_sample_size" validate:"gte=1,lte=100"`
	UploadSampleSize  int    `toml:"upload_sample_size" json:"upload_sample_size" yaml:"upload_sample_size" validate:"gte=1,lte=100"`
	CacheTTLSecs      int    `toml:"cache_ttl_secs" json:"cache_ttl_secs" yaml:"cache_ttl_secs" validate:"gte=0"`
	// Watch reloads the preview when DefaultPath changes on disk
	Watch bool `toml:"watch" json:"watch" yaml:"watch"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// Theme is "auto", "dark" or "light"
	Theme string `toml:"theme" json:"theme" yaml:"theme" validate:"oneof=auto dark light"`
	// Markdown renders assistant replies as markdown
	Markdown bool `toml:"markdown" json:"markdown" yaml:"markdown"`
}

// LogConfig controls the log file.
type LogConfig struct {
	// Path of the log file; empty uses ~/.faqchat/faqchat.log
	Path       string `toml:"path" json:"path" yaml:"path"`
	Level      string `toml:"level" json:"level" yaml:"level" validate:"oneof=debug info warn warning error"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `toml:"max_backups" json:"max_backups" yaml:"max_backups" validate:"gte=0"`
}

// ServerConfig configures the default-corpus asset server.
type ServerConfig struct {
	Addr string `toml:"addr" json:"addr" yaml:"addr" validate:"required,hostname_port"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Endpoints: EndpointsConfig{
			TimeoutSecs: 60,
		},
		FAQ: FAQConfig{
			DefaultSampleSize: 5,
			UploadSampleSize:  10,
			CacheTTLSecs:      300,
			Watch:             true,
		},
		UI: UIConfig{
			Theme:    "auto",
			Markdown: true,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:5173",
		},
	}
}

// Timeout returns the request timeout.
func (e EndpointsConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSecs) * time.Second
}

// CacheTTL returns the default corpus cache lifetime.
func (f FAQConfig) CacheTTL() time.Duration {
	return time.Duration(f.CacheTTLSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the faqchat configuration directory path.
// FAQCHAT_HOME overrides the default ~/.faqchat.
func ConfigDir() (string, error) {
	if dir := os.Getenv("FAQCHAT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".faqchat"), nil
}

// CandidatePaths returns the config files searched, in order.
func CandidatePaths() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return []string{
		filepath.Join(dir, "config.toml"),
		filepath.Join(dir, "config.json"),
		filepath.Join(dir, "config.yaml"),
	}, nil
}

// LogPath returns the configured log file, or the default one.
func (c *Config) LogPath() string {
	if c.Log.Path != "" {
		return c.Log.Path
	}
	dir, err := ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "faqchat.log")
	}
	return filepath.Join(dir, "faqchat.log")
}

// =============================================================================
// LOADING
// =============================================================================

// Load builds the configuration. An explicit path must exist; otherwise the
// first existing candidate file is used, and defaults apply when none exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, err
		}
	} else {
		candidates, err := CandidatePaths()
		if err != nil {
			return nil, err
		}
		for _, candidate := range candidates {
			if _, statErr := os.Stat(candidate); statErr != nil {
				continue
			}
			if err := LoadFile(cfg, candidate); err != nil {
				return nil, err
			}
			break
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile decodes the file at path into cfg, choosing the format by
// extension. Unknown extensions are read as TOML.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode JSON file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode YAML file %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
		}
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped and existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	// FAQCHAT_CHAT_API_URL wins over the VITE_ name
	if url := firstEnv("FAQCHAT_CHAT_API_URL", "VITE_CHAT_API_URL"); url != "" {
		c.Endpoints.ChatURL = url
	}
	if url := firstEnv("FAQCHAT_UPLOAD_API_URL", "VITE_UPLOAD_API_URL"); url != "" {
		c.Endpoints.UploadURL = url
	}
	if url := os.Getenv("FAQCHAT_ASSET_BASE_URL"); url != "" {
		c.Endpoints.AssetBaseURL = url
	}
	if secs := os.Getenv("FAQCHAT_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil {
			c.Endpoints.TimeoutSecs = n
		}
	}
	if path := os.Getenv("FAQCHAT_DEFAULT_FAQ_PATH"); path != "" {
		c.FAQ.DefaultPath = path
	}
	if level := os.Getenv("FAQCHAT_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if theme := os.Getenv("FAQCHAT_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// SetDefaults fills zero values that have no meaningful zero.
func (c *Config) SetDefaults() {
	def := Default()
	if c.FAQ.DefaultSampleSize == 0 {
		c.FAQ.DefaultSampleSize = def.FAQ.DefaultSampleSize
	}
	if c.FAQ.UploadSampleSize == 0 {
		c.FAQ.UploadSampleSize = def.FAQ.UploadSampleSize
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	c.UI.Theme = strings.ToLower(c.UI.Theme)
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Endpoints.ChatURL = strings.TrimSpace(c.Endpoints.ChatURL)
	c.Endpoints.UploadURL = strings.TrimSpace(c.Endpoints.UploadURL)
	c.Endpoints.AssetBaseURL = strings.TrimSuffix(strings.TrimSpace(c.Endpoints.AssetBaseURL), "/")
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ErrEndpointsMissing is returned by RequireEndpoints.
var ErrEndpointsMissing = errors.New("chat and upload endpoints must be configured")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config key, e.g. endpoints.chat_url
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make(ValidateErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   strings.TrimPrefix(fe.Namespace(), "Config."),
			Message: describe(fe),
		})
	}
	return errs
}

// RequireEndpoints reports an error unless both backend endpoints are set.
func (c *Config) RequireEndpoints() error {
	var missing []string
	if c.Endpoints.ChatURL == "" {
		missing = append(missing, "endpoints.chat_url (FAQCHAT_CHAT_API_URL)")
	}
	if c.Endpoints.UploadURL == "" {
		missing = append(missing, "endpoints.upload_url (FAQCHAT_UPLOAD_API_URL)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrEndpointsMissing, strings.Join(missing, ", "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "url":
		return fmt.Sprintf("invalid URL %q", fe.Value())
	case "oneof":
		return fmt.Sprintf("invalid value %q, must be one of: %s", fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("must be at least %s (got %v)", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be at most %s (got %v)", fe.Param(), fe.Value())
	case "required":
		return "is required"
	case "hostname_port":
		return fmt.Sprintf("invalid address %q, want host:port", fe.Value())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

// String returns the configuration as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
