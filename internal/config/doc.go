// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and validation for faqchat.
//
// Supports TOML, JSON and YAML configuration files, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - EndpointsConfig: Chat, upload and asset endpoint addresses
//   - FAQConfig: Default corpus location and preview sizes
//
// # Configuration Precedence
//
// Configuration is loaded from (highest precedence first):
//   - Environment variables (FAQCHAT_*, and VITE_CHAT_API_URL / VITE_UPLOAD_API_URL)
//   - .env in the working directory
//   - --config PATH, or ~/.faqchat/config.{toml,json,yaml}
//   - Built-in defaults
//
// The loaded *Config is handed to the components that need it; there is no
// package-level instance.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	client := api.NewClient(cfg.Endpoints.ChatURL, cfg.Endpoints.UploadURL)
package config
