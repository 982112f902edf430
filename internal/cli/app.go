// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jeranaias/faqchat/internal/api"
	"github.com/jeranaias/faqchat/internal/config"
	"github.com/jeranaias/faqchat/internal/controller"
	"github.com/jeranaias/faqchat/internal/faq"
	"github.com/jeranaias/faqchat/internal/logging"
)

// app bundles the services a command needs. It is built once per command
// from the layered configuration.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	client *api.Client
	loader *faq.DefaultLoader
}

// loadConfig reads .env files, the config file and the environment, then
// applies flag overrides.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(opts.envFiles...); err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.chatURL != "" {
		cfg.Endpoints.ChatURL = opts.chatURL
	}
	if opts.uploadURL != "" {
		cfg.Endpoints.UploadURL = opts.uploadURL
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.theme != "" {
		cfg.UI.Theme = opts.theme
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// newApp loads configuration and builds the logger, API client and default
// FAQ loader. Callers must call close.
func newApp(opts *globalOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Options{
		Path:       cfg.LogPath(),
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client := api.NewClient(cfg.Endpoints.ChatURL, cfg.Endpoints.UploadURL,
		api.WithTimeout(cfg.Endpoints.Timeout()),
		api.WithLogger(log),
	)

	loader := faq.NewDefaultLoader(faq.LoaderConfig{
		AssetBaseURL: cfg.Endpoints.AssetBaseURL,
		LocalPath:    cfg.FAQ.DefaultPath,
		CacheTTL:     cfg.FAQ.CacheTTL(),
		Logger:       log,
	})

	log.Debug("configuration loaded",
		zap.String("chat_url", client.ChatURL()),
		zap.String("upload_url", client.UploadURL()),
		zap.String("defaults", loader.Origin()),
	)

	return &app{cfg: cfg, log: log, client: client, loader: loader}, nil
}

// controller builds a fresh chat controller over the app's services.
func (a *app) controller() *controller.Controller {
	return controller.New(a.client, a.loader,
		controller.WithSampleSizes(a.cfg.FAQ.DefaultSampleSize, a.cfg.FAQ.UploadSampleSize),
		controller.WithLogger(a.log),
	)
}

// watchDefaults starts a watcher on the local default FAQ file when one is
// configured and watching is enabled. The returned channel receives a value
// after each settled change; it is nil when nothing is watched.
func (a *app) watchDefaults(ctx context.Context) (<-chan struct{}, error) {
	path := a.loader.LocalPath()
	if !a.cfg.FAQ.Watch || path == "" {
		return nil, nil
	}

	reloads := make(chan struct{}, 1)
	w, err := faq.NewWatcher(path, faq.DefaultDebounce, func() {
		a.loader.Invalidate()
		select {
		case reloads <- struct{}{}:
		default:
		}
	}, a.log)
	if err != nil {
		return nil, err
	}

	go func() {
		<-ctx.Done()
		w.Close()
	}()
	go w.Run(ctx)

	return reloads, nil
}

func (a *app) close() {
	_ = a.log.Sync()
}
