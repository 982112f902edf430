// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/jeranaias/faqchat/internal/faq"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = "127.0.0.1:5173"

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout = 5 * time.Second

	// MaxRequestBodySize caps request bodies; no endpoint accepts one.
	MaxRequestBodySize = 64 * 1024
)

// ============================================================================
// SERVER
// ============================================================================

// Config configures the asset server.
type Config struct {
	Addr string
	// LocalPath is the default FAQ file. Empty serves the embedded copy.
	LocalPath string
	// AllowOrigins is the CORS origin list, "*" when empty.
	AllowOrigins string
	Version      string
	Logger       *zap.Logger
}

// Server serves the default FAQ resource.
type Server struct {
	app   *fiber.App
	cfg   Config
	log   *zap.Logger
	start time.Time
}

// New creates a server with its routes registered.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "faqchat",
		BodyLimit:             MaxRequestBodySize,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
	})

	s := &Server{
		app:   app,
		cfg:   cfg,
		log:   log.Named("server"),
		start: time.Now(),
	}

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET, HEAD, OPTIONS",
	}))
	app.Use(s.requestLogger())

	s.registerRoutes()
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.cfg.Addr)
	}()

	s.log.Info("serving default FAQs",
		zap.String("addr", s.cfg.Addr),
		zap.String("source", s.source()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) registerRoutes() {
	s.app.Get(faq.DefaultAssetPath, s.handleDefaultFAQs)
	s.app.Get("/health", s.handleHealth)
}

// ============================================================================
// HANDLERS
// ============================================================================

// handleDefaultFAQs reads the file on every request so edits show up
// without a restart.
func (s *Server) handleDefaultFAQs(c *fiber.Ctx) error {
	data, err := faq.DefaultCSV(s.cfg.LocalPath)
	if err != nil {
		s.log.Error("default FAQs unreadable", zap.String("path", s.cfg.LocalPath), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "default FAQs unavailable")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.Send(data)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Source  string `json:"source"`
	Uptime  string `json:"uptime"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: s.cfg.Version,
		Source:  s.source(),
		Uptime:  time.Since(s.start).Round(time.Second).String(),
	})
}

func (s *Server) source() string {
	if s.cfg.LocalPath == "" {
		return "embedded"
	}
	return s.cfg.LocalPath
}

// ============================================================================
// MIDDLEWARE
// ============================================================================

// requestLogger logs method, path, status and latency of each request.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		s.log.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)))
		return err
	}
}
