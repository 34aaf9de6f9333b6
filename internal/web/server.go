// Package web implements the web gateway: it serves the mini-app's static
// assets and exposes the launch-tracking API backed by the user store.
package web

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"miniapp-bot/internal/config"
	"miniapp-bot/internal/database"
)

// Server wraps the fiber application and its listen address.
type Server struct {
	app    *fiber.App
	addr   string
	logger *slog.Logger
}

// NewServer assembles the gateway: recovery and request logging middleware,
// the tracking API, the health check, and the two static asset roots. Routes
// are registered before the catch-all static handler so API paths are never
// shadowed by files.
func NewServer(cfg config.WebConfig, store database.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "web")

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			return c.Status(code).JSON(fiber.Map{"status": "error", "message": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(requestLogger(log))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := store.Ping(c.Context()); err != nil {
			log.Error("Health check failed", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post("/api/track-launch", newTrackLaunchHandler(store, log))

	app.Static("/translations/webapp", cfg.TranslationsDir)
	app.Static("/", cfg.AssetsDir, fiber.Static{Index: "index.html"})

	return &Server{app: app, addr: cfg.ListenAddr, logger: log}
}

// App exposes the underlying fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP traffic until Shutdown is called or the
// listener fails.
func (s *Server) Listen() error {
	s.logger.Info("Web gateway listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the server, honoring the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down web gateway...")
	return s.app.ShutdownWithContext(ctx)
}
