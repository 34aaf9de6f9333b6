// Package bot implements the application core: lifecycle management and
// orchestration of the Telegram front end, the web gateway, and the
// scheduler.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"miniapp-bot/internal/config"
	"miniapp-bot/internal/database"
	"miniapp-bot/internal/web"
)

const shutdownTimeout = 10 * time.Second

// Bot represents the main application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	cfg       *config.Config
	db        *sqlx.DB
	store     database.Store
	tgBot     *tgbot.Bot
	web       *web.Server
	scheduler *Scheduler
}

// New creates a new application instance with all required dependencies.
func New(
	logger *slog.Logger,
	cfg *config.Config,
	db *sqlx.DB,
	store database.Store,
	tgBot *tgbot.Bot,
	webServer *web.Server,
	scheduler *Scheduler,
) *Bot {
	return &Bot{
		logger:    logger.With("component", "orchestrator"),
		cfg:       cfg,
		db:        db,
		store:     store,
		tgBot:     tgBot,
		web:       webServer,
		scheduler: scheduler,
	}
}

// Run starts all components and blocks until the context is cancelled or a
// component fails. Any member failing cancels the rest.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting application...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener...")

		b.tgBot.Start(gCtx)
		b.logger.Info("Telegram bot listener stopped.")

		if gCtx.Err() == nil {
			b.logger.Warn("Telegram bot listener stopped unexpectedly without context cancellation.")
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		listenErr := make(chan error, 1)
		go func() {
			listenErr <- b.web.Listen()
		}()

		select {
		case err := <-listenErr:
			if err != nil {
				b.logger.Error("Web gateway failed", "error", err)
				return fmt.Errorf("web gateway failed: %w", err)
			}
			return nil
		case <-gCtx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := b.web.Shutdown(shutdownCtx); err != nil {
				b.logger.Error("Error shutting down web gateway", "error", err)
			}
			return nil
		}
	})

	g.Go(func() error {
		b.logger.Info("Starting scheduler...")
		if err := b.scheduler.Start(); err != nil {
			b.logger.Error("Failed to start scheduler", "error", err)
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	b.logger.Info("Application running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Application stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Application stopped gracefully.")
	return nil
}
