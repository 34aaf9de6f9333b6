// Package main contains the entrypoint for the mini-app bot application.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"

	"miniapp-bot/internal/bot"
	"miniapp-bot/internal/bot/handlers"
	"miniapp-bot/internal/bot/tasks"
	"miniapp-bot/internal/config"
	"miniapp-bot/internal/database"
	"miniapp-bot/internal/logger"
	"miniapp-bot/internal/telegram"
	"miniapp-bot/internal/texts"
	"miniapp-bot/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger,
// database, texts, Telegram bot, web gateway, scheduler), handles graceful
// shutdown, and returns an exit code.
func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	if err := database.EnsureDatabase(cfg.DB); err != nil {
		log.Error("Failed to bootstrap database", "database", cfg.DB.Name, "error", err)
		return 1
	}

	db, err := database.NewDB(cfg.DB)
	if err != nil {
		log.Error("Failed to connect to database", "host", cfg.DB.Host, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	textResolver, err := texts.Load(cfg.Texts.Dir, log)
	if err != nil {
		log.Error("Failed to load text bundles", "dir", cfg.Texts.Dir, "error", err)
		return 1
	}

	hDeps := handlers.HandlerDeps{
		Logger: log,
		Config: cfg,
		Store:  store,
		Texts:  textResolver,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Bot.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	if err := telegram.SetupCommands(ctx, tg, log); err != nil {
		// The bot still works without a published menu.
		log.Warn("Failed to publish bot command menu", "error", err)
	}

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	webServer := web.NewServer(cfg.Web, store, log)

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Store:  store,
	}))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.New(log, cfg, db, store, tg, webServer, sched)

	log.Info("Starting mini-app bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Application stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Application stopped gracefully.")
	return 0
}
