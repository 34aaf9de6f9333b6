// Package handlers contains Telegram bot command handlers along with their
// registration logic.
package handlers

import (
	"log/slog"

	"miniapp-bot/internal/config"
	"miniapp-bot/internal/database"
	"miniapp-bot/internal/texts"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
	Texts  *texts.Resolver
}
