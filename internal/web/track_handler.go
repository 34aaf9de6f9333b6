package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"miniapp-bot/internal/database"
)

type trackLaunchRequest struct {
	UserID *int64 `json:"user_id"`
}

// newTrackLaunchHandler returns the handler for POST /api/track-launch.
// The body must be JSON with a user_id field; anything else is a client
// error and never reaches the store. Unknown user IDs are accepted: marking
// a launch for a user the bot has not seen is a store-level no-op.
func newTrackLaunchHandler(store database.Store, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req trackLaunchRequest
		if err := c.BodyParser(&req); err != nil || req.UserID == nil {
			log.Debug("Rejected invalid track-launch request", "error", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid data",
			})
		}

		if err := store.MarkWebappLaunched(c.Context(), *req.UserID); err != nil {
			log.Error("Failed to mark webapp launch", "error", err, "user_id", *req.UserID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Internal error",
			})
		}

		return c.JSON(fiber.Map{"status": "success"})
	}
}
