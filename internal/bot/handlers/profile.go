package handlers

import (
	"github.com/go-telegram/bot/models"

	"miniapp-bot/internal/database"
)

// profileFromUser maps a Telegram sender onto the store's profile allow-list.
// Only the enumerated fields ever reach the database; anything else Telegram
// attaches to the user object is ignored.
func profileFromUser(from *models.User) *database.Profile {
	return &database.Profile{
		TelegramID:            from.ID,
		Username:              from.Username,
		FirstName:             from.FirstName,
		LastName:              from.LastName,
		LanguageCode:          from.LanguageCode,
		IsPremium:             from.IsPremium,
		AddedToAttachmentMenu: from.AddedToAttachmentMenu,
	}
}
