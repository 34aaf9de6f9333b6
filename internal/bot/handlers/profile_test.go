package handlers

import (
	"testing"

	"github.com/go-telegram/bot/models"
)

func TestProfileFromUser(t *testing.T) {
	t.Parallel()

	from := &models.User{
		ID:                    12345,
		Username:              "testuser",
		FirstName:             "Test",
		LastName:              "User",
		LanguageCode:          "ru",
		IsPremium:             true,
		AddedToAttachmentMenu: true,
		IsBot:                 true,
	}

	profile := profileFromUser(from)

	if profile.TelegramID != 12345 {
		t.Errorf("TelegramID = %d, want 12345", profile.TelegramID)
	}
	if profile.Username != "testuser" {
		t.Errorf("Username = %q, want %q", profile.Username, "testuser")
	}
	if profile.FirstName != "Test" || profile.LastName != "User" {
		t.Errorf("name = %q %q, want Test User", profile.FirstName, profile.LastName)
	}
	if profile.LanguageCode != "ru" {
		t.Errorf("LanguageCode = %q, want %q", profile.LanguageCode, "ru")
	}
	if !profile.IsPremium || !profile.AddedToAttachmentMenu {
		t.Errorf("flags = %+v, want premium and attachment menu set", profile)
	}
}

func TestProfileFromUserEmptyOptionalFields(t *testing.T) {
	t.Parallel()

	profile := profileFromUser(&models.User{ID: 67890, FirstName: "Solo"})

	if profile.TelegramID != 67890 {
		t.Errorf("TelegramID = %d, want 67890", profile.TelegramID)
	}
	if profile.Username != "" || profile.LastName != "" || profile.LanguageCode != "" {
		t.Errorf("optional fields should stay empty, got %+v", profile)
	}
}
