package database

import (
	"database/sql"
	"time"
)

// User represents one chat-platform identity persisted in the users table.
// Display fields mirror the Telegram profile and are overwritten on every
// sync; FirstSeen is set once at creation and LaunchedWebapp is only ever
// raised, never reset.
type User struct {
	ID         uint  `db:"id"`
	TelegramID int64 `db:"telegram_id"`

	Username     sql.NullString `db:"username"`
	FirstName    sql.NullString `db:"first_name"`
	LastName     sql.NullString `db:"last_name"`
	LanguageCode sql.NullString `db:"language_code"`

	IsPremium             bool `db:"is_premium"`
	AddedToAttachmentMenu bool `db:"added_to_attachment_menu"`
	LaunchedWebapp        bool `db:"launched_webapp"`

	FirstSeen       time.Time `db:"first_seen"`
	LastInteraction time.Time `db:"last_interaction"`
}

// Profile carries the platform-sourced fields accepted by the upsert path.
// The field set is a fixed allow-list; nothing outside it ever reaches the
// users table. Empty strings are persisted as NULL.
type Profile struct {
	TelegramID            int64
	Username              string
	FirstName             string
	LastName              string
	LanguageCode          string
	IsPremium             bool
	AddedToAttachmentMenu bool
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
