package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Store defines the interface for user-record persistence. It is the only
// writer of the users table; methods accept context.Context for cancellation
// and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// UpsertUser creates or updates the user identified by the profile's
	// Telegram ID and returns the resulting record. Creation sets
	// FirstSeen = LastInteraction = now with LaunchedWebapp false; an update
	// overwrites the mirrored profile fields and bumps LastInteraction.
	UpsertUser(ctx context.Context, profile *Profile) (*User, error)

	// MarkWebappLaunched sets launched_webapp for an existing user and bumps
	// LastInteraction. Unknown IDs are a no-op; no record is created.
	MarkWebappLaunched(ctx context.Context, telegramID int64) error

	// GetUserByTelegramID retrieves a user by Telegram ID. Returns nil, nil
	// if not found.
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*User, error)

	// CountUsers returns the total number of user records.
	CountUsers(ctx context.Context) (int64, error)

	// CountWebappLaunches returns the number of users that have opened the
	// web application at least once.
	CountWebappLaunches(ctx context.Context) (int64, error)
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

const userColumns = `id, telegram_id, username, first_name, last_name, language_code,
	is_premium, added_to_attachment_menu, launched_webapp, first_seen, last_interaction`

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// UpsertUser creates or updates a user record inside a transaction. The
// telegram_id unique index is the backstop against duplicate rows: if a
// concurrent caller inserts the same ID between our read and our insert, the
// insert fails with a unique violation and the operation is retried once,
// this time taking the update path.
func (s *sqlxStore) UpsertUser(ctx context.Context, profile *Profile) (*User, error) {
	if profile == nil {
		return nil, fmt.Errorf("cannot upsert nil profile")
	}
	if profile.TelegramID == 0 {
		return nil, fmt.Errorf("profile must have a non-zero telegram_id")
	}

	user, err := s.upsertUserTx(ctx, profile)
	if err != nil && isUniqueViolation(err) {
		s.logger.DebugContext(ctx, "Upsert lost insert race, retrying as update",
			"telegram_id", profile.TelegramID)
		user, err = s.upsertUserTx(ctx, profile)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *sqlxStore) upsertUserTx(ctx context.Context, profile *Profile) (*User, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for user upsert",
			"telegram_id", profile.TelegramID, "error", err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	now := time.Now().UTC()

	var user User
	err = tx.GetContext(ctx, &user,
		"SELECT "+userColumns+" FROM users WHERE telegram_id = ?", profile.TelegramID)

	created := false
	switch {
	case errors.Is(err, sql.ErrNoRows):
		created = true
		user = User{
			TelegramID:            profile.TelegramID,
			Username:              nullString(profile.Username),
			FirstName:             nullString(profile.FirstName),
			LastName:              nullString(profile.LastName),
			LanguageCode:          nullString(profile.LanguageCode),
			IsPremium:             profile.IsPremium,
			AddedToAttachmentMenu: profile.AddedToAttachmentMenu,
			LaunchedWebapp:        false,
			FirstSeen:             now,
			LastInteraction:       now,
		}

		result, execErr := tx.NamedExecContext(ctx, `
			INSERT INTO users (telegram_id, username, first_name, last_name, language_code,
				is_premium, added_to_attachment_menu, launched_webapp, first_seen, last_interaction)
			VALUES (:telegram_id, :username, :first_name, :last_name, :language_code,
				:is_premium, :added_to_attachment_menu, :launched_webapp, :first_seen, :last_interaction)`,
			&user)
		if execErr != nil {
			return nil, fmt.Errorf("failed to insert user %d: %w", profile.TelegramID, execErr)
		}

		if id, idErr := result.LastInsertId(); idErr == nil {
			//nolint:gosec // auto-increment IDs fit in uint
			user.ID = uint(id)
		} else {
			s.logger.WarnContext(ctx, "Could not retrieve last insert ID after creating user",
				"telegram_id", profile.TelegramID, "error", idErr)
		}

	case err != nil:
		s.logger.ErrorContext(ctx, "Error reading user for upsert",
			"telegram_id", profile.TelegramID, "error", err)
		return nil, fmt.Errorf("failed to read user %d: %w", profile.TelegramID, err)

	default:
		user.Username = nullString(profile.Username)
		user.FirstName = nullString(profile.FirstName)
		user.LastName = nullString(profile.LastName)
		user.LanguageCode = nullString(profile.LanguageCode)
		user.IsPremium = profile.IsPremium
		user.AddedToAttachmentMenu = profile.AddedToAttachmentMenu
		user.LastInteraction = now

		if _, execErr := tx.NamedExecContext(ctx, `
			UPDATE users SET
				username = :username,
				first_name = :first_name,
				last_name = :last_name,
				language_code = :language_code,
				is_premium = :is_premium,
				added_to_attachment_menu = :added_to_attachment_menu,
				last_interaction = :last_interaction
			WHERE telegram_id = :telegram_id`, &user); execErr != nil {
			return nil, fmt.Errorf("failed to update user %d: %w", profile.TelegramID, execErr)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit user upsert",
			"telegram_id", profile.TelegramID, "error", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	operation := "updated"
	if created {
		operation = "created"
	}
	s.logger.DebugContext(ctx, "User upserted successfully",
		"operation", operation, "telegram_id", profile.TelegramID)
	return &user, nil
}

// MarkWebappLaunched raises the launched_webapp flag for an existing user.
// A single UPDATE keeps the operation atomic; affecting zero rows means the
// user was never seen, which is deliberately not an error.
func (s *sqlxStore) MarkWebappLaunched(ctx context.Context, telegramID int64) error {
	if telegramID == 0 {
		return fmt.Errorf("telegram_id cannot be zero")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET launched_webapp = ?, last_interaction = ?
		WHERE telegram_id = ?`, true, time.Now().UTC(), telegramID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error marking webapp launch",
			"telegram_id", telegramID, "error", err)
		return fmt.Errorf("failed to mark webapp launch for user %d: %w", telegramID, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		s.logger.DebugContext(ctx, "Webapp launch for unknown user, skipping",
			"telegram_id", telegramID)
		return nil
	}

	s.logger.DebugContext(ctx, "Marked webapp launch", "telegram_id", telegramID)
	return nil
}

// GetUserByTelegramID retrieves a user by Telegram ID. Returns nil, nil if
// no such user exists.
func (s *sqlxStore) GetUserByTelegramID(ctx context.Context, telegramID int64) (*User, error) {
	if telegramID == 0 {
		return nil, fmt.Errorf("telegram_id cannot be zero")
	}

	var user User
	err := s.db.GetContext(ctx, &user,
		"SELECT "+userColumns+" FROM users WHERE telegram_id = ?", telegramID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No user found", "telegram_id", telegramID)
		return nil, nil

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user by Telegram ID",
			"telegram_id", telegramID, "error", err)
		return nil, fmt.Errorf("failed to get user %d: %w", telegramID, err)
	}

	return &user, nil
}

// CountUsers returns the total number of user records.
func (s *sqlxStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CountWebappLaunches returns the number of users with launched_webapp set.
func (s *sqlxStore) CountWebappLaunches(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM users WHERE launched_webapp = ?", true); err != nil {
		return 0, fmt.Errorf("failed to count webapp launches: %w", err)
	}
	return count, nil
}

// isUniqueViolation reports whether err is a unique-constraint failure from
// MySQL (error 1062) or from the SQLite driver used in tests.
func isUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
