package db

import (
	"database/sql"
	"time"

	"github.com/tgienger/taskflow/internal/models"
)

// CreateResetToken stores a new password reset token for a user
func (db *DB) CreateResetToken(userID int64, token string, expiresAt time.Time) (*models.PasswordResetToken, error) {
	result, err := db.Exec(`
		INSERT INTO password_reset_tokens (user_id, token, expires_at) VALUES (?, ?, ?)
	`, userID, token, expiresAt.UTC())
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	t := &models.PasswordResetToken{}
	err = db.QueryRow(`
		SELECT id, user_id, token, expires_at, used, created_at
		FROM password_reset_tokens WHERE id = ?
	`, id).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetResetToken retrieves a reset token by its opaque token string
func (db *DB) GetResetToken(token string) (*models.PasswordResetToken, error) {
	t := &models.PasswordResetToken{}
	err := db.QueryRow(`
		SELECT id, user_id, token, expires_at, used, created_at
		FROM password_reset_tokens WHERE token = ?
	`, token).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// RedeemResetToken marks a token used, rewrites the owning user's
// password hash and appends the audit entry in a single transaction.
// If any step fails the token stays unused and the password unchanged.
// The used flag flips only while still clear, so of two racing
// redemptions that both saw the token unused, one gets
// sql.ErrNoRows here instead of a second password change.
func (db *DB) RedeemResetToken(tokenID, userID int64, passwordHash string, audit *models.ActivityLogEntry) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec("UPDATE password_reset_tokens SET used = 1 WHERE id = ? AND used = 0", tokenID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	if _, err := tx.Exec("UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO activity_log (user_id, action, entity_type, entity_id, details)
		VALUES (?, ?, ?, ?, ?)
	`, audit.UserID, audit.Action, audit.EntityType, audit.EntityID, audit.Details); err != nil {
		return err
	}

	return tx.Commit()
}
