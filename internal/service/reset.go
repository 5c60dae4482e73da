package service

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tgienger/taskflow/internal/models"
)

// resetTokenTTL is how long a password reset token stays redeemable
const resetTokenTTL = time.Hour

// RequestPasswordReset issues a single-use reset token for the account
// registered under email. An unknown email is not an error: the caller
// gets an empty token and no way to tell whether the address exists.
// Delivery of the token to the user is the caller's concern.
func (s *Service) RequestPasswordReset(email string) (string, error) {
	user, err := s.db.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Fail quiet: do not reveal whether the email is registered
			return "", nil
		}
		return "", err
	}

	token, err := newResetToken()
	if err != nil {
		return "", err
	}

	if _, err := s.db.CreateResetToken(user.ID, token, s.now().Add(resetTokenTTL)); err != nil {
		return "", err
	}

	s.audit(&user.ID, ActionPasswordResetRequested, EntityUser, strconv.FormatInt(user.ID, 10), "")

	return token, nil
}

// ResetPassword redeems a reset token and stores the new password.
// Missing, used and expired tokens all fail with the same
// ErrInvalidOrExpiredToken. On success the used flag, the new password
// hash and the audit entry are written in one transaction, so a token
// is never burned without the password actually changing.
func (s *Service) ResetPassword(token, newPassword string) error {
	rec, err := s.db.GetResetToken(token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}
	if rec.Used || s.now().After(rec.ExpiresAt) {
		return ErrInvalidOrExpiredToken
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.db.RedeemResetToken(rec.ID, rec.UserID, hash, &models.ActivityLogEntry{
		UserID:     &rec.UserID,
		Action:     ActionPasswordReset,
		EntityType: EntityUser,
		EntityID:   strconv.FormatInt(rec.UserID, 10),
	})
	if errors.Is(err, sql.ErrNoRows) {
		// Lost a race against another redemption of the same token
		return ErrInvalidOrExpiredToken
	}
	return err
}

// newResetToken returns 32 bytes of cryptographic randomness, hex
// encoded.
func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
