package service

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tgienger/taskflow/internal/db"
)

func TestRequestResetUnknownEmailFailsQuiet(t *testing.T) {
	s := newTestService(t)

	token, err := s.RequestPasswordReset("nobody@example.com")
	if err != nil {
		t.Fatalf("unknown email must not error, got %v", err)
	}
	if token != "" {
		t.Errorf("unknown email produced a token")
	}
}

func TestRequestResetIssuesTokenAndAudits(t *testing.T) {
	s := newTestService(t)
	user := mustUser(t, s, "alice")

	token, err := s.RequestPasswordReset(user.Email)
	if err != nil {
		t.Fatal(err)
	}
	if len(token) != 64 { // 32 random bytes, hex encoded
		t.Errorf("token length = %d, want 64", len(token))
	}

	_, total, err := s.Activity(db.ActivityFilter{Action: ActionPasswordResetRequested}, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("audit entries for reset request = %d, want 1", total)
	}
}

func TestRequestResetTokensAreUnique(t *testing.T) {
	s := newTestService(t)
	user := mustUser(t, s, "alice")

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		token, err := s.RequestPasswordReset(user.Email)
		if err != nil {
			t.Fatal(err)
		}
		if seen[token] {
			t.Fatalf("duplicate token issued")
		}
		seen[token] = true
	}
}

func TestResetPasswordHappyPathThenReplayFails(t *testing.T) {
	s := newTestService(t)
	user := mustUser(t, s, "alice")

	token, err := s.RequestPasswordReset(user.Email)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.ResetPassword(token, "brand-new"); err != nil {
		t.Fatalf("first redemption failed: %v", err)
	}

	// New password now verifies
	if _, err := s.Authenticate(user.Username, "brand-new"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
	// Old one does not
	if _, err := s.Authenticate(user.Username, "secret"); err == nil {
		t.Error("old password still accepted")
	}

	// Redemption audit landed
	_, total, err := s.Activity(db.ActivityFilter{Action: ActionPasswordReset}, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total < 1 {
		t.Error("no audit entry for redeemed reset")
	}

	// Second use of the same token fails
	if err := s.ResetPassword(token, "sneaky"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Errorf("replay err = %v, want ErrInvalidOrExpiredToken", err)
	}
	if _, err := s.Authenticate(user.Username, "brand-new"); err != nil {
		t.Errorf("replay changed the password: %v", err)
	}
}

func TestResetPasswordUsedTokenLeavesHashAlone(t *testing.T) {
	s := newTestService(t)
	user := mustUser(t, s, "alice")

	token, err := s.RequestPasswordReset(user.Email)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.ResetPassword(token, "once"); err != nil {
		t.Fatal(err)
	}

	before, err := s.GetUser(user.ID)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.ResetPassword(token, "twice"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("err = %v, want ErrInvalidOrExpiredToken", err)
	}

	after, err := s.GetUser(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if before.PasswordHash != after.PasswordHash {
		t.Error("password hash changed by a rejected redemption")
	}
	if bcrypt.CompareHashAndPassword([]byte(after.PasswordHash), []byte("twice")) == nil {
		t.Error("rejected password was stored")
	}
}

func TestResetPasswordExpiredLooksLikeMissing(t *testing.T) {
	s := newTestService(t)
	user := mustUser(t, s, "alice")

	token, err := s.RequestPasswordReset(user.Email)
	if err != nil {
		t.Fatal(err)
	}

	// Jump past the TTL; expiry is evaluated at redemption time
	s.now = func() time.Time { return time.Now().Add(resetTokenTTL + time.Minute) }

	expiredErr := s.ResetPassword(token, "late")
	missingErr := s.ResetPassword("no-such-token", "late")

	if !errors.Is(expiredErr, ErrInvalidOrExpiredToken) {
		t.Errorf("expired err = %v, want ErrInvalidOrExpiredToken", expiredErr)
	}
	if !errors.Is(missingErr, ErrInvalidOrExpiredToken) {
		t.Errorf("missing err = %v, want ErrInvalidOrExpiredToken", missingErr)
	}
	// The two failures must be indistinguishable
	if expiredErr.Error() != missingErr.Error() {
		t.Errorf("expired %q and missing %q are distinguishable", expiredErr, missingErr)
	}

	// Password unchanged
	if _, err := s.Authenticate(user.Username, "secret"); err != nil {
		t.Errorf("original password rejected after failed redemptions: %v", err)
	}
}
