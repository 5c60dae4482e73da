package service

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/tgienger/taskflow/internal/db"
)

func TestCreateUserHashesPassword(t *testing.T) {
	s := newTestService(t)
	user := mustUser(t, s, "alice")

	if user.PasswordHash == "secret" || user.PasswordHash == "" {
		t.Error("password stored unhashed")
	}
	if !user.IsActive {
		t.Error("new user not active")
	}

	if _, err := s.Authenticate("alice", "secret"); err != nil {
		t.Errorf("authenticate: %v", err)
	}
	if _, err := s.Authenticate("alice", "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestAuthenticateDeactivatedUser(t *testing.T) {
	s := newTestService(t)
	admin := mustUser(t, s, "admin2")
	user := mustUser(t, s, "bob")

	if err := s.SetUserActive(admin.ID, user.ID, false); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Authenticate("bob", "secret"); err == nil {
		t.Error("deactivated user authenticated")
	}
}

func TestUserLifecycleAudited(t *testing.T) {
	s := newTestService(t)
	user := mustUser(t, s, "alice")
	id := strconv.FormatInt(user.ID, 10)

	if err := s.UpdateProfile(user.ID, "alice@new.example.com", "Alice A."); err != nil {
		t.Fatal(err)
	}
	if err := s.ChangePassword(user.ID, "rotated"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteUser(user.ID); err != nil {
		t.Fatal(err)
	}

	for _, action := range []string{
		ActionUserCreated, ActionUserProfileUpdated, ActionPasswordChanged, ActionUserDeleted,
	} {
		entries, total, err := s.Activity(db.ActivityFilter{
			EntityType: EntityUser,
			EntityID:   id,
			Action:     action,
		}, 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		if total != 1 {
			t.Errorf("%s audit entries = %d, want 1", action, total)
			continue
		}
		actor := entries[0].UserID
		if action == ActionUserDeleted {
			if actor != nil {
				t.Errorf("%s entry has actor %d, want none", action, *actor)
			}
		} else if actor == nil || *actor != user.ID {
			t.Errorf("%s entry has wrong actor", action)
		}
	}

	// The password itself must not leak into the log
	entries, _, err := s.Activity(db.ActivityFilter{EntityType: EntityUser, EntityID: id}, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Details, "rotated") {
			t.Errorf("%s entry recorded the password", e.Action)
		}
	}
}

func TestSetUserRoleAudited(t *testing.T) {
	s := newTestService(t)
	admin := mustUser(t, s, "admin2")
	user := mustUser(t, s, "bob")

	if err := s.SetUserRole(admin.ID, user.ID, AdminRoleID); err != nil {
		t.Fatal(err)
	}

	reloaded, err := s.GetUser(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.RoleID != AdminRoleID {
		t.Errorf("role = %d, want %d", reloaded.RoleID, AdminRoleID)
	}

	entries, total, err := s.Activity(db.ActivityFilter{
		EntityType: EntityUser,
		EntityID:   strconv.FormatInt(user.ID, 10),
		Action:     ActionUserRoleChanged,
	}, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Fatalf("role change audit entries = %d, want 1", total)
	}
	if entries[0].UserID == nil || *entries[0].UserID != admin.ID {
		t.Error("audit actor is not the admin who made the change")
	}
}

func TestSetUserRoleUnknownRole(t *testing.T) {
	s := newTestService(t)
	admin := mustUser(t, s, "admin2")
	user := mustUser(t, s, "bob")

	if err := s.SetUserRole(admin.ID, user.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSetUserActiveAudited(t *testing.T) {
	s := newTestService(t)
	admin := mustUser(t, s, "admin2")
	user := mustUser(t, s, "bob")

	if err := s.SetUserActive(admin.ID, user.ID, false); err != nil {
		t.Fatal(err)
	}
	if err := s.SetUserActive(admin.ID, user.ID, true); err != nil {
		t.Fatal(err)
	}

	for _, action := range []string{ActionUserDeactivated, ActionUserActivated} {
		_, total, err := s.Activity(db.ActivityFilter{Action: action}, 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		if total != 1 {
			t.Errorf("%s audit entries = %d, want 1", action, total)
		}
	}
}

func TestUsersPaged(t *testing.T) {
	s := newTestService(t)
	mustUser(t, s, "alice")
	mustUser(t, s, "bob")
	mustUser(t, s, "carol")

	page, total, err := s.UsersPaged("", nil, nil, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(page) != 2 {
		t.Errorf("page size = %d, want 2", len(page))
	}

	page2, _, err := s.UsersPaged("", nil, nil, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page2) != 1 {
		t.Errorf("second page size = %d, want 1", len(page2))
	}

	// Substring search
	matches, total, err := s.UsersPaged("aro", nil, nil, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(matches) != 1 || matches[0].Username != "carol" {
		t.Errorf("search %q matched %d users", "aro", total)
	}
}

func TestChangePassword(t *testing.T) {
	s := newTestService(t)
	user := mustUser(t, s, "alice")

	if err := s.ChangePassword(user.ID, "updated"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Authenticate("alice", "updated"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
	if _, err := s.Authenticate("alice", "secret"); err == nil {
		t.Error("old password still accepted")
	}
}

func TestUpdateProfile(t *testing.T) {
	s := newTestService(t)
	user := mustUser(t, s, "alice")

	if err := s.UpdateProfile(user.ID, "new@example.com", "Alice A."); err != nil {
		t.Fatal(err)
	}
	reloaded, err := s.GetUser(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Email != "new@example.com" || reloaded.FullName != "Alice A." {
		t.Errorf("profile not updated: %+v", reloaded)
	}
}

func TestEnsureSeedData(t *testing.T) {
	s := newTestService(t)

	admin, err := s.EnsureSeedData()
	if err != nil {
		t.Fatal(err)
	}
	if admin == nil {
		t.Fatal("empty database did not seed an admin")
	}
	if admin.RoleID != AdminRoleID {
		t.Errorf("seeded admin role = %d", admin.RoleID)
	}

	// Second run is a no-op
	again, err := s.EnsureSeedData()
	if err != nil {
		t.Fatal(err)
	}
	if again != nil {
		t.Error("seed ran twice")
	}
}
