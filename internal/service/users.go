package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/tgienger/taskflow/internal/models"
)

// CreateUser creates a user with a bcrypt-hashed password and records
// the creation in the activity log.
func (s *Service) CreateUser(username, email, password, fullName string, roleID int64) (*models.User, error) {
	if username == "" || email == "" {
		return nil, errors.New("username and email are required")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user, err := s.db.CreateUser(username, email, hash, fullName, roleID)
	if err != nil {
		return nil, err
	}
	s.audit(&user.ID, ActionUserCreated, EntityUser, strconv.FormatInt(user.ID, 10), "")
	return user, nil
}

// GetUser retrieves a user by id
func (s *Service) GetUser(id int64) (*models.User, error) {
	user, err := s.db.GetUser(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// Users returns all users ordered by username
func (s *Service) Users() ([]models.User, error) {
	return s.db.ListUsers()
}

// UsersPaged returns a page of users matching the filters plus the
// total match count.
func (s *Service) UsersPaged(search string, roleID *int64, isActive *bool, page, pageSize int) ([]models.User, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.db.ListUsersPaged(search, roleID, isActive, (page-1)*pageSize, pageSize)
}

// Authenticate verifies a username/password pair against the stored
// hash. Inactive accounts cannot authenticate.
func (s *Service) Authenticate(username, password string) (*models.User, error) {
	user, err := s.db.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("user %q is deactivated", username)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errors.New("invalid credentials")
	}
	return user, nil
}

// UpdateProfile updates a user's email and full name. The change is
// recorded in the activity log after it commits.
func (s *Service) UpdateProfile(userID int64, email, fullName string) error {
	if _, err := s.GetUser(userID); err != nil {
		return err
	}
	if err := s.db.UpdateUserProfile(userID, email, fullName); err != nil {
		return err
	}
	s.audit(&userID, ActionUserProfileUpdated, EntityUser, strconv.FormatInt(userID, 10), "")
	return nil
}

// ChangePassword rehashes and stores a user's password. The change is
// recorded in the activity log after it commits; the password itself
// never is.
func (s *Service) ChangePassword(userID int64, newPassword string) error {
	if _, err := s.GetUser(userID); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.db.UpdateUserPassword(userID, hash); err != nil {
		return err
	}
	s.audit(&userID, ActionPasswordChanged, EntityUser, strconv.FormatInt(userID, 10), "")
	return nil
}

// SetUserRole changes a user's role, performed by actorID. The change
// is recorded in the activity log after it commits.
func (s *Service) SetUserRole(actorID, userID, roleID int64) error {
	if _, err := s.GetUser(userID); err != nil {
		return err
	}
	if _, err := s.db.GetRole(roleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("role %d: %w", roleID, ErrNotFound)
		}
		return err
	}
	if err := s.db.UpdateUserRole(userID, roleID); err != nil {
		return err
	}
	s.audit(&actorID, ActionUserRoleChanged, EntityUser, strconv.FormatInt(userID, 10),
		fmt.Sprintf(`{"role_id":%d}`, roleID))
	return nil
}

// SetUserActive toggles a user's active flag, performed by actorID,
// and records the change in the activity log after it commits.
func (s *Service) SetUserActive(actorID, userID int64, active bool) error {
	if _, err := s.GetUser(userID); err != nil {
		return err
	}
	if err := s.db.SetUserActive(userID, active); err != nil {
		return err
	}
	action := ActionUserDeactivated
	if active {
		action = ActionUserActivated
	}
	s.audit(&actorID, action, EntityUser, strconv.FormatInt(userID, 10), "")
	return nil
}

// DeleteUser removes a user and records the deletion in the activity
// log. The entry carries no actor; the deleted account cannot be one.
func (s *Service) DeleteUser(id int64) error {
	if _, err := s.GetUser(id); err != nil {
		return err
	}
	if err := s.db.DeleteUser(id); err != nil {
		return err
	}
	s.audit(nil, ActionUserDeleted, EntityUser, strconv.FormatInt(id, 10), "")
	return nil
}

// Roles returns all roles
func (s *Service) Roles() ([]models.Role, error) {
	return s.db.ListRoles()
}

func hashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
