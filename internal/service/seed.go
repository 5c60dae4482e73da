package service

import "github.com/tgienger/taskflow/internal/models"

// Default admin credentials created on first run. The password should
// be changed immediately.
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin"
)

// AdminRoleID matches the seeded Admin role in the schema
const AdminRoleID int64 = 1

// MemberRoleID matches the seeded Member role in the schema
const MemberRoleID int64 = 2

// EnsureSeedData creates the default admin account when the user table
// is empty. Roles are seeded by the schema itself.
func (s *Service) EnsureSeedData() (*models.User, error) {
	count, err := s.db.UserCount()
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	user, err := s.CreateUser(defaultAdminUsername, "admin@localhost", defaultAdminPassword, "Administrator", AdminRoleID)
	if err != nil {
		return nil, err
	}
	s.log.Info("seeded default admin user", "user_id", user.ID)
	return user, nil
}
