package db

import (
	"database/sql"
	"strings"

	"github.com/tgienger/taskflow/internal/models"
)

// CreateUser creates a new user with an already-hashed password
func (db *DB) CreateUser(username, email, passwordHash, fullName string, roleID int64) (*models.User, error) {
	result, err := db.Exec(`
		INSERT INTO users (username, email, password_hash, full_name, role_id) VALUES (?, ?, ?, ?, ?)
	`, username, email, passwordHash, fullName, roleID)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetUser(id)
}

const userColumns = "id, username, email, password_hash, full_name, role_id, is_active, created_at"

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.RoleID, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser retrieves a user by ID
func (db *DB) GetUser(id int64) (*models.User, error) {
	return scanUser(db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// GetUserByEmail retrieves a user by email address
func (db *DB) GetUserByEmail(email string) (*models.User, error) {
	return scanUser(db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email))
}

// GetUserByUsername retrieves a user by username
func (db *DB) GetUserByUsername(username string) (*models.User, error) {
	return scanUser(db.QueryRow("SELECT "+userColumns+" FROM users WHERE username = ?", username))
}

// ListUsers returns all users ordered by username
func (db *DB) ListUsers() ([]models.User, error) {
	rows, err := db.Query("SELECT " + userColumns + " FROM users ORDER BY username ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// ListUsersPaged returns a page of users matching the given filters
// along with the total match count. search matches username, email and
// full name as a substring; roleID and isActive are skipped when nil.
func (db *DB) ListUsersPaged(search string, roleID *int64, isActive *bool, offset, limit int) ([]models.User, int, error) {
	var where []string
	var args []any

	if search != "" {
		where = append(where, "(username LIKE ? OR email LIKE ? OR full_name LIKE ?)")
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if roleID != nil {
		where = append(where, "role_id = ?")
		args = append(args, *roleID)
	}
	if isActive != nil {
		where = append(where, "is_active = ?")
		args = append(args, *isActive)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM users"+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(
		"SELECT "+userColumns+" FROM users"+clause+" ORDER BY username ASC LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	return users, total, err
}

func collectUsers(rows *sql.Rows) ([]models.User, error) {
	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.RoleID, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserProfile updates a user's email and full name
func (db *DB) UpdateUserProfile(id int64, email, fullName string) error {
	_, err := db.Exec("UPDATE users SET email = ?, full_name = ? WHERE id = ?", email, fullName, id)
	return err
}

// UpdateUserPassword replaces a user's password hash
func (db *DB) UpdateUserPassword(id int64, passwordHash string) error {
	_, err := db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, id)
	return err
}

// UpdateUserRole changes a user's role
func (db *DB) UpdateUserRole(id, roleID int64) error {
	_, err := db.Exec("UPDATE users SET role_id = ? WHERE id = ?", roleID, id)
	return err
}

// SetUserActive sets a user's active flag
func (db *DB) SetUserActive(id int64, active bool) error {
	_, err := db.Exec("UPDATE users SET is_active = ? WHERE id = ?", active, id)
	return err
}

// DeleteUser deletes a user
func (db *DB) DeleteUser(id int64) error {
	_, err := db.Exec("DELETE FROM users WHERE id = ?", id)
	return err
}

// UserCount returns the number of users
func (db *DB) UserCount() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// ListRoles returns all roles ordered by id
func (db *DB) ListRoles() ([]models.Role, error) {
	rows, err := db.Query("SELECT id, name FROM roles ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var r models.Role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// GetRole retrieves a role by ID
func (db *DB) GetRole(id int64) (*models.Role, error) {
	r := &models.Role{}
	err := db.QueryRow("SELECT id, name FROM roles WHERE id = ?", id).Scan(&r.ID, &r.Name)
	if err != nil {
		return nil, err
	}
	return r, nil
}
