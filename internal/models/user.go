package models

import "time"

// UserRole represents the closed set of roles for the RBAC system.
type UserRole string

const (
	RoleStudent     UserRole = "STUDENT"
	RoleFaculty     UserRole = "FACULTY"
	RoleAdminStaff  UserRole = "ADMIN_STAFF"
	RoleSystemAdmin UserRole = "SYSTEM_ADMIN"
)

// ValidUserRole reports whether the value belongs to the closed role set.
func ValidUserRole(r UserRole) bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdminStaff, RoleSystemAdmin:
		return true
	}
	return false
}

// User represents an application user stored in the users table. The
// username is the natural primary key.
type User struct {
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *UserRole
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
