package models

import "time"

// Role names carried in JWT claims.
const (
	RoleAdmin = "Admin"
	RoleStaff = "Staff"
)

// User represents an operator account of the CRM.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RoleName maps the admin flag to the role string used in JWT claims.
func (u *User) RoleName() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleStaff
}

// Credentials for login request
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
