package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleMember grants standard user access.
	RoleMember Role = "member"
)

// UserStatus represents the user's account status.
type UserStatus string

const (
	// UserStatusActive indicates the user can log in and use the system.
	UserStatusActive UserStatus = "active"
	// UserStatusInactive indicates a soft-deleted/deactivated account.
	// Inactive users are excluded from listings only where the caller
	// explicitly asks for active users; there is no implicit global filter.
	UserStatusInactive UserStatus = "inactive"
)

// User represents an authenticated user account in the system.
type User struct {
	Record
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash,omitempty"` // persisted; stripped at the DTO layer, never in API responses
	DisplayName  string     `json:"display_name"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status,omitempty"` // empty = active for records created before the field existed
	Bio          string     `json:"bio,omitempty"`
	LastLoginAt  time.Time  `json:"last_login_at,omitzero"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive returns true if the user can log in and use the system.
// Empty status is treated as active for backward compatibility.
func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == UserStatusActive
}
