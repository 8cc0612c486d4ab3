package models

import (
	"time"
)

// Role defines the access level of a dashboard user
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// DefaultRole is assigned when an authenticated principal has no role record yet
const DefaultRole = RoleStaff

// IsValidRole reports whether r is a known role value
func IsValidRole(r string) bool {
	return Role(r) == RoleAdmin || Role(r) == RoleStaff
}

// UserStatus marks whether a dashboard account may act
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// User defines a dashboard user based on the 'users' table.
// Records are provisioned on first authenticated request.
type User struct {
	ID          string     `json:"id" db:"id" example:"firebase-uid-or-subject"` // Identity provider subject
	Email       string     `json:"email" db:"email" example:"counselor@undergraduation.com"`
	Name        *string    `json:"name,omitempty" db:"name" example:"Jordan Lee"`
	Role        Role       `json:"role" db:"role" example:"staff"`
	Status      UserStatus `json:"status" db:"status" example:"active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at" example:"2025-01-01T10:00:00Z"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty" db:"last_login_at" example:"2025-06-20T18:00:00Z"`
}

// RequestMeta captures where a request came from, for the audit trail
type RequestMeta struct {
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// Principal is the resolved identity handed to services for authorization and auditing
type Principal struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	RequestMeta
}
