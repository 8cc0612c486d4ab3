package dto

import (
	"time"

	"github.com/undergraduation/ugadmin/internal/app/models"
)

// UserResponse represents a dashboard user
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        *string    `json:"name,omitempty"`
	Role        string     `json:"role" enums:"admin,staff"`
	Status      string     `json:"status" enums:"active,disabled"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(u *models.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		Status:      string(u.Status),
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// ChangeRoleRequest assigns a new role to a dashboard user
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required" enums:"admin,staff"`
}
