package identity

import (
	"time"

	"github.com/bizline/backoffice/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginRequest represents the credentials posted to the login endpoint
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=1,max=72"`
}

// LoginResponse carries the access token and the signed-in user
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Username        string      `json:"username" binding:"required,min=3,max=100"`
	Password        string      `json:"password" binding:"required,min=8,max=72"`
	DisplayName     string      `json:"display_name" binding:"max=200"`
	Email           string      `json:"email" binding:"omitempty,email,max=200"`
	Role            string      `json:"role" binding:"required,oneof=ADMIN MANAGER SALES STOREKEEPER ACCOUNTANT"`
	BusinessLineIDs []uuid.UUID `json:"business_line_ids"`
}

// UpdateUserRequest updates the profile of a user
type UpdateUserRequest struct {
	DisplayName string `json:"display_name" binding:"max=200"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
}

// ChangeRoleRequest represents a role change
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ADMIN MANAGER SALES STOREKEEPER ACCOUNTANT"`
}

// AssignBusinessLinesRequest replaces the business lines a user may access
type AssignBusinessLinesRequest struct {
	BusinessLineIDs []uuid.UUID `json:"business_line_ids" binding:"required"`
}

// ResetPasswordRequest is an administrative password reset
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// ChangePasswordRequest is a user changing their own password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// UserListFilter represents the query parameters of the user list
type UserListFilter struct {
	Search         string `form:"search"`
	Role           string `form:"role" binding:"omitempty,oneof=ADMIN MANAGER SALES STOREKEEPER ACCOUNTANT"`
	Status         string `form:"status" binding:"omitempty,oneof=active inactive"`
	BusinessLineID string `form:"business_line_id" binding:"omitempty,uuid"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UserResponse represents a user in API responses. The password hash never leaves the service.
type UserResponse struct {
	ID              uuid.UUID   `json:"id"`
	Username        string      `json:"username"`
	DisplayName     string      `json:"display_name"`
	Email           string      `json:"email,omitempty"`
	Role            string      `json:"role"`
	Permissions     []string    `json:"permissions"`
	BusinessLineIDs []uuid.UUID `json:"business_line_ids"`
	Status          string      `json:"status"`
	LastLoginAt     *time.Time  `json:"last_login_at,omitempty"`
	Version         int         `json:"version"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// NavigationResponse lists the menu sections available to the caller's role
type NavigationResponse struct {
	Role     string                       `json:"role"`
	Sections []identity.NavigationSection `json:"sections"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	lines := u.BusinessLineIDs
	if lines == nil {
		lines = []uuid.UUID{}
	}
	return UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		DisplayName:     u.DisplayName,
		Email:           u.Email,
		Role:            u.Role.String(),
		Permissions:     u.Role.Permissions(),
		BusinessLineIDs: lines,
		Status:          string(u.Status),
		LastLoginAt:     u.LastLoginAt,
		Version:         u.Version,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func toUserResponses(users []identity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}
