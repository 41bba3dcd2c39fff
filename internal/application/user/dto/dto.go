package dto

import (
	"time"

	"github.com/coachhub/coachhub/internal/domain/user"
)

// UpdateProfileRequest is the self-service profile update.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" binding:"omitempty,max=100"`
	Timezone  *string `json:"timezone,omitempty" binding:"omitempty,max=64"`
	AvatarURL *string `json:"avatar_url,omitempty" binding:"omitempty,url"`
}

// ListUsersRequest drives the admin user listing.
type ListUsersRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Role     string `form:"role" binding:"omitempty,oneof=mentee coach admin"`
	Search   string `form:"search"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=mentee coach admin"`
}

type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Timezone    string    `json:"timezone"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListUsersResponse struct {
	Users    []*UserResponse `json:"users"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

func ToUserResponse(u *user.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:          u.ID(),
		Email:       u.Email().String(),
		FirstName:   u.FirstName(),
		LastName:    u.LastName(),
		DisplayName: u.DisplayName(),
		AvatarURL:   u.AvatarURL(),
		Timezone:    u.Timezone(),
		Role:        string(u.Role()),
		CreatedAt:   u.CreatedAt(),
		UpdatedAt:   u.UpdatedAt(),
	}
}
