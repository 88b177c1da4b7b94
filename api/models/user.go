package models

import (
	"time"

	"github.com/Pierocul/DIDAWARDS/storage"
)

type UserCreateRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Generation  int    `json:"generation"`
}

type UserUpdateRequest struct {
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Generation  int    `json:"generation"`
	IsActive    *bool  `json:"isActive"`
}

type UserResponse struct {
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	Generation  int       `json:"generation,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
	UpdatedBy   string    `json:"updatedBy,omitempty"`
}

func TransformUserFromStorage(u *storage.User) UserResponse {
	return UserResponse{
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		Generation:  u.Generation,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		UpdatedBy:   u.UpdatedBy,
	}
}
