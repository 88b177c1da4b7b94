package models

import (
	"time"

	"github.com/Pierocul/DIDAWARDS/storage"
)

type CategoryCreateRequest struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Type         string   `json:"type"`
	Generation   int      `json:"generation"`
	AllowedRoles []string `json:"allowedRoles"`
	Order        int      `json:"order"`
}

type CategoryUpdateRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Type         string   `json:"type"`
	Generation   int      `json:"generation"`
	AllowedRoles []string `json:"allowedRoles"`
	Order        int      `json:"order"`
}

type CategoryResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Type         string    `json:"type,omitempty"`
	Generation   int       `json:"generation,omitempty"`
	AllowedRoles []string  `json:"allowedRoles,omitempty"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    string    `json:"createdBy,omitempty"`
}

func TransformCategoryFromStorage(c *storage.Category) CategoryResponse {
	roles := make([]string, 0, len(c.AllowedRoles))
	for _, r := range c.AllowedRoles {
		roles = append(roles, string(r))
	}
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Type:         string(c.Type),
		Generation:   c.Generation,
		AllowedRoles: roles,
		Order:        c.Order,
		CreatedAt:    c.CreatedAt,
		CreatedBy:    c.CreatedBy,
	}
}
