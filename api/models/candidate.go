package models

import (
	"time"

	"github.com/Pierocul/DIDAWARDS/storage"
)

type CandidateCreateRequest struct {
	ID           string `json:"id"`
	CategoryID   string `json:"categoryId"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	ProjectImage string `json:"projectImage"`
}

type CandidateUpdateRequest struct {
	CategoryID   string `json:"categoryId"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	ProjectImage string `json:"projectImage"`
}

type CandidateResponse struct {
	ID           string    `json:"id"`
	CategoryID   string    `json:"categoryId"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Image        string    `json:"image,omitempty"`
	ProjectImage string    `json:"projectImage,omitempty"`
	Votes        int       `json:"votes"`
	CreatedAt    time.Time `json:"createdAt"`
}

func TransformCandidateFromStorage(c *storage.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:           c.ID,
		CategoryID:   c.CategoryID,
		Name:         c.Name,
		Description:  c.Description,
		Image:        c.Image,
		ProjectImage: c.ProjectImage,
		Votes:        c.Votes,
		CreatedAt:    c.CreatedAt,
	}
}
