package models

import (
	"github.com/Pierocul/DIDAWARDS/voting"
)

type SendCodeRequest struct {
	Email string `json:"email"`
}

type VerifyCodeRequest struct {
	Code string `json:"code"`
}

type GenerationRequest struct {
	Generation int `json:"generation"`
}

type VoteRequest struct {
	CandidateID string `json:"candidateId"`
}

type SessionResponse struct {
	Token               string                     `json:"token,omitempty"`
	State               string                     `json:"state"`
	Email               string                     `json:"email,omitempty"`
	Role                string                     `json:"role,omitempty"`
	Generation          int                        `json:"generation,omitempty"`
	SuggestedGeneration int                        `json:"suggestedGeneration,omitempty"`
	MaxGeneration       int                        `json:"maxGeneration,omitempty"`
	IsAdmin             bool                       `json:"isAdmin"`
	Category            *CategoryResponse          `json:"category,omitempty"`
	Candidates          []CandidateResponse        `json:"candidates,omitempty"`
	CanVote             bool                       `json:"canVote"`
	Cursor              int                        `json:"cursor"`
	Decisions           map[string]voting.Decision `json:"decisions"`
}

type VoteResponse struct {
	Message     string          `json:"message"`
	VoteID      string          `json:"voteId"`
	CandidateID string          `json:"candidateId"`
	Session     SessionResponse `json:"session"`
}

func TransformSessionView(v voting.View) SessionResponse {
	r := SessionResponse{
		State:               string(v.State),
		Email:               v.Email,
		Role:                string(v.Role),
		Generation:          v.Generation,
		SuggestedGeneration: v.SuggestedGeneration,
		MaxGeneration:       v.MaxGeneration,
		IsAdmin:             v.IsAdmin,
		CanVote:             v.CanVote,
		Cursor:              v.Cursor,
		Decisions:           v.Decisions,
	}
	if v.Category != nil {
		c := TransformCategoryFromStorage(v.Category)
		r.Category = &c
		r.Candidates = make([]CandidateResponse, 0, len(v.Candidates))
		for _, cand := range v.Candidates {
			r.Candidates = append(r.Candidates, TransformCandidateFromStorage(cand))
		}
	}
	return r
}
