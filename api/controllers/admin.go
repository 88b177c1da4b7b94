package controllers

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/Pierocul/DIDAWARDS/api/models"
	"github.com/Pierocul/DIDAWARDS/api/transport"
	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/storage"
	"github.com/Pierocul/DIDAWARDS/voting"
	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
)

const unknownCandidate = "(unknown)"

type AdminController struct {
	store     *storage.Store
	emails    voting.EmailRule
	adminAuth gin.HandlerFunc
}

func NewAdminController(store *storage.Store, emails voting.EmailRule, adminAuth gin.HandlerFunc) *AdminController {
	return &AdminController{
		store:     store,
		emails:    emails,
		adminAuth: adminAuth,
	}
}

func (c *AdminController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/admin", c.adminAuth)

	group.GET("/stats", c.stats)
	group.GET("/export", c.export)
	group.POST("/votes/reset", c.resetVoting)
	group.POST("/clear", c.clearAll)
	group.GET("/votes/:email", c.userVotes)
	group.DELETE("/votes/:email", c.resetUserVotes)
}

// @Security AdminToken
// @Summary Voting totals
// @Tags Admin
// @Produce json
// @Success 200 {object} models.StatsResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/stats [get]
func (c *AdminController) stats(g *gin.Context) {
	ctx := g.Request.Context()

	votes, err := c.store.Votes.Find(ctx, storage.VoteFilter{})
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to load votes for stats: %v", err)
		writeInternalError(g, err)
		return
	}
	candidates, err := c.store.Candidates.GetAll(ctx)
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to load candidates for stats: %v", err)
		writeInternalError(g, err)
		return
	}
	categories, err := c.store.Categories.GetAll(ctx)
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to load categories for stats: %v", err)
		writeInternalError(g, err)
		return
	}

	voters := make(map[string]struct{})
	for _, v := range votes {
		voters[v.Email] = struct{}{}
	}

	g.JSON(http.StatusOK, models.StatsResponse{
		TotalVotes:      len(votes),
		TotalCandidates: len(candidates),
		TotalCategories: len(categories),
		TotalVoters:     len(voters),
	})
}

// @Security AdminToken
// @Summary Export every vote as CSV
// @Tags Admin
// @Produce text/csv
// @Success 200 {string} string "Email,Candidate,Timestamp"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/export [get]
func (c *AdminController) export(g *gin.Context) {
	ctx := g.Request.Context()

	votes, err := c.store.Votes.Find(ctx, storage.VoteFilter{})
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to load votes for export: %v", err)
		writeInternalError(g, err)
		return
	}
	candidates, err := c.store.Candidates.GetAll(ctx)
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to load candidates for export: %v", err)
		writeInternalError(g, err)
		return
	}

	body, err := gocsv.MarshalBytes(exportRows(votes, candidates))
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to encode export: %v", err)
		writeInternalError(g, err)
		return
	}

	filename := fmt.Sprintf("votes_%s.csv", time.Now().UTC().Format("2006-01-02"))
	g.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	logging.Log.Infof("ADMIN: %s exported %d votes", transport.AdminFrom(g), len(votes))
	g.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

// exportRows resolves candidate names and keeps votes in time order.
func exportRows(votes []*storage.VoteRecord, candidates []*storage.Candidate) []*models.VoteExportRow {
	names := make(map[string]string, len(candidates))
	for _, cand := range candidates {
		names[cand.ID] = cand.Name
	}

	sorted := make([]*storage.VoteRecord, len(votes))
	copy(sorted, votes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	rows := make([]*models.VoteExportRow, 0, len(sorted))
	for _, v := range sorted {
		name, ok := names[v.CandidateID]
		if !ok {
			name = unknownCandidate
		}
		rows = append(rows, &models.VoteExportRow{
			Email:     v.Email,
			Candidate: name,
			Timestamp: v.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return rows
}

// @Security AdminToken
// @Summary Delete every vote and zero all counters
// @Tags Admin
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/votes/reset [post]
func (c *AdminController) resetVoting(g *gin.Context) {
	ctx := g.Request.Context()
	if err := c.store.Votes.DeleteAll(ctx); err != nil {
		logging.Log.Errorf("ADMIN: failed to delete votes: %v", err)
		writeInternalError(g, err)
		return
	}
	if err := c.store.Candidates.ResetVotes(ctx); err != nil {
		logging.Log.Errorf("ADMIN: failed to reset candidate counters: %v", err)
		writeInternalError(g, err)
		return
	}
	logging.Log.Warnf("ADMIN: %s reset the voting", transport.AdminFrom(g))
	g.JSON(http.StatusOK, models.MessageResponse{Message: "voting reset"})
}

// @Security AdminToken
// @Summary Delete every vote and every candidate
// @Tags Admin
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/clear [post]
func (c *AdminController) clearAll(g *gin.Context) {
	ctx := g.Request.Context()
	if err := c.store.Votes.DeleteAll(ctx); err != nil {
		logging.Log.Errorf("ADMIN: failed to delete votes: %v", err)
		writeInternalError(g, err)
		return
	}
	if err := c.store.Candidates.DeleteAll(ctx); err != nil {
		logging.Log.Errorf("ADMIN: failed to delete candidates: %v", err)
		writeInternalError(g, err)
		return
	}
	logging.Log.Warnf("ADMIN: %s cleared votes and candidates", transport.AdminFrom(g))
	g.JSON(http.StatusOK, models.MessageResponse{Message: "data cleared"})
}

// @Security AdminToken
// @Summary Votes cast by one user
// @Tags Admin
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} models.UserVotesResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/votes/{email} [get]
func (c *AdminController) userVotes(g *gin.Context) {
	ctx := g.Request.Context()
	email := voting.NormalizeEmail(g.Param("email"))
	if err := c.emails.Validate(email); err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	votes, err := c.store.Votes.Find(ctx, storage.VoteFilter{Email: email})
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to load votes of %s: %v", email, err)
		writeInternalError(g, err)
		return
	}
	categories, err := c.store.Categories.GetAll(ctx)
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to load categories: %v", err)
		writeInternalError(g, err)
		return
	}
	candidates, err := c.store.Candidates.GetAll(ctx)
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to load candidates: %v", err)
		writeInternalError(g, err)
		return
	}

	categoryNames := make(map[string]string, len(categories))
	for _, cat := range categories {
		categoryNames[cat.ID] = cat.Name
	}
	candidateNames := make(map[string]string, len(candidates))
	for _, cand := range candidates {
		candidateNames[cand.ID] = cand.Name
	}

	entries := make([]models.UserVoteEntry, 0, len(votes))
	for _, v := range votes {
		entry := models.UserVoteEntry{
			CategoryID:  v.CategoryID,
			Category:    categoryNames[v.CategoryID],
			CandidateID: v.CandidateID,
			Candidate:   candidateNames[v.CandidateID],
			Timestamp:   v.Timestamp,
		}
		if entry.Candidate == "" {
			entry.Candidate = unknownCandidate
		}
		entries = append(entries, entry)
	}
	g.JSON(http.StatusOK, models.UserVotesResponse{Email: email, Votes: entries})
}

// @Security AdminToken
// @Summary Delete the votes of one user so they can vote again
// @Tags Admin
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} models.DeletedVotesResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/votes/{email} [delete]
func (c *AdminController) resetUserVotes(g *gin.Context) {
	email := voting.NormalizeEmail(g.Param("email"))
	if err := c.emails.Validate(email); err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	deleted, err := c.store.Votes.DeleteByEmail(g.Request.Context(), email)
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to delete votes of %s: %v", email, err)
		writeInternalError(g, err)
		return
	}
	logging.Log.Warnf("ADMIN: %s deleted %d votes of %s", transport.AdminFrom(g), deleted, email)
	g.JSON(http.StatusOK, models.DeletedVotesResponse{Email: email, Deleted: deleted})
}
