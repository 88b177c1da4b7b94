package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Pierocul/DIDAWARDS/api/models"
	"github.com/Pierocul/DIDAWARDS/api/transport"
	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/storage"
	"github.com/gin-gonic/gin"
)

type CandidateMetaController struct {
	candidates storage.CandidateStorage
	categories storage.CategoryStorage
	adminAuth  gin.HandlerFunc
}

func NewCandidateMetaController(candidates storage.CandidateStorage, categories storage.CategoryStorage, adminAuth gin.HandlerFunc) *CandidateMetaController {
	return &CandidateMetaController{candidates: candidates, categories: categories, adminAuth: adminAuth}
}

func (c *CandidateMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/candidates")

	group.GET("", c.getAll)
	group.GET("/:id", c.adminAuth, c.get)
	group.POST("", c.adminAuth, c.create)
	group.PUT("/:id", c.adminAuth, c.update)
	group.DELETE("/:id", c.adminAuth, c.delete)
}

// @Summary Get all candidates
// @Tags Meta/Candidates
// @Produce json
// @Param categoryId query string false "Only candidates of this category"
// @Success 200 {array} models.CandidateResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates [get]
func (c *CandidateMetaController) getAll(g *gin.Context) {
	candidates, err := c.candidates.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to get all candidates: %v", err)
		writeInternalError(g, err)
		return
	}

	categoryID := g.Query("categoryId")
	responses := make([]models.CandidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		if categoryID != "" && cand.CategoryID != categoryID {
			continue
		}
		responses = append(responses, models.TransformCandidateFromStorage(cand))
	}
	g.JSON(http.StatusOK, responses)
}

// @Security AdminToken
// @Summary Get a candidate by ID
// @Tags Meta/Candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} models.CandidateResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates/{id} [get]
func (c *CandidateMetaController) get(g *gin.Context) {
	candidate, err := c.candidates.Get(g.Request.Context(), g.Param("id"))
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to get candidate: %v", err)
		writeInternalError(g, err)
		return
	}
	if candidate == nil {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "candidate not found"})
		return
	}
	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(candidate))
}

// @Security AdminToken
// @Summary Create a new candidate
// @Tags Meta/Candidates
// @Accept json
// @Produce json
// @Param candidate body models.CandidateCreateRequest true "Candidate object"
// @Success 200 {object} models.CandidateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates [post]
func (c *CandidateMetaController) create(g *gin.Context) {
	var req models.CandidateCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("CANDIDATE: invalid create candidate request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	candidate, msg := buildCandidate(req.CategoryID, req.Name, req.Description, req.Image, req.ProjectImage)
	if msg != "" {
		logging.Log.Warnf("CANDIDATE: rejected create request: %s", msg)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
		return
	}
	if ok := c.categoryExists(g, candidate.CategoryID); !ok {
		return
	}

	candidate.ID = strings.TrimSpace(req.ID)
	if candidate.ID == "" {
		candidate.ID = newID()
	}
	candidate.Votes = 0
	candidate.CreatedAt = time.Now().UTC()
	candidate.CreatedBy = transport.AdminFrom(g)

	if err := c.candidates.Create(g.Request.Context(), candidate); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			logging.Log.Warnf("CANDIDATE: candidate with ID %s already exists", candidate.ID)
			g.JSON(http.StatusConflict, models.ErrorResponse{Error: "candidate with ID already exists"})
			return
		}
		logging.Log.Errorf("CANDIDATE: failed to create candidate: %v", err)
		writeInternalError(g, err)
		return
	}
	logging.Log.Infof("CANDIDATE: %s created %s in %s", candidate.CreatedBy, candidate.ID, candidate.CategoryID)
	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(candidate))
}

// @Security AdminToken
// @Summary Update an existing candidate, keeping its vote count
// @Tags Meta/Candidates
// @Accept json
// @Produce json
// @Param id path string true "Candidate ID"
// @Param candidate body models.CandidateUpdateRequest true "Candidate object"
// @Success 200 {object} models.CandidateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates/{id} [put]
func (c *CandidateMetaController) update(g *gin.Context) {
	id := g.Param("id")

	var req models.CandidateUpdateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("CANDIDATE: invalid update candidate request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	candidate, msg := buildCandidate(req.CategoryID, req.Name, req.Description, req.Image, req.ProjectImage)
	if msg != "" {
		logging.Log.Warnf("CANDIDATE: rejected update of %s: %s", id, msg)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
		return
	}

	existing, err := c.candidates.Get(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to get candidate %s: %v", id, err)
		writeInternalError(g, err)
		return
	}
	if existing == nil {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "candidate not found"})
		return
	}
	if candidate.CategoryID != existing.CategoryID {
		if ok := c.categoryExists(g, candidate.CategoryID); !ok {
			return
		}
	}

	candidate.ID = id
	candidate.Votes = existing.Votes
	candidate.CreatedAt = existing.CreatedAt
	candidate.CreatedBy = existing.CreatedBy

	if err := c.candidates.Update(g.Request.Context(), candidate); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "candidate not found"})
			return
		}
		logging.Log.Errorf("CANDIDATE: failed to update candidate: %v", err)
		writeInternalError(g, err)
		return
	}
	logging.Log.Infof("CANDIDATE: %s updated %s", transport.AdminFrom(g), id)
	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(candidate))
}

// @Security AdminToken
// @Summary Delete a candidate
// @Tags Meta/Candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} models.MessageResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates/{id} [delete]
func (c *CandidateMetaController) delete(g *gin.Context) {
	id := g.Param("id")
	if err := c.candidates.Delete(g.Request.Context(), id); err != nil {
		logging.Log.Errorf("CANDIDATE: failed to delete candidate: %v", err)
		writeInternalError(g, err)
		return
	}
	logging.Log.Infof("CANDIDATE: %s deleted %s", transport.AdminFrom(g), id)
	g.JSON(http.StatusOK, models.MessageResponse{Message: "candidate deleted"})
}

func (c *CandidateMetaController) categoryExists(g *gin.Context, id string) bool {
	category, err := c.categories.Get(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to look up category %s: %v", id, err)
		writeInternalError(g, err)
		return false
	}
	if category == nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "category does not exist"})
		return false
	}
	return true
}

func buildCandidate(categoryID, name, description, image, projectImage string) (*storage.Candidate, string) {
	categoryID = strings.TrimSpace(categoryID)
	name = strings.TrimSpace(name)
	image = strings.TrimSpace(image)
	projectImage = strings.TrimSpace(projectImage)

	switch {
	case categoryID == "":
		return nil, "category is required"
	case len([]rune(name)) < 2:
		return nil, "name must have at least 2 characters"
	case !validImageURL(image):
		return nil, "image must be a valid URL"
	case !validImageURL(projectImage):
		return nil, "project image must be a valid URL"
	}

	return &storage.Candidate{
		CategoryID:   categoryID,
		Name:         name,
		Description:  strings.TrimSpace(description),
		Image:        image,
		ProjectImage: projectImage,
	}, ""
}

// validImageURL accepts an empty value or an absolute http(s) URL.
func validImageURL(raw string) bool {
	if raw == "" {
		return true
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
