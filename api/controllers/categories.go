package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Pierocul/DIDAWARDS/api/models"
	"github.com/Pierocul/DIDAWARDS/api/transport"
	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/storage"
	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type CategoryMetaController struct {
	storage   storage.CategoryStorage
	adminAuth gin.HandlerFunc
}

func NewCategoryMetaController(s storage.CategoryStorage, adminAuth gin.HandlerFunc) *CategoryMetaController {
	return &CategoryMetaController{storage: s, adminAuth: adminAuth}
}

func (c *CategoryMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/categories")

	group.GET("", c.getAll)
	group.GET("/:id", c.adminAuth, c.get)
	group.POST("", c.adminAuth, c.create)
	group.PUT("/:id", c.adminAuth, c.update)
	group.DELETE("/:id", c.adminAuth, c.delete)
}

// @Summary Get all voting categories
// @Tags Meta/Categories
// @Produce json
// @Success 200 {array} models.CategoryResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/categories [get]
func (c *CategoryMetaController) getAll(g *gin.Context) {
	categories, err := c.storage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("CATEGORY: failed to get all categories: %v", err)
		writeInternalError(g, err)
		return
	}

	responses := make([]models.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		responses = append(responses, models.TransformCategoryFromStorage(cat))
	}
	g.JSON(http.StatusOK, responses)
}

// @Security AdminToken
// @Summary Get a voting category by ID
// @Tags Meta/Categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} models.CategoryResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/categories/{id} [get]
func (c *CategoryMetaController) get(g *gin.Context) {
	category, err := c.storage.Get(g.Request.Context(), g.Param("id"))
	if err != nil {
		logging.Log.Errorf("CATEGORY: failed to get category: %v", err)
		writeInternalError(g, err)
		return
	}
	if category == nil {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "category not found"})
		return
	}
	g.JSON(http.StatusOK, models.TransformCategoryFromStorage(category))
}

// @Security AdminToken
// @Summary Create a new voting category
// @Tags Meta/Categories
// @Accept json
// @Produce json
// @Param category body models.CategoryCreateRequest true "Category object"
// @Success 200 {object} models.CategoryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/categories [post]
func (c *CategoryMetaController) create(g *gin.Context) {
	var req models.CategoryCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("CATEGORY: invalid create category request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	category, msg := buildCategory(req.Name, req.Description, req.Type, req.Generation, req.AllowedRoles)
	if msg != "" {
		logging.Log.Warnf("CATEGORY: rejected create request: %s", msg)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
		return
	}
	category.ID = strings.TrimSpace(req.ID)
	if category.ID == "" {
		category.ID = newID()
	}
	category.Order = req.Order
	category.CreatedAt = time.Now().UTC()
	category.CreatedBy = transport.AdminFrom(g)

	if err := c.storage.Create(g.Request.Context(), category); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			logging.Log.Warnf("CATEGORY: category with ID %s already exists", category.ID)
			g.JSON(http.StatusConflict, models.ErrorResponse{Error: "category with ID already exists"})
			return
		}

		logging.Log.Errorf("CATEGORY: failed to create category: %v", err)
		writeInternalError(g, err)
		return
	}
	logging.Log.Infof("CATEGORY: %s created %s (%s)", category.CreatedBy, category.ID, category.Name)
	g.JSON(http.StatusOK, models.TransformCategoryFromStorage(category))
}

// @Security AdminToken
// @Summary Update an existing voting category
// @Tags Meta/Categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param category body models.CategoryUpdateRequest true "Category object"
// @Success 200 {object} models.CategoryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/categories/{id} [put]
func (c *CategoryMetaController) update(g *gin.Context) {
	id := g.Param("id")

	var req models.CategoryUpdateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("CATEGORY: invalid update category request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	category, msg := buildCategory(req.Name, req.Description, req.Type, req.Generation, req.AllowedRoles)
	if msg != "" {
		logging.Log.Warnf("CATEGORY: rejected update of %s: %s", id, msg)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
		return
	}

	existing, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("CATEGORY: failed to get category %s: %v", id, err)
		writeInternalError(g, err)
		return
	}
	if existing == nil {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "category not found"})
		return
	}
	category.ID = id
	category.Order = req.Order
	category.CreatedAt = existing.CreatedAt
	category.CreatedBy = existing.CreatedBy

	if err := c.storage.Update(g.Request.Context(), category); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "category not found"})
			return
		}
		logging.Log.Errorf("CATEGORY: failed to update category: %v", err)
		writeInternalError(g, err)
		return
	}
	logging.Log.Infof("CATEGORY: %s updated %s", transport.AdminFrom(g), id)
	g.JSON(http.StatusOK, models.TransformCategoryFromStorage(category))
}

// @Security AdminToken
// @Summary Delete a voting category
// @Tags Meta/Categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} models.MessageResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/categories/{id} [delete]
func (c *CategoryMetaController) delete(g *gin.Context) {
	id := g.Param("id")
	if err := c.storage.Delete(g.Request.Context(), id); err != nil {
		logging.Log.Errorf("CATEGORY: failed to delete category: %v", err)
		writeInternalError(g, err)
		return
	}
	logging.Log.Infof("CATEGORY: %s deleted %s", transport.AdminFrom(g), id)
	g.JSON(http.StatusOK, models.MessageResponse{Message: "category deleted"})
}

// buildCategory validates the editable fields and returns a message when
// they are not acceptable.
func buildCategory(name, description, categoryType string, generation int, allowedRoles []string) (*storage.Category, string) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	ct := storage.CategoryType(strings.ToLower(strings.TrimSpace(categoryType)))

	switch {
	case len([]rune(name)) < 3:
		return nil, "name must have at least 3 characters"
	case len([]rune(description)) < 10:
		return nil, "description must have at least 10 characters"
	case ct == storage.CategoryTypeLegacy:
		return nil, "type is required"
	}
	if _, ok := storage.ValidCategoryTypes[ct]; !ok {
		return nil, "unknown category type " + string(ct)
	}

	if ct == storage.CategoryTypeCommunity {
		if generation < 1 {
			return nil, "community categories require a generation"
		}
	} else {
		generation = 0
	}

	roles := make([]storage.Role, 0, len(allowedRoles))
	for _, r := range allowedRoles {
		role := storage.Role(strings.ToLower(strings.TrimSpace(r)))
		if _, ok := storage.ValidRoles[role]; !ok {
			return nil, "unknown role " + r
		}
		roles = append(roles, role)
	}

	return &storage.Category{
		Name:         name,
		Description:  description,
		Type:         ct,
		Generation:   generation,
		AllowedRoles: roles,
	}, ""
}

func newID() string {
	id, err := gonanoid.New(12)
	if err != nil {
		logging.Log.Errorf("META: failed to generate id: %v", err)
		return time.Now().UTC().Format("20060102150405.000000000")
	}
	return id
}
