package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Pierocul/DIDAWARDS/api/models"
	"github.com/Pierocul/DIDAWARDS/api/transport"
	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/storage"
	"github.com/Pierocul/DIDAWARDS/voting"
	"github.com/gin-gonic/gin"
)

type UserAdminController struct {
	storage       storage.UserStorage
	emails        voting.EmailRule
	maxGeneration int
	adminAuth     gin.HandlerFunc
}

func NewUserAdminController(s storage.UserStorage, emails voting.EmailRule, maxGeneration int, adminAuth gin.HandlerFunc) *UserAdminController {
	return &UserAdminController{storage: s, emails: emails, maxGeneration: maxGeneration, adminAuth: adminAuth}
}

func (c *UserAdminController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/admin/users", c.adminAuth)

	group.GET("", c.getAll)
	group.GET("/:email", c.get)
	group.POST("", c.create)
	group.PUT("/:email", c.update)
	group.DELETE("/:email", c.delete)
}

// @Security AdminToken
// @Summary List registered users
// @Tags Admin/Users
// @Produce json
// @Success 200 {array} models.UserResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/users [get]
func (c *UserAdminController) getAll(g *gin.Context) {
	users, err := c.storage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to list users: %v", err)
		writeInternalError(g, err)
		return
	}
	responses := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, models.TransformUserFromStorage(u))
	}
	logging.Log.Infof("ADMIN: listed %d users", len(users))
	g.JSON(http.StatusOK, responses)
}

// @Security AdminToken
// @Summary Get a user by email
// @Tags Admin/Users
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/users/{email} [get]
func (c *UserAdminController) get(g *gin.Context) {
	email, ok := c.emailParam(g)
	if !ok {
		return
	}
	user, err := c.storage.Get(g.Request.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "user not found"})
			return
		}
		logging.Log.Errorf("ADMIN: failed to get user %s: %v", email, err)
		writeInternalError(g, err)
		return
	}
	g.JSON(http.StatusOK, models.TransformUserFromStorage(user))
}

// @Security AdminToken
// @Summary Register a user
// @Tags Admin/Users
// @Accept json
// @Produce json
// @Param user body models.UserCreateRequest true "User object"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/users [post]
func (c *UserAdminController) create(g *gin.Context) {
	var req models.UserCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("ADMIN: invalid create user request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	email := voting.NormalizeEmail(req.Email)
	if err := c.emails.Validate(email); err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	role, generation, msg := c.roleAndGeneration(req.Role, req.Generation)
	if msg != "" {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
		return
	}

	now := time.Now().UTC()
	user := &storage.User{
		Email:       email,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Role:        role,
		Generation:  generation,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
		UpdatedBy:   transport.AdminFrom(g),
	}
	if err := c.storage.Create(g.Request.Context(), user); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			g.JSON(http.StatusConflict, models.ErrorResponse{Error: "user already exists"})
			return
		}
		logging.Log.Errorf("ADMIN: failed to create user %s: %v", email, err)
		writeInternalError(g, err)
		return
	}
	logging.Log.Infof("ADMIN: %s registered %s as %s", user.UpdatedBy, email, role)
	g.JSON(http.StatusOK, models.TransformUserFromStorage(user))
}

// @Security AdminToken
// @Summary Update role, generation or status of a user
// @Tags Admin/Users
// @Accept json
// @Produce json
// @Param email path string true "Email"
// @Param user body models.UserUpdateRequest true "User object"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/users/{email} [put]
func (c *UserAdminController) update(g *gin.Context) {
	email, ok := c.emailParam(g)
	if !ok {
		return
	}

	var req models.UserUpdateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("ADMIN: invalid update user request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	role, generation, msg := c.roleAndGeneration(req.Role, req.Generation)
	if msg != "" {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
		return
	}

	user, err := c.storage.Get(g.Request.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "user not found"})
			return
		}
		logging.Log.Errorf("ADMIN: failed to get user %s: %v", email, err)
		writeInternalError(g, err)
		return
	}

	user.Role = role
	user.Generation = generation
	if name := strings.TrimSpace(req.DisplayName); name != "" {
		user.DisplayName = name
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedAt = time.Now().UTC()
	user.UpdatedBy = transport.AdminFrom(g)

	if err := c.storage.Update(g.Request.Context(), user); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "user not found"})
			return
		}
		logging.Log.Errorf("ADMIN: failed to update user %s: %v", email, err)
		writeInternalError(g, err)
		return
	}
	logging.Log.Infof("ADMIN: %s set %s to %s generation %d", user.UpdatedBy, email, role, generation)
	g.JSON(http.StatusOK, models.TransformUserFromStorage(user))
}

// @Security AdminToken
// @Summary Delete a user
// @Tags Admin/Users
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/users/{email} [delete]
func (c *UserAdminController) delete(g *gin.Context) {
	email, ok := c.emailParam(g)
	if !ok {
		return
	}
	if err := c.storage.Delete(g.Request.Context(), email); err != nil {
		logging.Log.Errorf("ADMIN: failed to delete user %s: %v", email, err)
		writeInternalError(g, err)
		return
	}
	logging.Log.Infof("ADMIN: %s deleted user %s", transport.AdminFrom(g), email)
	g.JSON(http.StatusOK, models.MessageResponse{Message: "user deleted"})
}

func (c *UserAdminController) emailParam(g *gin.Context) (string, bool) {
	email := voting.NormalizeEmail(g.Param("email"))
	if err := c.emails.Validate(email); err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return "", false
	}
	return email, true
}

// roleAndGeneration keeps a generation only for students.
func (c *UserAdminController) roleAndGeneration(rawRole string, generation int) (storage.Role, int, string) {
	role := storage.Role(strings.ToLower(strings.TrimSpace(rawRole)))
	if _, ok := storage.ValidRoles[role]; !ok {
		return "", 0, fmt.Sprintf("role must be one of student, professor, guest (got %q)", rawRole)
	}
	if role != storage.RoleStudent {
		return role, 0, ""
	}
	if generation < 1 {
		return "", 0, "students require a generation"
	}
	if c.maxGeneration > 0 && generation > c.maxGeneration {
		return "", 0, fmt.Sprintf("generation must be between 1 and %d", c.maxGeneration)
	}
	return role, generation, ""
}
