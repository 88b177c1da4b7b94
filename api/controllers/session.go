package controllers

import (
	"net/http"

	"github.com/Pierocul/DIDAWARDS/api/models"
	"github.com/Pierocul/DIDAWARDS/api/transport"
	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/voting"
	"github.com/gin-gonic/gin"
)

type SessionController struct {
	registry *voting.Registry
}

func NewSessionController(registry *voting.Registry) *SessionController {
	return &SessionController{registry: registry}
}

func (c *SessionController) RegisterRoutes(engine *gin.Engine) {
	engine.POST("/api/session", c.create)

	group := engine.Group("/api/session", transport.SessionMiddleware(c.registry))
	group.GET("", c.view)
	group.POST("/code", c.sendCode)
	group.POST("/verify", c.verify)
	group.POST("/generation", c.confirmGeneration)
	group.POST("/vote", c.vote)
	group.POST("/skip", c.skip)
	group.POST("/logout", c.logout)
}

// @Summary Start a new voting session
// @Tags Session
// @Produce json
// @Success 200 {object} models.SessionResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/session [post]
func (c *SessionController) create(g *gin.Context) {
	session, err := c.registry.Create()
	if err != nil {
		logging.Log.Errorf("SESSION: failed to create session: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "could not start a session"})
		return
	}
	res := models.TransformSessionView(session.View())
	res.Token = session.ID()
	g.JSON(http.StatusOK, res)
}

// @Security SessionToken
// @Summary Current state of the session
// @Tags Session
// @Produce json
// @Success 200 {object} models.SessionResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/session [get]
func (c *SessionController) view(g *gin.Context) {
	session := transport.SessionFrom(g)
	g.JSON(http.StatusOK, models.TransformSessionView(session.View()))
}

// @Security SessionToken
// @Summary Send a verification code to an institutional email
// @Tags Session
// @Accept json
// @Produce json
// @Param request body models.SendCodeRequest true "Email"
// @Success 200 {object} models.SessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/session/code [post]
func (c *SessionController) sendCode(g *gin.Context) {
	session := transport.SessionFrom(g)

	var req models.SendCodeRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("SESSION: invalid send code request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	if err := session.SendCode(g.Request.Context(), req.Email); err != nil {
		logging.Log.Warnf("SESSION: %s send code failed: %v", session.ID(), err)
		writeError(g, err)
		return
	}
	g.JSON(http.StatusOK, models.TransformSessionView(session.View()))
}

// @Security SessionToken
// @Summary Check the verification code
// @Tags Session
// @Accept json
// @Produce json
// @Param request body models.VerifyCodeRequest true "Code"
// @Success 200 {object} models.SessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/session/verify [post]
func (c *SessionController) verify(g *gin.Context) {
	session := transport.SessionFrom(g)

	var req models.VerifyCodeRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("SESSION: invalid verify request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	if err := session.Verify(g.Request.Context(), req.Code); err != nil {
		writeError(g, err)
		return
	}
	g.JSON(http.StatusOK, models.TransformSessionView(session.View()))
}

// @Security SessionToken
// @Summary Confirm the generation of a student
// @Tags Session
// @Accept json
// @Produce json
// @Param request body models.GenerationRequest true "Generation"
// @Success 200 {object} models.SessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/session/generation [post]
func (c *SessionController) confirmGeneration(g *gin.Context) {
	session := transport.SessionFrom(g)

	var req models.GenerationRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("SESSION: invalid generation request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	if err := session.ConfirmGeneration(g.Request.Context(), req.Generation); err != nil {
		writeError(g, err)
		return
	}
	g.JSON(http.StatusOK, models.TransformSessionView(session.View()))
}

// @Security SessionToken
// @Summary Vote for a candidate of the current category
// @Tags Session
// @Accept json
// @Produce json
// @Param request body models.VoteRequest true "Candidate"
// @Success 200 {object} models.VoteResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/session/vote [post]
func (c *SessionController) vote(g *gin.Context) {
	session := transport.SessionFrom(g)

	var req models.VoteRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.CandidateID == "" {
		logging.Log.Errorf("VOTE: invalid vote request: %v", err)
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request"})
		return
	}

	meta := voting.ClientMeta{
		UserAgent: g.Request.UserAgent(),
		IPAddress: g.ClientIP(),
	}
	record, err := session.Vote(g.Request.Context(), req.CandidateID, meta)
	if err != nil {
		logging.Log.Warnf("VOTE: %s vote for %s rejected: %v", session.ID(), req.CandidateID, err)
		writeError(g, err)
		return
	}

	g.JSON(http.StatusOK, models.VoteResponse{
		Message:     "vote registered",
		VoteID:      record.ID,
		CandidateID: record.CandidateID,
		Session:     models.TransformSessionView(session.View()),
	})
}

// @Security SessionToken
// @Summary Skip the current category
// @Tags Session
// @Produce json
// @Success 200 {object} models.SessionResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/session/skip [post]
func (c *SessionController) skip(g *gin.Context) {
	session := transport.SessionFrom(g)
	if err := session.Skip(); err != nil {
		writeError(g, err)
		return
	}
	g.JSON(http.StatusOK, models.TransformSessionView(session.View()))
}

// @Security SessionToken
// @Summary Forget the current user and return to the login step
// @Tags Session
// @Produce json
// @Success 200 {object} models.SessionResponse
// @Router /api/session/logout [post]
func (c *SessionController) logout(g *gin.Context) {
	session := transport.SessionFrom(g)
	session.Logout()
	g.JSON(http.StatusOK, models.TransformSessionView(session.View()))
}
