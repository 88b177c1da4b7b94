package controllers

import (
	"errors"
	"net/http"

	"github.com/Pierocul/DIDAWARDS/api/models"
	"github.com/Pierocul/DIDAWARDS/storage"
	"github.com/Pierocul/DIDAWARDS/voting"
	"github.com/gin-gonic/gin"
)

const errInternal = "internal error, try again later"

func statusFor(err error) int {
	switch {
	case errors.Is(err, voting.ErrValidation), errors.Is(err, voting.ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, voting.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, voting.ErrAlreadyVoted),
		errors.Is(err, voting.ErrBusy),
		errors.Is(err, voting.ErrInvalidState),
		errors.Is(err, voting.ErrWalkExhausted):
		return http.StatusConflict
	case errors.Is(err, voting.ErrDelivery):
		return http.StatusBadGateway
	case errors.Is(err, voting.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, voting.ErrStore), errors.Is(err, voting.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// messageFor keeps storage details out of responses.
func messageFor(err error) string {
	switch {
	case errors.Is(err, voting.ErrStore):
		return voting.ErrStore.Error()
	case errors.Is(err, voting.ErrPermission):
		return voting.ErrPermission.Error()
	case errors.Is(err, voting.ErrDelivery):
		return voting.ErrDelivery.Error()
	case errors.Is(err, voting.ErrNotConfigured):
		return voting.ErrNotConfigured.Error()
	}
	return err.Error()
}

// writeInternalError answers a failed storage call without echoing the
// underlying error, which is only logged.
func writeInternalError(g *gin.Context, err error) {
	if errors.Is(err, storage.ErrPermissionDenied) {
		g.JSON(http.StatusForbidden, models.ErrorResponse{Error: voting.ErrPermission.Error()})
		return
	}
	g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: errInternal})
}

func writeError(g *gin.Context, err error) {
	g.JSON(statusFor(err), models.ErrorResponse{Error: messageFor(err)})
}
