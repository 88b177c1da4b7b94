package controllers

import (
	"context"
	"net/http"
	"testing"

	testutils "github.com/Pierocul/DIDAWARDS/api/controllers/testing"
	"github.com/Pierocul/DIDAWARDS/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAllCandidates(t *testing.T) {
	env := setupTestRouter(t, true)

	w := testutils.PerformRequest(env.router, http.MethodGet, "/api/meta/candidates", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.CandidateResponse
	require.NoError(t, testutils.DecodeJSON(w, &all))
	assert.Len(t, all, 4)

	w = testutils.PerformRequest(env.router, http.MethodGet, "/api/meta/candidates?categoryId=c2", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var filtered []models.CandidateResponse
	require.NoError(t, testutils.DecodeJSON(w, &filtered))
	assert.Len(t, filtered, 2)
}

func TestCreateCandidate(t *testing.T) {
	env := setupTestRouter(t, true)

	t.Run("Happy path", func(t *testing.T) {
		req := models.CandidateCreateRequest{
			ID:         "n1",
			CategoryID: "c3",
			Name:       "Prof N",
			Image:      "https://example.com/n.png",
		}
		w := testutils.PerformRequest(env.router, http.MethodPost, "/api/meta/candidates", req, adminHeaders)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res models.CandidateResponse
		require.NoError(t, testutils.DecodeJSON(w, &res))
		assert.Equal(t, "n1", res.ID)
		assert.Equal(t, 0, res.Votes)
	})

	t.Run("Unhappy path - validation", func(t *testing.T) {
		cases := map[string]models.CandidateCreateRequest{
			"missing category": {Name: "Valid"},
			"unknown category": {CategoryID: "ghost", Name: "Valid"},
			"short name":       {CategoryID: "c3", Name: "X"},
			"bad image":        {CategoryID: "c3", Name: "Valid", Image: "not a url"},
			"bad project":      {CategoryID: "c3", Name: "Valid", ProjectImage: "ftp://example.com/x"},
		}
		for name, req := range cases {
			w := testutils.PerformRequest(env.router, http.MethodPost, "/api/meta/candidates", req, adminHeaders)
			assert.Equal(t, http.StatusBadRequest, w.Code, name)
		}
	})

	t.Run("Unhappy path - duplicate ID", func(t *testing.T) {
		req := models.CandidateCreateRequest{ID: "t1", CategoryID: "c3", Name: "Again"}
		w := testutils.PerformRequest(env.router, http.MethodPost, "/api/meta/candidates", req, adminHeaders)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUpdateCandidateKeepsVotes(t *testing.T) {
	env := setupTestRouter(t, true)
	ctx := context.Background()
	require.NoError(t, env.store.UpdateCandidateVoteCount(ctx, "t1", 0, 4))

	req := models.CandidateUpdateRequest{CategoryID: "c3", Name: "Prof T renamed", Description: "Updated"}
	w := testutils.PerformRequest(env.router, http.MethodPut, "/api/meta/candidates/t1", req, adminHeaders)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res models.CandidateResponse
	require.NoError(t, testutils.DecodeJSON(w, &res))
	assert.Equal(t, "Prof T renamed", res.Name)
	assert.Equal(t, 4, res.Votes)

	req.CategoryID = "ghost"
	w = testutils.PerformRequest(env.router, http.MethodPut, "/api/meta/candidates/t1", req, adminHeaders)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutils.PerformRequest(env.router, http.MethodPut, "/api/meta/candidates/ghost", models.CandidateUpdateRequest{CategoryID: "c3", Name: "Nobody"}, adminHeaders)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutils.PerformRequest(env.router, http.MethodDelete, "/api/meta/candidates/t1", nil, adminHeaders)
	require.Equal(t, http.StatusOK, w.Code)
	w = testutils.PerformRequest(env.router, http.MethodGet, "/api/meta/candidates/t1", nil, adminHeaders)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
