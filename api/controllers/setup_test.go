package controllers

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	testutils "github.com/Pierocul/DIDAWARDS/api/controllers/testing"
	"github.com/Pierocul/DIDAWARDS/api/models"
	"github.com/Pierocul/DIDAWARDS/api/transport"
	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/storage"
	"github.com/Pierocul/DIDAWARDS/voting"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const testAdminToken = "secret"

var adminHeaders = map[string]string{"x-admin-token": testAdminToken}

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *captureMailer) SendCode(_ context.Context, msg voting.CodeMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.codes == nil {
		m.codes = make(map[string]string)
	}
	m.codes[msg.To] = msg.Code
	return nil
}

func (m *captureMailer) codeFor(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

type testEnv struct {
	router *gin.Engine
	store  *storage.Store
	mailer *captureMailer
}

// setupTestRouter wires every controller over a fresh in-memory store.
// Without configured the email service is left unset.
func setupTestRouter(t *testing.T, configured bool) *testEnv {
	t.Helper()
	logging.Log = logrus.New()
	logging.Log.SetLevel(logrus.PanicLevel)

	store := storage.NewMemoryStore()
	seedTestData(t, store)

	env := &testEnv{store: store, mailer: &captureMailer{}}
	var mailer voting.Mailer
	if configured {
		mailer = env.mailer
	}

	emails := voting.EmailRule{Domain: "@udd.cl"}
	registry := voting.NewRegistry(voting.Dependencies{
		Store:  store,
		Mailer: mailer,
		Settings: voting.Settings{
			Emails:        emails,
			MaxGeneration: 5,
			AdminEmails:   []string{"pedro@udd.cl"},
		},
	}, time.Hour)
	adminAuth := transport.AdminAuthMiddleware(testAdminToken, registry)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewSessionController(registry).RegisterRoutes(r)
	NewCategoryMetaController(store.Categories, adminAuth).RegisterRoutes(r)
	NewCandidateMetaController(store.Candidates, store.Categories, adminAuth).RegisterRoutes(r)
	NewUserAdminController(store.Users, emails, 5, adminAuth).RegisterRoutes(r)
	NewAdminController(store, emails, adminAuth).RegisterRoutes(r)

	env.router = r
	return env
}

func seedTestData(t *testing.T, store *storage.Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	categories := []*storage.Category{
		{ID: "c1", Name: "Academic award", Description: "Best research of the year", Type: storage.CategoryTypeAcademic, Order: 1, CreatedAt: now},
		{ID: "c2", Name: "Community award", Description: "Best club of generation three", Type: storage.CategoryTypeCommunity, Generation: 3, Order: 2, CreatedAt: now},
		{ID: "c3", Name: "Teacher award", Description: "Best teacher according to students", Type: storage.CategoryTypeTeacher, Order: 3, CreatedAt: now},
	}
	for _, c := range categories {
		require.NoError(t, store.Categories.Create(ctx, c))
	}
	candidates := []*storage.Candidate{
		{ID: "a1", CategoryID: "c1", Name: "Lab A", CreatedAt: now},
		{ID: "b1", CategoryID: "c2", Name: "Club B", CreatedAt: now},
		{ID: "b2", CategoryID: "c2", Name: "Club C", CreatedAt: now},
		{ID: "t1", CategoryID: "c3", Name: "Prof T", CreatedAt: now},
	}
	for _, c := range candidates {
		require.NoError(t, store.Candidates.Create(ctx, c))
	}
	users := []*storage.User{
		{Email: "ana@udd.cl", DisplayName: "Ana", Role: storage.RoleStudent, Generation: 3, IsActive: true},
		{Email: "pedro@udd.cl", DisplayName: "Pedro", Role: storage.RoleProfessor, IsActive: true},
	}
	for _, u := range users {
		require.NoError(t, store.Users.Create(ctx, u))
	}
}

// startSession opens a session and returns its token.
func (e *testEnv) startSession(t *testing.T) string {
	t.Helper()
	w := testutils.PerformRequest(e.router, http.MethodPost, "/api/session", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res models.SessionResponse
	require.NoError(t, testutils.DecodeJSON(w, &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

// loginAs runs the code exchange for email on a new session.
func (e *testEnv) loginAs(t *testing.T, email string) string {
	t.Helper()
	token := e.startSession(t)
	headers := map[string]string{"x-session-token": token}

	w := testutils.PerformRequest(e.router, http.MethodPost, "/api/session/code", models.SendCodeRequest{Email: email}, headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = testutils.PerformRequest(e.router, http.MethodPost, "/api/session/verify", models.VerifyCodeRequest{Code: e.mailer.codeFor(email)}, headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return token
}
