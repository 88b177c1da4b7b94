package api

import (
	"net/http"
	"testing"
	"time"

	testutils "github.com/Pierocul/DIDAWARDS/api/controllers/testing"
	"github.com/Pierocul/DIDAWARDS/api/models"
	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/mail"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLogger() {
	logging.Log = logrus.New()
	logging.Log.SetLevel(logrus.PanicLevel)
}

func memoryConfig() *Config {
	return &Config{
		StorageConfig: StorageConfig{Backend: StorageBackendMemory, SeedExample: true},
		VotingConfig:  VotingConfig{Domain: "@udd.cl", MaxGeneration: 5, SessionIdleTimeout: time.Hour},
		EmailConfig:   EmailConfig{Provider: EmailProviderLog},
		AdminConfig:   AdminConfig{Token: "secret"},
	}
}

func TestReadConfigDefaults(t *testing.T) {
	setupLogger()
	viper.Reset()
	t.Cleanup(viper.Reset)

	conf := ReadConfig()
	assert.Equal(t, StorageBackendDynamo, conf.Backend)
	assert.Equal(t, "Votes", conf.TableNameVotes)
	assert.Equal(t, 8080, conf.Port)
	assert.Equal(t, "@udd.cl", conf.Domain)
	assert.Equal(t, 5, conf.MaxGeneration)
	assert.Equal(t, 2*time.Hour, conf.SessionIdleTimeout)
	assert.Equal(t, EmailProviderEmailJS, conf.Provider)
	assert.Empty(t, conf.AdminConfig.Emails)
}

func TestReadConfigOverrides(t *testing.T) {
	setupLogger()
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("storage.backend", "memory")
	viper.Set("voting.maxGeneration", 7)
	viper.Set("session.idleTimeout", "30m")
	viper.Set("admin.emails", "pedro@udd.cl, rector@udd.cl")
	viper.Set("email.serviceId", "service_1")

	conf := ReadConfig()
	assert.Equal(t, StorageBackendMemory, conf.Backend)
	assert.Equal(t, 7, conf.MaxGeneration)
	assert.Equal(t, 30*time.Minute, conf.SessionIdleTimeout)
	assert.Equal(t, []string{"pedro@udd.cl", "rector@udd.cl"}, conf.AdminConfig.Emails)
	assert.Equal(t, "service_1", conf.EmailJS.ServiceID)
}

func TestNewMailer(t *testing.T) {
	setupLogger()

	s := NewServer(memoryConfig())
	assert.IsType(t, mail.LogMailer{}, s.newMailer())

	s = NewServer(&Config{EmailConfig: EmailConfig{Provider: EmailProviderEmailJS}})
	assert.Nil(t, s.newMailer(), "incomplete EmailJS settings leave the mailer unset")
}

func TestRoutes(t *testing.T) {
	setupLogger()

	s := NewServer(memoryConfig())
	store := s.openStore()
	r := s.Routes(gin.TestMode, store, s.newMailer())

	w := testutils.PerformRequest(r, http.MethodOptions, "/api/session", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = testutils.PerformRequest(r, http.MethodGet, "/nowhere", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutils.PerformRequest(r, http.MethodPost, "/api/session", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session models.SessionResponse
	require.NoError(t, testutils.DecodeJSON(w, &session))
	assert.NotEmpty(t, session.Token)

	w = testutils.PerformRequest(r, http.MethodGet, "/api/meta/categories", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []models.CategoryResponse
	require.NoError(t, testutils.DecodeJSON(w, &categories))
	assert.NotEmpty(t, categories, "the example catalog is seeded")

	w = testutils.PerformRequest(r, http.MethodGet, "/api/admin/stats", nil, map[string]string{"x-admin-token": "secret"})
	assert.Equal(t, http.StatusOK, w.Code)
}
