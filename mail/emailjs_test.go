package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/voting"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(endpoint string) EmailJSConfig {
	return EmailJSConfig{
		ServiceID:  "service_abc",
		TemplateID: "template_xyz",
		PublicKey:  "pub",
		PrivateKey: "priv",
		Endpoint:   endpoint,
	}
}

func TestEmailJSConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig("").Validate())

	missing := validConfig("")
	missing.PublicKey = ""
	assert.Error(t, missing.Validate())

	badService := validConfig("")
	badService.ServiceID = "abc"
	assert.ErrorContains(t, badService.Validate(), "service_")

	badTemplate := validConfig("")
	badTemplate.TemplateID = "xyz"
	assert.ErrorContains(t, badTemplate.Validate(), "template_")

	_, err := NewEmailJSClient(badTemplate)
	assert.Error(t, err)
}

func TestEmailJSClientSendCode(t *testing.T) {
	logging.Log = logrus.New()

	t.Run("Happy path - posts the template parameters", func(t *testing.T) {
		var received emailJSRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		}))
		defer server.Close()

		client, err := NewEmailJSClient(validConfig(server.URL))
		require.NoError(t, err)

		err = client.SendCode(context.Background(), voting.CodeMessage{To: "ana@udd.cl", Code: "482913", DisplayName: "Ana"})
		require.NoError(t, err)

		assert.Equal(t, "service_abc", received.ServiceID)
		assert.Equal(t, "template_xyz", received.TemplateID)
		assert.Equal(t, "pub", received.UserID)
		assert.Equal(t, "priv", received.AccessToken)
		assert.Equal(t, map[string]string{
			"to_email":          "ana@udd.cl",
			"verification_code": "482913",
			"user_name":         "Ana",
			"reply_to":          "ana@udd.cl",
			"from_name":         "DID Awards",
			"to_name":           "Ana",
		}, received.TemplateParams)
	})

	t.Run("Unhappy path - non 200 is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("The service ID is invalid"))
		}))
		defer server.Close()

		client, err := NewEmailJSClient(validConfig(server.URL))
		require.NoError(t, err)

		err = client.SendCode(context.Background(), voting.CodeMessage{To: "ana@udd.cl", Code: "1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "400")
		assert.Contains(t, err.Error(), "service ID is invalid")
	})

	t.Run("Unhappy path - cancelled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client, err := NewEmailJSClient(validConfig(server.URL))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Error(t, client.SendCode(ctx, voting.CodeMessage{To: "ana@udd.cl", Code: "1"}))
	})
}

func TestLogMailer(t *testing.T) {
	logging.Log = logrus.New()
	assert.NoError(t, LogMailer{}.SendCode(context.Background(), voting.CodeMessage{To: "ana@udd.cl", Code: "123456"}))
}
