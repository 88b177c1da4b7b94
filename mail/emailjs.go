package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/voting"
)

const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

type EmailJSConfig struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string // optional access token for server-side calls
	Endpoint   string
	FromName   string
}

// Validate mirrors the checks of the configuration screen.
func (c EmailJSConfig) Validate() error {
	if c.ServiceID == "" || c.TemplateID == "" || c.PublicKey == "" {
		return fmt.Errorf("emailjs: serviceId, templateId and publicKey are required")
	}
	if !strings.HasPrefix(c.ServiceID, "service_") {
		return fmt.Errorf("emailjs: serviceId must start with \"service_\"")
	}
	if !strings.HasPrefix(c.TemplateID, "template_") {
		return fmt.Errorf("emailjs: templateId must start with \"template_\"")
	}
	return nil
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

type EmailJSClient struct {
	config     EmailJSConfig
	httpClient *http.Client
}

func NewEmailJSClient(config EmailJSConfig) (*EmailJSClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultEmailJSEndpoint
	}
	if config.FromName == "" {
		config.FromName = "DID Awards"
	}
	return &EmailJSClient{
		config:     config,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (c *EmailJSClient) SendCode(ctx context.Context, msg voting.CodeMessage) error {
	body, err := json.Marshal(emailJSRequest{
		ServiceID:   c.config.ServiceID,
		TemplateID:  c.config.TemplateID,
		UserID:      c.config.PublicKey,
		AccessToken: c.config.PrivateKey,
		TemplateParams: map[string]string{
			"to_email":          msg.To,
			"verification_code": msg.Code,
			"user_name":         msg.DisplayName,
			"reply_to":          msg.To,
			"from_name":         c.config.FromName,
			"to_name":           msg.DisplayName,
		},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("emailjs: status %d: %s", res.StatusCode, strings.TrimSpace(string(text)))
	}
	logging.Log.Infof("MAIL: verification code sent to %s", msg.To)
	return nil
}
