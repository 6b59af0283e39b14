package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"workplace-api/internal/metrics"
)

// MailEventType represents the kind of outgoing mail
type MailEventType string

const (
	MailVerificationCode MailEventType = "VERIFICATION_CODE"
	MailInvitation       MailEventType = "WORKPLACE_INVITATION"
)

// MailEvent is the payload accepted by the mailer service
type MailEvent struct {
	Type       MailEventType     `json:"type"`
	Recipient  string            `json:"recipient"`
	Variables  map[string]string `json:"variables,omitempty"`
	OccurredAt string            `json:"occurredAt,omitempty"`
}

// mailNotifier implements service.Notifier over the mailer service's
// internal HTTP API
type mailNotifier struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewMailNotifier creates a mailer client
func NewMailNotifier(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *mailNotifier {
	return &mailNotifier{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    m,
	}
}

// NotifyVerificationCode sends a registration verification code
func (c *mailNotifier) NotifyVerificationCode(ctx context.Context, email, code string) error {
	return c.send(ctx, MailEvent{
		Type:      MailVerificationCode,
		Recipient: email,
		Variables: map[string]string{"code": code},
	})
}

// NotifyInvitation sends a workplace invitation with its claim token
func (c *mailNotifier) NotifyInvitation(ctx context.Context, email, workplaceName, token string) error {
	return c.send(ctx, MailEvent{
		Type:      MailInvitation,
		Recipient: email,
		Variables: map[string]string{
			"workplace": workplaceName,
			"token":     token,
		},
	})
}

func (c *mailNotifier) send(ctx context.Context, event MailEvent) error {
	url := fmt.Sprintf("%s/api/internal/mail", c.baseURL)

	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	jsonBody, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal mail event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordExternalAPICall(url, http.MethodPost, 0, duration, err)
		}
		c.logger.Warn("Mail request failed",
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send mail event: %w", err)
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(url, http.MethodPost, resp.StatusCode, duration, nil)
	}

	if resp.StatusCode >= 300 {
		c.logger.Warn("Mailer rejected event",
			zap.String("type", string(event.Type)),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("mailer returned status %d", resp.StatusCode)
	}
	return nil
}
