package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"trade-journal/internal/config"
	"trade-journal/internal/errors"
	"trade-journal/pkg/utils"
)

const defaultWebhookTimeout = 10 * time.Second

// WebhookNotifier posts notifications as JSON to an HTTP endpoint.
// Server errors are retried twice before the send fails, and repeated
// failures suspend the channel for a cooldown.
type WebhookNotifier struct {
	url     string
	enabled bool
	client  *resty.Client
	breaker *Breaker
}

// webhookPayload is the JSON body posted to the endpoint.
type webhookPayload struct {
	Type      NotificationType       `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// NewWebhookNotifier creates a new WebhookNotifier.
func NewWebhookNotifier(cfg config.WebhookConfig) *WebhookNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "TradeJournal/1.0").
		SetRetryCount(2).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return r != nil && r.StatusCode() >= 500
		})

	return &WebhookNotifier{
		url:     cfg.URL,
		enabled: cfg.Enabled && cfg.URL != "",
		client:  client,
		breaker: NewBreaker(DefaultFailureThreshold, DefaultCooldown),
	}
}

// Breaker returns the breaker guarding the endpoint.
func (w *WebhookNotifier) Breaker() *Breaker {
	return w.breaker
}

// Name returns the name of the notifier.
func (w *WebhookNotifier) Name() string {
	return "webhook"
}

// IsEnabled returns whether the notifier is enabled.
func (w *WebhookNotifier) IsEnabled() bool {
	return w.enabled
}

// Send sends a notification via webhook.
func (w *WebhookNotifier) Send(ctx context.Context, n Notification) error {
	if !w.enabled {
		return nil
	}

	payload := webhookPayload{
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		Timestamp: n.Timestamp.Format(time.RFC3339),
	}

	return w.breaker.Do(func() error {
		return w.post(ctx, payload)
	})
}

func (w *WebhookNotifier) post(ctx context.Context, payload webhookPayload) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(w.url)
	if err != nil {
		// Transport errors quote the URL, which carries the webhook token.
		msg := strings.ReplaceAll(err.Error(), w.url, utils.RedactURL(w.url))
		return fmt.Errorf("%w: sending webhook: %s", errors.ErrNotifyFailed, msg)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("%w: webhook returned status %d", errors.ErrNotifyFailed, resp.StatusCode())
	}

	return nil
}
