// Package notify pushes one-way webhook notifications when a benchmark
// or timing run needs human attention.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

// Event types gating notifications.
const (
	EventRegression = "on_regression"
	EventFailure    = "on_failure"
)

// Notifier sends a message somewhere.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// WebhookNotifier posts messages to an incoming webhook (Slack-style
// {"text": ...} payload).
type WebhookNotifier struct {
	WebhookURL string
	Client     *http.Client
}

func NewWebhookNotifier(webhookURL string) *WebhookNotifier {
	return &WebhookNotifier{
		WebhookURL: webhookURL,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, message string) error {
	if n.WebhookURL == "" {
		return fmt.Errorf("webhook URL is not configured")
	}

	body, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification failed with status: %s", resp.Status)
	}
	return nil
}

// Manager dispatches event notifications according to configuration.
// When notifications are disabled or the event is switched off, Send is
// a no-op.
type Manager struct {
	notifier Notifier
}

// NewManager builds a Manager from viper configuration. Returns a
// manager that drops everything when notify.enabled is false.
func NewManager() *Manager {
	m := &Manager{}
	if viper.GetBool("notify.enabled") {
		m.notifier = NewWebhookNotifier(viper.GetString("notify.webhook_url"))
	}
	return m
}

// Send notifies for the event if it is enabled.
func (m *Manager) Send(ctx context.Context, event, message string) error {
	if m.notifier == nil {
		return nil
	}
	if !viper.GetBool("notify." + event) {
		return nil
	}
	return m.notifier.Notify(ctx, message)
}
