package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/jobvault-systems/leads-backend/internal/metrics"
	"github.com/jobvault-systems/leads-backend/internal/models"
)

// Channel defines the interface for new-lead notification delivery.
// Delivery is best-effort everywhere a channel is used: a failed Send is
// logged and counted, never surfaced to the submitting form.
type Channel interface {
	Send(ctx context.Context, sub *models.Submission) error
	Type() string
}

// WebhookChannel forwards new submissions via HTTP POST.
type WebhookChannel struct {
	URL     string
	Timeout time.Duration
	client  *http.Client
}

// NewWebhookChannel creates a webhook notification channel.
func NewWebhookChannel(url string, timeout time.Duration) *WebhookChannel {
	return &WebhookChannel{
		URL:     url,
		Timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (w *WebhookChannel) Type() string {
	return "webhook"
}

func (w *WebhookChannel) Send(ctx context.Context, sub *models.Submission) error {
	payload := map[string]interface{}{
		"event":        "lead.created",
		"submission":   sub,
		"submitted_at": sub.SubmittedAt.UTC().Format(time.RFC3339),
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "JobVault-Leads/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		metrics.NotificationErrors.WithLabelValues(w.Type()).Inc()
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.NotificationErrors.WithLabelValues(w.Type()).Inc()
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	metrics.NotificationsSent.WithLabelValues(w.Type()).Inc()
	return nil
}

// SlackChannel posts new-lead summaries to a Slack incoming webhook.
type SlackChannel struct {
	WebhookURL string
	Timeout    time.Duration
	client     *http.Client
}

// NewSlackChannel creates a Slack notification channel.
func NewSlackChannel(webhookURL string, timeout time.Duration) *SlackChannel {
	return &SlackChannel{
		WebhookURL: webhookURL,
		Timeout:    timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *SlackChannel) Type() string {
	return "slack"
}

func (s *SlackChannel) Send(ctx context.Context, sub *models.Submission) error {
	name := "(no name)"
	if sub.Name != nil {
		name = *sub.Name
	}
	company := "-"
	if sub.Company != nil {
		company = *sub.Company
	}
	properties := "-"
	if sub.Properties != nil {
		properties = *sub.Properties
	}

	payload := map[string]interface{}{
		"text": fmt.Sprintf("📥 New lead: %s", sub.Email),
		"attachments": []map[string]interface{}{
			{
				"color": "#36a64f",
				"fields": []map[string]interface{}{
					{"title": "Name", "value": name, "short": true},
					{"title": "Email", "value": sub.Email, "short": true},
					{"title": "Company", "value": company, "short": true},
					{"title": "Properties", "value": properties, "short": true},
					{"title": "Source", "value": sub.Source, "short": true},
				},
				"footer": "JobVault Leads",
				"ts":     sub.SubmittedAt.Unix(),
			},
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.WebhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.NotificationErrors.WithLabelValues(s.Type()).Inc()
		return fmt.Errorf("send slack notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.NotificationErrors.WithLabelValues(s.Type()).Inc()
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}

	metrics.NotificationsSent.WithLabelValues(s.Type()).Inc()
	return nil
}

// NATSChannel publishes new submissions on a NATS subject for internal
// consumers (CRM sync, analytics).
type NATSChannel struct {
	conn    *nats.Conn
	subject string
}

// NewNATSChannel creates a NATS-backed notification channel.
func NewNATSChannel(conn *nats.Conn, subject string) *NATSChannel {
	return &NATSChannel{conn: conn, subject: subject}
}

func (n *NATSChannel) Type() string {
	return "nats"
}

func (n *NATSChannel) Send(_ context.Context, sub *models.Submission) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		metrics.NotificationErrors.WithLabelValues(n.Type()).Inc()
		return fmt.Errorf("publish submission: %w", err)
	}

	metrics.NotificationsSent.WithLabelValues(n.Type()).Inc()
	return nil
}

// LogChannel writes notifications to logs (for testing/debugging).
type LogChannel struct {
	logger func(format string, v ...interface{})
}

// NewLogChannel creates a log-based notification channel.
func NewLogChannel(logger func(format string, v ...interface{})) *LogChannel {
	return &LogChannel{logger: logger}
}

func (l *LogChannel) Type() string {
	return "log"
}

func (l *LogChannel) Send(ctx context.Context, sub *models.Submission) error {
	l.logger("NEW LEAD: %s (id=%s, source=%s)", sub.Email, sub.ID, sub.Source)
	return nil
}

// MultiChannel fans a notification out to multiple channels.
type MultiChannel struct {
	channels []Channel
}

// NewMultiChannel creates a notification channel that fans out to multiple channels.
func NewMultiChannel(channels ...Channel) *MultiChannel {
	return &MultiChannel{channels: channels}
}

func (m *MultiChannel) Type() string {
	return "multi"
}

func (m *MultiChannel) Send(ctx context.Context, sub *models.Submission) error {
	var lastErr error
	successCount := 0

	for _, ch := range m.channels {
		if err := ch.Send(ctx, sub); err != nil {
			lastErr = fmt.Errorf("%s channel failed: %w", ch.Type(), err)
		} else {
			successCount++
		}
	}

	if successCount == 0 && len(m.channels) > 0 {
		return fmt.Errorf("all notification channels failed: %w", lastErr)
	}

	return nil
}
