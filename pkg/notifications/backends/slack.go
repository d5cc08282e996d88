package backends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/hashicorp-forge/atrium/pkg/notifications"
	"github.com/hashicorp-forge/atrium/pkg/workspace"
)

// SlackBackend posts messages to Slack incoming webhooks. The webhook URL
// comes from the channel configuration, not from this backend's config.
type SlackBackend struct {
	client *http.Client
}

// SlackConfig holds configuration for the Slack backend.
type SlackConfig struct {
	Enabled bool `hcl:"enabled,optional"`

	// Timeout for webhook requests. Default: 10s.
	Timeout time.Duration `hcl:"timeout,optional"`
}

// slackPayload is the incoming-webhook request body.
type slackPayload struct {
	Text string `json:"text"`
}

// NewSlackBackend creates a new Slack webhook backend.
func NewSlackBackend(cfg SlackConfig) *SlackBackend {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SlackBackend{
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (b *SlackBackend) Name() string {
	return "slack"
}

func (b *SlackBackend) SupportsType(t workspace.NotificationType) bool {
	return t == workspace.NotificationTypeSlack
}

// Send posts the message to the channel's webhook URL.
func (b *SlackBackend) Send(ctx context.Context, channel workspace.Notification, msg notifications.Message) error {
	if channel.SlackConfiguration == nil {
		return NewBackendError("slack", "send", false,
			fmt.Errorf("channel has no slack configuration"))
	}
	webhook := channel.SlackConfiguration.Webhook
	if err := validation.Validate(webhook, validation.Required, is.URL); err != nil {
		return NewBackendError("slack", "send", false,
			fmt.Errorf("invalid webhook URL: %w", err))
	}

	text := msg.Subject
	if msg.Body != "" {
		text = fmt.Sprintf("*%s*\n%s", msg.Subject, msg.Body)
	}
	payload, err := json.Marshal(slackPayload{Text: text})
	if err != nil {
		return NewBackendError("slack", "send", false, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook, bytes.NewReader(payload))
	if err != nil {
		return NewBackendError("slack", "send", false, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		// Network errors are worth retrying.
		return NewBackendError("slack", "send", true, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewBackendError("slack", "send", isRetryableHTTPStatus(resp.StatusCode),
			fmt.Errorf("slack webhook returned status %d", resp.StatusCode))
	}

	return nil
}
