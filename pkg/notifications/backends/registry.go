package backends

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp-forge/atrium/pkg/notifications"
	"github.com/hashicorp-forge/atrium/pkg/workspace"
)

// Config holds backend configuration from HCL.
type Config struct {
	// Slack backend configuration.
	Slack *SlackConfig `hcl:"slack,block"`
}

// Registry manages the available notification backends and routes channel
// entries to the backend that handles their type.
type Registry struct {
	backends []Backend
	log      hclog.Logger
}

// NewRegistry creates a backend registry from configuration. With a nil
// config the Slack backend is enabled with defaults, since it is the only
// channel type the workspace resource currently supports.
func NewRegistry(cfg *Config, log hclog.Logger) *Registry {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	r := &Registry{log: log.Named("notifications")}

	slackCfg := SlackConfig{Enabled: true}
	if cfg != nil && cfg.Slack != nil {
		slackCfg = *cfg.Slack
	}
	if slackCfg.Enabled {
		r.backends = append(r.backends, NewSlackBackend(slackCfg))
	}

	return r
}

// Register adds a backend to the registry.
func (r *Registry) Register(b Backend) {
	r.backends = append(r.backends, b)
}

// backendFor returns the first backend supporting the channel type.
func (r *Registry) backendFor(t workspace.NotificationType) (Backend, error) {
	for _, b := range r.backends {
		if b.SupportsType(t) {
			return b, nil
		}
	}
	return nil, fmt.Errorf("no backend for notification type %q", t)
}

// Try delivers the canned test message through a single channel
// configuration without persisting anything.
func (r *Registry) Try(ctx context.Context, channel workspace.Notification) error {
	b, err := r.backendFor(channel.NotificationType)
	if err != nil {
		return err
	}
	return b.Send(ctx, channel, notifications.TestMessage())
}

// Dispatch delivers a message through every configured channel. Failures
// are aggregated; one failing channel does not stop the others.
func (r *Registry) Dispatch(ctx context.Context, channels []workspace.Notification, msg notifications.Message) error {
	var result *multierror.Error
	for _, channel := range channels {
		b, err := r.backendFor(channel.NotificationType)
		if err != nil {
			r.log.Warn("skipping unsupported notification channel",
				"type", channel.NotificationType)
			result = multierror.Append(result, err)
			continue
		}
		if err := b.Send(ctx, channel, msg); err != nil {
			r.log.Error("notification delivery failed",
				"backend", b.Name(), "error", err)
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
