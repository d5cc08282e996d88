package workspace

// NotificationType identifies a notification channel.
type NotificationType string

const (
	// NotificationTypeSlack delivers notifications to a Slack incoming webhook.
	NotificationTypeSlack NotificationType = "slack"
)

// SlackConfiguration holds the channel-specific settings for Slack
// notifications.
type SlackConfiguration struct {
	Webhook string `json:"webhook"`
}

// Notification is a single configured notification channel. The
// NotificationType discriminator selects which configuration block applies.
type Notification struct {
	NotificationType   NotificationType    `json:"notificationType"`
	SlackConfiguration *SlackConfiguration `json:"slackConfiguration,omitempty"`
}

// SlackNotification builds a Slack channel entry for the given webhook URL.
func SlackNotification(webhook string) Notification {
	return Notification{
		NotificationType:   NotificationTypeSlack,
		SlackConfiguration: &SlackConfiguration{Webhook: webhook},
	}
}

// Workspace is the per-account settings entity covering onboarding state,
// preference flags, and notification channels. Field names follow the REST
// contract (camelCase JSON).
type Workspace struct {
	// WorkspaceID is assigned at provisioning and immutable afterwards.
	WorkspaceID string `json:"workspaceId"`

	// Email is the optional contact address for the workspace owner.
	Email string `json:"email,omitempty"`

	// InitialSetupComplete is set true once the first onboarding payload
	// has been submitted.
	InitialSetupComplete bool `json:"initialSetupComplete"`

	// DisplaySetupWizard controls onboarding UI visibility.
	DisplaySetupWizard bool `json:"displaySetupWizard"`

	AnonymousDataCollection bool `json:"anonymousDataCollection"`
	News                    bool `json:"news"`
	SecurityUpdates         bool `json:"securityUpdates"`

	// Notifications is the ordered list of configured notification channels.
	Notifications []Notification `json:"notifications"`
}

// Update is a partial workspace update. Nil pointer fields are not
// submitted; the remote update endpoint treats every supplied field as
// authoritative. A non-nil Notifications slice replaces the configured
// channel list wholesale.
type Update struct {
	WorkspaceID             string         `json:"workspaceId"`
	Email                   *string        `json:"email,omitempty"`
	InitialSetupComplete    *bool          `json:"initialSetupComplete,omitempty"`
	DisplaySetupWizard      *bool          `json:"displaySetupWizard,omitempty"`
	AnonymousDataCollection *bool          `json:"anonymousDataCollection,omitempty"`
	News                    *bool          `json:"news,omitempty"`
	SecurityUpdates         *bool          `json:"securityUpdates,omitempty"`
	Notifications           []Notification `json:"notifications,omitempty"`
}

func ptr[T any](v T) *T {
	return &v
}
