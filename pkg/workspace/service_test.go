package workspace_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/atrium/pkg/workspace"
	"github.com/hashicorp-forge/atrium/pkg/workspace/adapters/mock"
)

type trackedEvent struct {
	event      string
	properties map[string]any
}

type recordingSink struct {
	events []trackedEvent
}

func (s *recordingSink) Track(event string, properties map[string]any) {
	s.events = append(s.events, trackedEvent{event: event, properties: properties})
}

func onboardingWorkspace() workspace.Workspace {
	return workspace.Workspace{
		WorkspaceID:             "w1",
		InitialSetupComplete:    false,
		DisplaySetupWizard:      true,
		AnonymousDataCollection: true,
		News:                    false,
		SecurityUpdates:         true,
		Notifications:           []workspace.Notification{},
	}
}

func TestCurrentReturnsFirstWorkspaceDetail(t *testing.T) {
	repo := mock.NewRepository(
		workspace.Workspace{WorkspaceID: "w1", Email: "a@example.com"},
		workspace.Workspace{WorkspaceID: "w2", Email: "b@example.com"},
	)
	svc := workspace.NewService(repo, nil, nil)

	ws, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "w1", ws.WorkspaceID)
	assert.Equal(t, "a@example.com", ws.Email)
}

func TestCurrentNoWorkspaceProvisioned(t *testing.T) {
	svc := workspace.NewService(mock.NewRepository(), nil, nil)

	_, err := svc.Current(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, workspace.ErrNoWorkspace)
}

func TestFinishOnboardingWithSkipStep(t *testing.T) {
	repo := mock.NewRepository(onboardingWorkspace())
	sink := &recordingSink{}
	svc := workspace.NewService(repo, sink, nil)

	require.NoError(t, svc.FinishOnboarding(context.Background(), "step2"))

	require.Len(t, sink.events, 1)
	assert.Equal(t, "Skip Onboarding", sink.events[0].event)
	assert.Equal(t, map[string]any{"step": "step2"}, sink.events[0].properties)

	require.Len(t, repo.Updates, 1)
	update := repo.Updates[0]
	assert.Equal(t, "w1", update.WorkspaceID)
	require.NotNil(t, update.DisplaySetupWizard)
	assert.False(t, *update.DisplaySetupWizard)

	// The onboarding and preference flags are echoed, not altered.
	require.NotNil(t, update.InitialSetupComplete)
	assert.False(t, *update.InitialSetupComplete)
	require.NotNil(t, update.AnonymousDataCollection)
	assert.True(t, *update.AnonymousDataCollection)
	require.NotNil(t, update.News)
	assert.False(t, *update.News)
	require.NotNil(t, update.SecurityUpdates)
	assert.True(t, *update.SecurityUpdates)

	// Email and notifications are not part of this payload.
	assert.Nil(t, update.Email)
	assert.Nil(t, update.Notifications)
}

func TestFinishOnboardingWithoutSkipStep(t *testing.T) {
	ws := onboardingWorkspace()
	ws.DisplaySetupWizard = false
	repo := mock.NewRepository(ws)
	sink := &recordingSink{}
	svc := workspace.NewService(repo, sink, nil)

	require.NoError(t, svc.FinishOnboarding(context.Background(), ""))

	assert.Empty(t, sink.events)
	require.Len(t, repo.Updates, 1)
	// DisplaySetupWizard is forced false regardless of its current value.
	require.NotNil(t, repo.Updates[0].DisplaySetupWizard)
	assert.False(t, *repo.Updates[0].DisplaySetupWizard)
}

func TestSetInitialSetupConfig(t *testing.T) {
	repo := mock.NewRepository(onboardingWorkspace())
	svc := workspace.NewService(repo, nil, nil)

	err := svc.SetInitialSetupConfig(context.Background(), workspace.InitialSetupConfig{
		Email:                   "owner@example.com",
		AnonymousDataCollection: false,
		News:                    true,
		SecurityUpdates:         true,
	})
	require.NoError(t, err)

	require.Len(t, repo.Updates, 1)
	update := repo.Updates[0]
	assert.Equal(t, "w1", update.WorkspaceID)
	require.NotNil(t, update.InitialSetupComplete)
	assert.True(t, *update.InitialSetupComplete)
	require.NotNil(t, update.DisplaySetupWizard)
	assert.True(t, *update.DisplaySetupWizard)
	require.NotNil(t, update.Email)
	assert.Equal(t, "owner@example.com", *update.Email)
	require.NotNil(t, update.AnonymousDataCollection)
	assert.False(t, *update.AnonymousDataCollection)
	require.NotNil(t, update.News)
	assert.True(t, *update.News)
	require.NotNil(t, update.SecurityUpdates)
	assert.True(t, *update.SecurityUpdates)
}

func TestUpdatePreferencesEchoesUntouchedFields(t *testing.T) {
	ws := onboardingWorkspace()
	ws.InitialSetupComplete = true
	ws.Notifications = []workspace.Notification{
		workspace.SlackNotification("https://hooks.slack.com/old"),
	}
	repo := mock.NewRepository(ws)
	svc := workspace.NewService(repo, nil, nil)

	email := "new@example.com"
	err := svc.UpdatePreferences(context.Background(), workspace.Preferences{
		Email:                   &email,
		AnonymousDataCollection: false,
		News:                    true,
		SecurityUpdates:         false,
	})
	require.NoError(t, err)

	require.Len(t, repo.Updates, 1)
	update := repo.Updates[0]

	// Exactly the supplied fields are overwritten; everything else,
	// including the notification list, rides along unchanged.
	require.NotNil(t, update.InitialSetupComplete)
	assert.True(t, *update.InitialSetupComplete)
	require.NotNil(t, update.DisplaySetupWizard)
	assert.True(t, *update.DisplaySetupWizard)
	assert.Equal(t, ws.Notifications, update.Notifications)
	require.NotNil(t, update.Email)
	assert.Equal(t, email, *update.Email)
	require.NotNil(t, update.News)
	assert.True(t, *update.News)
	require.NotNil(t, update.SecurityUpdates)
	assert.False(t, *update.SecurityUpdates)
}

func TestUpdatePreferencesWithoutEmail(t *testing.T) {
	repo := mock.NewRepository(onboardingWorkspace())
	svc := workspace.NewService(repo, nil, nil)

	err := svc.UpdatePreferences(context.Background(), workspace.Preferences{
		AnonymousDataCollection: true,
		News:                    true,
		SecurityUpdates:         true,
	})
	require.NoError(t, err)

	require.Len(t, repo.Updates, 1)
	assert.Nil(t, repo.Updates[0].Email)
}

func TestUpdateWebhookReplacesNotificationsWholesale(t *testing.T) {
	ws := onboardingWorkspace()
	ws.Notifications = []workspace.Notification{
		workspace.SlackNotification("https://hooks.slack.com/old"),
		{NotificationType: "pagerduty"},
	}
	repo := mock.NewRepository(ws)
	svc := workspace.NewService(repo, nil, nil)

	err := svc.UpdateWebhook(context.Background(), "https://hooks.slack.com/x")
	require.NoError(t, err)

	require.Len(t, repo.Updates, 1)
	update := repo.Updates[0]

	// A single Slack entry regardless of how many channels existed before.
	require.Len(t, update.Notifications, 1)
	assert.Equal(t, workspace.NotificationTypeSlack, update.Notifications[0].NotificationType)
	require.NotNil(t, update.Notifications[0].SlackConfiguration)
	assert.Equal(t, "https://hooks.slack.com/x", update.Notifications[0].SlackConfiguration.Webhook)

	// The id and flag fields are preserved verbatim.
	assert.Equal(t, "w1", update.WorkspaceID)
	require.NotNil(t, update.InitialSetupComplete)
	assert.False(t, *update.InitialSetupComplete)
	require.NotNil(t, update.DisplaySetupWizard)
	assert.True(t, *update.DisplaySetupWizard)
	require.NotNil(t, update.AnonymousDataCollection)
	assert.True(t, *update.AnonymousDataCollection)
	require.NotNil(t, update.News)
	assert.False(t, *update.News)
	require.NotNil(t, update.SecurityUpdates)
	assert.True(t, *update.SecurityUpdates)
}

func TestTestWebhookDoesNotMutateWorkspace(t *testing.T) {
	repo := mock.NewRepository(onboardingWorkspace())
	svc := workspace.NewService(repo, nil, nil)

	require.NoError(t, svc.TestWebhook(context.Background(), "https://hooks.slack.com/x"))

	assert.Empty(t, repo.Updates)
	require.Len(t, repo.Tried, 1)
	assert.Equal(t, workspace.NotificationTypeSlack, repo.Tried[0].NotificationType)
	require.NotNil(t, repo.Tried[0].SlackConfiguration)
	assert.Equal(t, "https://hooks.slack.com/x", repo.Tried[0].SlackConfiguration.Webhook)
}

func TestUpdateErrorsPropagate(t *testing.T) {
	repo := mock.NewRepository(onboardingWorkspace())
	repo.UpdateErr = errors.New("server error")
	svc := workspace.NewService(repo, nil, nil)

	err := svc.UpdateWebhook(context.Background(), "https://hooks.slack.com/x")
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.UpdateErr)
}

func TestAnalyticsFailureDoesNotBlockMutation(t *testing.T) {
	repo := mock.NewRepository(onboardingWorkspace())
	svc := workspace.NewService(repo, panicFreeSink{}, nil)

	require.NoError(t, svc.FinishOnboarding(context.Background(), "step1"))
	assert.Len(t, repo.Updates, 1)
}

// panicFreeSink drops events without side effects, standing in for a sink
// whose delivery path is unavailable.
type panicFreeSink struct{}

func (panicFreeSink) Track(string, map[string]any) {}
