package workspace

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/atrium/pkg/analytics"
)

// InitialSetupConfig is the payload submitted at first-run configuration.
type InitialSetupConfig struct {
	Email                   string
	AnonymousDataCollection bool
	News                    bool
	SecurityUpdates         bool
}

// Preferences is a preference edit. Email is optional; the flags are
// always submitted.
type Preferences struct {
	Email                   *string
	AnonymousDataCollection bool
	News                    bool
	SecurityUpdates         bool
}

// Service exposes the workspace settings operations consumed by UI code.
// It holds no workspace state of its own: every mutation reads the current
// snapshot from the repository at call time, layers the operation's fields
// on top, and submits the result. Concurrent mutations are not coordinated
// here; ordering is whatever the remote produces.
type Service struct {
	repo      Repository
	analytics analytics.Sink
	log       hclog.Logger
}

// NewService creates a workspace settings service. The analytics sink and
// logger are optional.
func NewService(repo Repository, sink analytics.Sink, log hclog.Logger) *Service {
	if sink == nil {
		sink = analytics.NopSink{}
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Service{
		repo:      repo,
		analytics: sink,
		log:       log.Named("workspace"),
	}
}

// Current resolves the caller's workspace: the first entry of the workspace
// list, fetched by ID for its detail record. Returns ErrNoWorkspace when the
// list is empty.
func (s *Service) Current(ctx context.Context) (*Workspace, error) {
	workspaces, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing workspaces: %w", err)
	}
	if len(workspaces) == 0 {
		return nil, ErrNoWorkspace
	}

	ws, err := s.repo.Get(ctx, workspaces[0].WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("error getting workspace: %w", err)
	}
	return ws, nil
}

// FinishOnboarding hides the setup wizard. The current preference flags and
// onboarding state are echoed back unchanged; only DisplaySetupWizard is
// forced to false. When skipStep is non-empty a "Skip Onboarding" analytics
// event is emitted first, best effort.
func (s *Service) FinishOnboarding(ctx context.Context, skipStep string) error {
	if skipStep != "" {
		s.analytics.Track("Skip Onboarding", map[string]any{"step": skipStep})
	}

	current, err := s.Current(ctx)
	if err != nil {
		return err
	}

	return s.submit(ctx, Update{
		WorkspaceID:             current.WorkspaceID,
		InitialSetupComplete:    ptr(current.InitialSetupComplete),
		AnonymousDataCollection: ptr(current.AnonymousDataCollection),
		News:                    ptr(current.News),
		SecurityUpdates:         ptr(current.SecurityUpdates),
		DisplaySetupWizard:      ptr(false),
	})
}

// SetInitialSetupConfig submits the first-run configuration. It marks
// onboarding as substantively started (InitialSetupComplete=true) while
// keeping the wizard visible for the remaining steps.
func (s *Service) SetInitialSetupConfig(ctx context.Context, cfg InitialSetupConfig) error {
	current, err := s.Current(ctx)
	if err != nil {
		return err
	}

	return s.submit(ctx, Update{
		WorkspaceID:             current.WorkspaceID,
		InitialSetupComplete:    ptr(true),
		DisplaySetupWizard:      ptr(true),
		Email:                   ptr(cfg.Email),
		AnonymousDataCollection: ptr(cfg.AnonymousDataCollection),
		News:                    ptr(cfg.News),
		SecurityUpdates:         ptr(cfg.SecurityUpdates),
	})
}

// UpdatePreferences edits the preference flags and optionally the contact
// email. Onboarding state, wizard visibility, and the notification list are
// echoed back unchanged.
func (s *Service) UpdatePreferences(ctx context.Context, prefs Preferences) error {
	current, err := s.Current(ctx)
	if err != nil {
		return err
	}

	update := Update{
		WorkspaceID:             current.WorkspaceID,
		InitialSetupComplete:    ptr(current.InitialSetupComplete),
		DisplaySetupWizard:      ptr(current.DisplaySetupWizard),
		Notifications:           current.Notifications,
		AnonymousDataCollection: ptr(prefs.AnonymousDataCollection),
		News:                    ptr(prefs.News),
		SecurityUpdates:         ptr(prefs.SecurityUpdates),
	}
	if prefs.Email != nil {
		update.Email = prefs.Email
	}

	return s.submit(ctx, update)
}

// UpdateWebhook replaces the notification list wholesale with a single Slack
// channel pointing at the given webhook URL. Only one channel is supported
// at a time; any previously configured channel is discarded.
func (s *Service) UpdateWebhook(ctx context.Context, webhook string) error {
	current, err := s.Current(ctx)
	if err != nil {
		return err
	}

	return s.submit(ctx, Update{
		WorkspaceID:             current.WorkspaceID,
		InitialSetupComplete:    ptr(current.InitialSetupComplete),
		DisplaySetupWizard:      ptr(current.DisplaySetupWizard),
		AnonymousDataCollection: ptr(current.AnonymousDataCollection),
		News:                    ptr(current.News),
		SecurityUpdates:         ptr(current.SecurityUpdates),
		Notifications:           []Notification{SlackNotification(webhook)},
	})
}

// TestWebhook sends a one-off test notification to the given Slack webhook.
// It neither reads nor writes the cached workspace snapshot.
func (s *Service) TestWebhook(ctx context.Context, webhook string) error {
	if err := s.repo.TryNotification(ctx, SlackNotification(webhook)); err != nil {
		return fmt.Errorf("error testing webhook: %w", err)
	}
	return nil
}

func (s *Service) submit(ctx context.Context, update Update) error {
	if err := s.repo.Update(ctx, update); err != nil {
		return fmt.Errorf("error updating workspace: %w", err)
	}
	s.log.Debug("workspace updated", "workspace_id", update.WorkspaceID)
	return nil
}
