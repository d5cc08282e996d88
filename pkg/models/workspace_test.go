package models

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hashicorp-forge/atrium/pkg/workspace"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "atrium.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(ModelsToAutoMigrate()...))
	return db
}

func TestWorkspaceCreateAssignsID(t *testing.T) {
	db := testDB(t)

	ws := &Workspace{DisplaySetupWizard: true}
	require.NoError(t, ws.Create(db))
	assert.NotEmpty(t, ws.WorkspaceID)
	assert.Equal(t, "[]", ws.NotificationsJSON)

	got := &Workspace{}
	require.NoError(t, got.GetByWorkspaceID(db, ws.WorkspaceID))
	assert.Equal(t, ws.WorkspaceID, got.WorkspaceID)
	assert.True(t, got.DisplaySetupWizard)
}

func TestWorkspaceIDIsUnique(t *testing.T) {
	db := testDB(t)

	first := &Workspace{WorkspaceID: "w1"}
	require.NoError(t, first.Create(db))

	dup := &Workspace{WorkspaceID: "w1"}
	assert.Error(t, dup.Create(db))
}

func TestWorkspaceApplyUpdate(t *testing.T) {
	db := testDB(t)

	ws := &Workspace{WorkspaceID: "w1", DisplaySetupWizard: true, News: true}
	require.NoError(t, ws.Create(db))

	email := "owner@example.com"
	setup := true
	wizard := false
	require.NoError(t, ws.ApplyUpdate(workspace.Update{
		WorkspaceID:          "w1",
		Email:                &email,
		InitialSetupComplete: &setup,
		DisplaySetupWizard:   &wizard,
		Notifications: []workspace.Notification{
			workspace.SlackNotification("https://hooks.slack.com/x"),
		},
	}))
	require.NoError(t, ws.Update(db))

	got := &Workspace{}
	require.NoError(t, got.GetByWorkspaceID(db, "w1"))
	require.NotNil(t, got.Email)
	assert.Equal(t, email, *got.Email)
	assert.True(t, got.InitialSetupComplete)
	assert.False(t, got.DisplaySetupWizard)
	// Fields absent from the update keep their stored values.
	assert.True(t, got.News)

	notifications, err := got.GetNotifications()
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, workspace.NotificationTypeSlack, notifications[0].NotificationType)
}

func TestWorkspaceToWorkspace(t *testing.T) {
	email := "owner@example.com"
	ws := &Workspace{
		WorkspaceID:             "w1",
		Email:                   &email,
		InitialSetupComplete:    true,
		AnonymousDataCollection: true,
	}
	require.NoError(t, ws.SetNotifications([]workspace.Notification{
		workspace.SlackNotification("https://hooks.slack.com/x"),
	}))

	out, err := ws.ToWorkspace()
	require.NoError(t, err)
	assert.Equal(t, "w1", out.WorkspaceID)
	assert.Equal(t, email, out.Email)
	assert.True(t, out.InitialSetupComplete)
	require.Len(t, out.Notifications, 1)
}

func TestGetAllWorkspacesOrder(t *testing.T) {
	db := testDB(t)

	for _, id := range []string{"w1", "w2", "w3"} {
		ws := &Workspace{WorkspaceID: id}
		require.NoError(t, ws.Create(db))
	}

	workspaces, err := GetAllWorkspaces(db)
	require.NoError(t, err)
	require.Len(t, workspaces, 3)
	assert.Equal(t, "w1", workspaces[0].WorkspaceID)
}
