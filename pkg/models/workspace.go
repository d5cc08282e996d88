package models

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/atrium/pkg/workspace"
)

// Workspace is the per-account settings record. It is created once at
// provisioning and only updated afterwards; the API never deletes it.
type Workspace struct {
	gorm.Model

	// WorkspaceID is the opaque external identifier, assigned at creation
	// and immutable afterwards.
	WorkspaceID string `gorm:"uniqueIndex;not null"`

	// Email is the optional contact address for the workspace owner.
	Email *string

	// InitialSetupComplete is set true once the first onboarding payload
	// has been submitted.
	InitialSetupComplete bool `gorm:"not null;default:false"`

	// DisplaySetupWizard controls onboarding UI visibility.
	DisplaySetupWizard bool `gorm:"not null;default:true"`

	AnonymousDataCollection bool `gorm:"not null;default:false"`
	News                    bool `gorm:"not null;default:false"`
	SecurityUpdates         bool `gorm:"not null;default:false"`

	// NotificationsJSON stores the serialized notification channel list.
	NotificationsJSON string `gorm:"type:jsonb"`
}

// Create creates a new workspace. A missing WorkspaceID is assigned a fresh
// UUID.
func (w *Workspace) Create(db *gorm.DB) error {
	if w.WorkspaceID == "" {
		w.WorkspaceID = uuid.NewString()
	}
	if err := validation.ValidateStruct(w,
		validation.Field(&w.WorkspaceID, validation.Required),
	); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if w.NotificationsJSON == "" {
		w.NotificationsJSON = "[]"
	}

	return db.Create(&w).Error
}

// GetByWorkspaceID retrieves a workspace by its external identifier.
func (w *Workspace) GetByWorkspaceID(db *gorm.DB, workspaceID string) error {
	if err := validation.Validate(workspaceID, validation.Required); err != nil {
		return err
	}

	return db.
		Where("workspace_id = ?", workspaceID).
		First(&w).
		Error
}

// Update persists the receiver's current field values.
func (w *Workspace) Update(db *gorm.DB) error {
	if err := validation.ValidateStruct(w,
		validation.Field(&w.ID, validation.Required),
	); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&w).
			Select("*").
			Omit("id", "created_at", "workspace_id").
			Updates(w).
			Error; err != nil {
			return err
		}

		if err := tx.First(&w, w.ID).Error; err != nil {
			return fmt.Errorf("error getting workspace after update: %w", err)
		}
		return nil
	})
}

// GetAllWorkspaces retrieves all workspaces in creation order. The first
// entry is what clients resolve as "the current workspace".
func GetAllWorkspaces(db *gorm.DB) ([]Workspace, error) {
	var workspaces []Workspace
	err := db.
		Order("id ASC").
		Find(&workspaces).
		Error
	return workspaces, err
}

// GetNotifications deserializes the NotificationsJSON field.
func (w *Workspace) GetNotifications() ([]workspace.Notification, error) {
	if w.NotificationsJSON == "" {
		return []workspace.Notification{}, nil
	}

	var notifications []workspace.Notification
	if err := json.Unmarshal([]byte(w.NotificationsJSON), &notifications); err != nil {
		return nil, fmt.Errorf("error unmarshaling notifications JSON: %w", err)
	}
	return notifications, nil
}

// SetNotifications serializes the channel list to NotificationsJSON.
func (w *Workspace) SetNotifications(notifications []workspace.Notification) error {
	if notifications == nil {
		notifications = []workspace.Notification{}
	}
	jsonBytes, err := json.Marshal(notifications)
	if err != nil {
		return fmt.Errorf("error marshaling notifications to JSON: %w", err)
	}
	w.NotificationsJSON = string(jsonBytes)
	return nil
}

// ToWorkspace converts the record to its API representation.
func (w *Workspace) ToWorkspace() (workspace.Workspace, error) {
	notifications, err := w.GetNotifications()
	if err != nil {
		return workspace.Workspace{}, err
	}

	out := workspace.Workspace{
		WorkspaceID:             w.WorkspaceID,
		InitialSetupComplete:    w.InitialSetupComplete,
		DisplaySetupWizard:      w.DisplaySetupWizard,
		AnonymousDataCollection: w.AnonymousDataCollection,
		News:                    w.News,
		SecurityUpdates:         w.SecurityUpdates,
		Notifications:           notifications,
	}
	if w.Email != nil {
		out.Email = *w.Email
	}
	return out, nil
}

// ApplyUpdate overlays the supplied fields of a partial update onto the
// record. The update body is authoritative for every field it carries; the
// workspace ID is never changed.
func (w *Workspace) ApplyUpdate(update workspace.Update) error {
	if update.Email != nil {
		w.Email = update.Email
	}
	if update.InitialSetupComplete != nil {
		w.InitialSetupComplete = *update.InitialSetupComplete
	}
	if update.DisplaySetupWizard != nil {
		w.DisplaySetupWizard = *update.DisplaySetupWizard
	}
	if update.AnonymousDataCollection != nil {
		w.AnonymousDataCollection = *update.AnonymousDataCollection
	}
	if update.News != nil {
		w.News = *update.News
	}
	if update.SecurityUpdates != nil {
		w.SecurityUpdates = *update.SecurityUpdates
	}
	if update.Notifications != nil {
		if err := w.SetNotifications(update.Notifications); err != nil {
			return err
		}
	}
	return nil
}
