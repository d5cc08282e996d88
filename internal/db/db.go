// Package db wires database connection, schema migration, and first-run
// workspace provisioning.
package db

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/atrium/internal/config"
	"github.com/hashicorp-forge/atrium/pkg/database"
	"github.com/hashicorp-forge/atrium/pkg/models"
	"github.com/hashicorp-forge/atrium/pkg/workspace"
)

// NewDB returns a migrated database with the initial workspace provisioned.
func NewDB(cfg *config.Config, log hclog.Logger) (*gorm.DB, error) {
	dbCfg := database.Config{}
	if cfg.Database != nil {
		dbCfg = database.Config{
			Driver:   cfg.Database.Driver,
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
			Path:     cfg.Database.Path,
		}
	}

	db, err := database.Connect(dbCfg, log)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(models.ModelsToAutoMigrate()...); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	if err := Bootstrap(db, cfg.BootstrapFile, log); err != nil {
		return nil, err
	}
	return db, nil
}

// BootstrapSeed describes the initial workspace provisioned on first run.
type BootstrapSeed struct {
	Email                   string `yaml:"email"`
	AnonymousDataCollection bool   `yaml:"anonymous_data_collection"`
	News                    bool   `yaml:"news"`
	SecurityUpdates         bool   `yaml:"security_updates"`
	SlackWebhook            string `yaml:"slack_webhook"`
}

// Bootstrap provisions the initial workspace when none exists yet. With a
// seed file its values are applied; otherwise a blank workspace with the
// setup wizard enabled is created. Existing workspaces are never touched.
func Bootstrap(db *gorm.DB, seedFile string, log hclog.Logger) error {
	if log == nil {
		log = hclog.NewNullLogger()
	}

	existing, err := models.GetAllWorkspaces(db)
	if err != nil {
		return fmt.Errorf("error checking for existing workspaces: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	ws := &models.Workspace{DisplaySetupWizard: true}

	if seedFile != "" {
		raw, err := os.ReadFile(seedFile)
		if err != nil {
			return fmt.Errorf("error reading bootstrap file %s: %w", seedFile, err)
		}
		var seed BootstrapSeed
		if err := yaml.Unmarshal(raw, &seed); err != nil {
			return fmt.Errorf("error parsing bootstrap file %s: %w", seedFile, err)
		}

		if seed.Email != "" {
			ws.Email = &seed.Email
		}
		ws.AnonymousDataCollection = seed.AnonymousDataCollection
		ws.News = seed.News
		ws.SecurityUpdates = seed.SecurityUpdates
		if seed.SlackWebhook != "" {
			if err := ws.SetNotifications([]workspace.Notification{
				workspace.SlackNotification(seed.SlackWebhook),
			}); err != nil {
				return err
			}
		}
	}

	if err := ws.Create(db); err != nil {
		return fmt.Errorf("error provisioning initial workspace: %w", err)
	}
	log.Info("provisioned initial workspace", "workspace_id", ws.WorkspaceID)
	return nil
}
