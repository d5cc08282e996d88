package server

import (
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/atrium/internal/config"
	"github.com/hashicorp-forge/atrium/pkg/analytics"
	"github.com/hashicorp-forge/atrium/pkg/notifications/backends"
)

// Server bundles the dependencies API handlers need.
type Server struct {
	// Config is the config for the server.
	Config *config.Config

	// DB is the database for the server.
	DB *gorm.DB

	// Logger is the logger for the server.
	Logger hclog.Logger

	// Analytics receives product analytics events, fire-and-forget.
	Analytics analytics.Sink

	// Notifications routes messages to the configured channel backends.
	Notifications *backends.Registry
}
