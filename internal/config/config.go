// Package config loads the Atrium server configuration from HCL.
package config

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/hashicorp-forge/atrium/pkg/notifications/backends"
)

// Config is the top-level server configuration.
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	// Default: "127.0.0.1:8000".
	ListenAddr string `hcl:"listen_addr,optional"`

	// BaseURL is the externally visible base URL of this instance.
	BaseURL string `hcl:"base_url,optional"`

	// LogLevel sets the root logger level (trace, debug, info, warn, error).
	LogLevel string `hcl:"log_level,optional"`

	// BootstrapFile optionally points at a YAML seed describing the
	// initial workspace provisioned on first run.
	BootstrapFile string `hcl:"bootstrap_file,optional"`

	// Database configures storage.
	Database *Database `hcl:"database,block"`

	// Notifications configures the notification backends.
	Notifications *backends.Config `hcl:"notifications,block"`

	// Analytics configures the analytics sink.
	Analytics *Analytics `hcl:"analytics,block"`
}

// Database configures the storage backend.
type Database struct {
	// Driver is "postgres" or "sqlite".
	Driver string `hcl:"driver,optional"`

	Host     string `hcl:"host,optional"`
	Port     int    `hcl:"port,optional"`
	User     string `hcl:"user,optional"`
	Password string `hcl:"password,optional"`
	DBName   string `hcl:"dbname,optional"`
	SSLMode  string `hcl:"sslmode,optional"`

	// Path is the SQLite database file.
	Path string `hcl:"path,optional"`
}

// Analytics configures where track events go.
type Analytics struct {
	// Backend is "log" (default), "kafka", or "none".
	Backend string `hcl:"backend,optional"`

	// KafkaBrokers is the broker list for the kafka backend.
	KafkaBrokers []string `hcl:"kafka_brokers,optional"`

	// KafkaTopic overrides the default analytics topic.
	KafkaTopic string `hcl:"kafka_topic,optional"`
}

// Default returns a configuration suitable for local development: SQLite
// storage and log-only analytics.
func Default() *Config {
	return &Config{
		ListenAddr: "127.0.0.1:8000",
		LogLevel:   "info",
		Database: &Database{
			Driver: "sqlite",
			Path:   "atrium.db",
		},
	}
}

// NewConfig parses the HCL file at path and fills in defaults.
func NewConfig(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	defaults := Default()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaults.ListenAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.Database == nil {
		cfg.Database = defaults.Database
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for obvious mistakes before startup.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.ListenAddr, validation.Required),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "error")),
	); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Database != nil {
		if err := validation.ValidateStruct(c.Database,
			validation.Field(&c.Database.Driver,
				validation.In("", "postgres", "sqlite")),
		); err != nil {
			return fmt.Errorf("invalid database config: %w", err)
		}
	}

	if c.Analytics != nil {
		if err := validation.ValidateStruct(c.Analytics,
			validation.Field(&c.Analytics.Backend,
				validation.In("", "log", "kafka", "none")),
		); err != nil {
			return fmt.Errorf("invalid analytics config: %w", err)
		}
		if c.Analytics.Backend == "kafka" && len(c.Analytics.KafkaBrokers) == 0 {
			return fmt.Errorf("invalid analytics config: kafka backend requires kafka_brokers")
		}
	}

	return nil
}
