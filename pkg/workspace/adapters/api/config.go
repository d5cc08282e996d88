package api

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config contains configuration for the API workspace repository.
//
// Example configuration (HCL):
//
//	workspace_api {
//	  base_url   = "https://atrium.example.com"
//	  auth_token = env("ATRIUM_API_TOKEN")
//	  timeout    = "30s"
//	}
type Config struct {
	// BaseURL is the base URL of the remote Atrium instance.
	BaseURL string `hcl:"base_url" json:"baseUrl"`

	// AuthToken is the bearer token for authentication. Optional; kept out
	// of JSON output.
	AuthToken string `hcl:"auth_token,optional" json:"-"`

	// Timeout for API requests. Default: 30 seconds.
	Timeout time.Duration `hcl:"timeout,optional" json:"timeout,omitempty"`

	// MaxRetries for transient failures (network errors, 5xx).
	// Default: 3. Client errors are never retried.
	MaxRetries int `hcl:"max_retries,optional" json:"maxRetries,omitempty"`

	// CacheTTL bounds how long cached list/get responses are served before
	// the remote is consulted again. Default: 30 seconds.
	CacheTTL time.Duration `hcl:"cache_ttl,optional" json:"cacheTtl,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		CacheTTL:   30 * time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
	); err != nil {
		return fmt.Errorf("invalid workspace API config: %w", err)
	}
	return nil
}

func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	out := *c
	if out.Timeout == 0 {
		out.Timeout = defaults.Timeout
	}
	if out.MaxRetries == 0 {
		out.MaxRetries = defaults.MaxRetries
	}
	// A negative value would wrap when converted for the retry policy;
	// treat it as "no retries".
	if out.MaxRetries < 0 {
		out.MaxRetries = 0
	}
	if out.CacheTTL == 0 {
		out.CacheTTL = defaults.CacheTTL
	}
	return &out
}
