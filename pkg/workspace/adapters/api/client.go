// Package api implements workspace.Repository against the Atrium REST API.
//
// The client is the caching fetch layer the settings service delegates to:
// list and get responses are cached with a TTL, identical in-flight requests
// are collapsed to a single round trip, and transient failures are retried
// with exponential backoff. A successful update replaces the cached copy
// atomically.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/singleflight"

	"github.com/hashicorp-forge/atrium/pkg/workspace"
)

const (
	pathWorkspacesList   = "/api/v1/workspaces/list"
	pathWorkspacesGet    = "/api/v1/workspaces/get"
	pathWorkspacesUpdate = "/api/v1/workspaces/update"
	pathNotificationsTry = "/api/v1/notifications/try"
)

// Client is an HTTP workspace repository.
type Client struct {
	config *Config
	client *http.Client
	log    hclog.Logger

	group singleflight.Group

	mu        sync.Mutex
	list      []workspace.Workspace
	listAt    time.Time
	details   map[string]workspace.Workspace
	detailsAt map[string]time.Time
}

var _ workspace.Repository = (*Client)(nil)

// NewClient creates a new API workspace repository.
func NewClient(cfg *Config, log hclog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}

	return &Client{
		config:    cfg,
		client:    &http.Client{Timeout: cfg.Timeout},
		log:       log.Named("workspace-api"),
		details:   make(map[string]workspace.Workspace),
		detailsAt: make(map[string]time.Time),
	}, nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

type listResponse struct {
	Workspaces []workspace.Workspace `json:"workspaces"`
}

type getRequest struct {
	WorkspaceID string `json:"workspaceId"`
}

// List returns all workspaces, served from cache while fresh. Concurrent
// callers share one round trip.
func (c *Client) List(ctx context.Context) ([]workspace.Workspace, error) {
	c.mu.Lock()
	if c.list != nil && time.Since(c.listAt) < c.config.CacheTTL {
		out := make([]workspace.Workspace, len(c.list))
		copy(out, c.list)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("list", func() (any, error) {
		var resp listResponse
		if err := c.post(ctx, pathWorkspacesList, struct{}{}, &resp); err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.list = resp.Workspaces
		c.listAt = time.Now()
		c.mu.Unlock()
		return resp.Workspaces, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing workspaces: %w", err)
	}

	cached := v.([]workspace.Workspace)
	out := make([]workspace.Workspace, len(cached))
	copy(out, cached)
	return out, nil
}

// Get returns the detail record for a workspace, served from cache while
// fresh.
func (c *Client) Get(ctx context.Context, workspaceID string) (*workspace.Workspace, error) {
	c.mu.Lock()
	if ws, ok := c.details[workspaceID]; ok && time.Since(c.detailsAt[workspaceID]) < c.config.CacheTTL {
		c.mu.Unlock()
		copied := ws
		return &copied, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("get:"+workspaceID, func() (any, error) {
		var ws workspace.Workspace
		if err := c.post(ctx, pathWorkspacesGet, getRequest{WorkspaceID: workspaceID}, &ws); err != nil {
			return nil, err
		}
		c.store(ws)
		return ws, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error getting workspace %q: %w", workspaceID, err)
	}

	ws := v.(workspace.Workspace)
	return &ws, nil
}

// Update submits a partial update and replaces the cached copy with the
// server's updated record. The workspace list cache is invalidated so the
// next List observes the new state.
func (c *Client) Update(ctx context.Context, update workspace.Update) error {
	var updated workspace.Workspace
	if err := c.post(ctx, pathWorkspacesUpdate, update, &updated); err != nil {
		return fmt.Errorf("error updating workspace %q: %w", update.WorkspaceID, err)
	}

	c.mu.Lock()
	c.list = nil
	c.mu.Unlock()
	c.store(updated)

	return nil
}

// TryNotification sends a one-off test notification. Nothing is cached or
// invalidated.
func (c *Client) TryNotification(ctx context.Context, notification workspace.Notification) error {
	if err := c.post(ctx, pathNotificationsTry, notification, nil); err != nil {
		return fmt.Errorf("error trying notification: %w", err)
	}
	return nil
}

func (c *Client) store(ws workspace.Workspace) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.details[ws.WorkspaceID] = ws
	c.detailsAt[ws.WorkspaceID] = time.Now()
}

// post executes a JSON POST with retry of transient failures. Network errors
// and 5xx responses are retried up to MaxRetries; other statuses fail
// immediately.
func (c *Client) post(ctx context.Context, path string, body, result any) error {
	endpoint := strings.TrimSuffix(c.config.BaseURL, "/") + path

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshaling request body: %w", err)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("error creating request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if c.config.AuthToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("error reading response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			statusErr := &StatusError{
				StatusCode: resp.StatusCode,
				Message:    strings.TrimSpace(string(respBody)),
			}
			if resp.StatusCode >= 500 {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				return backoff.Permanent(fmt.Errorf("error decoding response: %w", err))
			}
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.config.MaxRetries)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		c.log.Debug("request failed", "path", path, "error", err)
		return err
	}
	return nil
}
