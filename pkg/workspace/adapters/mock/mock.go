// Package mock provides an in-memory workspace.Repository for tests and
// embedded use. Updates are applied to the stored copy the same way the real
// cache layer applies them, so reads after a mutation observe the new state.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp-forge/atrium/pkg/workspace"
)

// Repository is an in-memory workspace store. The zero value is empty and
// ready to use. Submitted updates and test notifications are recorded for
// assertions.
type Repository struct {
	mu         sync.Mutex
	workspaces []workspace.Workspace

	// Updates records every update submitted, in order.
	Updates []workspace.Update

	// Tried records every notification sent through TryNotification.
	Tried []workspace.Notification

	// Error fields force the corresponding operation to fail.
	ListErr   error
	GetErr    error
	UpdateErr error
	TryErr    error
}

var _ workspace.Repository = (*Repository)(nil)

// NewRepository creates a repository seeded with the given workspaces.
func NewRepository(workspaces ...workspace.Workspace) *Repository {
	return &Repository{workspaces: workspaces}
}

func (r *Repository) List(ctx context.Context) ([]workspace.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	out := make([]workspace.Workspace, len(r.workspaces))
	copy(out, r.workspaces)
	return out, nil
}

func (r *Repository) Get(ctx context.Context, workspaceID string) (*workspace.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	for _, ws := range r.workspaces {
		if ws.WorkspaceID == workspaceID {
			copied := ws
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("workspace %q not found", workspaceID)
}

func (r *Repository) Update(ctx context.Context, update workspace.Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	for i, ws := range r.workspaces {
		if ws.WorkspaceID == update.WorkspaceID {
			r.workspaces[i] = workspace.MergeUpdate(ws, update)
			r.Updates = append(r.Updates, update)
			return nil
		}
	}
	return fmt.Errorf("workspace %q not found", update.WorkspaceID)
}

func (r *Repository) TryNotification(ctx context.Context, notification workspace.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.TryErr != nil {
		return r.TryErr
	}
	r.Tried = append(r.Tried, notification)
	return nil
}
