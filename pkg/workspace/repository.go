package workspace

import (
	"context"
	"errors"
)

// ErrNoWorkspace is returned when the remote reports no provisioned
// workspaces. The workspace is created server-side at account provisioning;
// this package only reads and updates it.
var ErrNoWorkspace = errors.New("no workspace provisioned")

// Repository is the cache/fetch collaborator the service reads and mutates
// workspaces through. Implementations are expected to deduplicate identical
// in-flight requests and to update their cached copy atomically when an
// update succeeds; the service itself holds no state between calls.
type Repository interface {
	// List returns all workspaces visible to the caller, in server order.
	List(ctx context.Context) ([]Workspace, error)

	// Get returns the detail record for a single workspace.
	Get(ctx context.Context, workspaceID string) (*Workspace, error)

	// Update submits a partial update. Supplied fields are authoritative;
	// the remote does not diff against its stored copy.
	Update(ctx context.Context, update Update) error

	// TryNotification sends a one-off test notification through the given
	// channel configuration without persisting anything.
	TryNotification(ctx context.Context, notification Notification) error
}
