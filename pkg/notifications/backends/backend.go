package backends

import (
	"context"
	"fmt"

	"github.com/hashicorp-forge/atrium/pkg/notifications"
	"github.com/hashicorp-forge/atrium/pkg/workspace"
)

// Backend delivers messages for one notification channel type.
type Backend interface {
	// Name returns the backend identifier.
	Name() string

	// SupportsType reports whether this backend handles the given channel
	// type.
	SupportsType(t workspace.NotificationType) bool

	// Send delivers a message through the given channel configuration.
	Send(ctx context.Context, channel workspace.Notification, msg notifications.Message) error
}

// BackendError is an error from a specific backend, classified as retryable
// or permanent so callers can decide whether another attempt is worthwhile.
type BackendError struct {
	Backend   string
	Operation string
	Retryable bool
	Err       error
}

func (e *BackendError) Error() string {
	retryability := "permanent"
	if e.Retryable {
		retryability = "retryable"
	}
	return fmt.Sprintf("%s backend error (%s, %s): %v", e.Backend, e.Operation, retryability, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable.
func (e *BackendError) IsRetryable() bool {
	return e.Retryable
}

// NewBackendError creates a new backend error.
func NewBackendError(backend, operation string, retryable bool, err error) *BackendError {
	return &BackendError{
		Backend:   backend,
		Operation: operation,
		Retryable: retryable,
		Err:       err,
	}
}

// isRetryableHTTPStatus classifies an HTTP status code. Server errors, rate
// limits, and timeouts warrant another attempt; other client errors do not.
func isRetryableHTTPStatus(status int) bool {
	switch {
	case status >= 500:
		return true
	case status == 429:
		return true
	case status == 408:
		return true
	default:
		return false
	}
}
