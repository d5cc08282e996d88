package api

import (
	"errors"
	"net/http"

	"github.com/hashicorp-forge/atrium/internal/server"
	"github.com/hashicorp-forge/atrium/pkg/notifications/backends"
	"github.com/hashicorp-forge/atrium/pkg/workspace"
)

// NotificationsTryResponse is the response for POST /api/v1/notifications/try.
type NotificationsTryResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NotificationsTryHandler sends a one-off test notification through the
// channel configuration supplied in the body. Nothing is persisted.
// Endpoint: POST /api/v1/notifications/try
func NotificationsTryHandler(srv *server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []any{
			"path", r.URL.Path,
			"method", r.Method,
		}

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var channel workspace.Notification
		if err := decodeRequest(r, &channel); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if channel.NotificationType == "" {
			http.Error(w, "notificationType is required", http.StatusBadRequest)
			return
		}

		if err := srv.Notifications.Try(r.Context(), channel); err != nil {
			srv.Logger.Warn("test notification failed",
				append(logArgs, "type", channel.NotificationType, "error", err)...)

			// Misconfigured channels are the caller's problem; delivery
			// failures are the remote's.
			status := http.StatusBadGateway
			var backendErr *backends.BackendError
			if errors.As(err, &backendErr) && !backendErr.IsRetryable() {
				status = http.StatusBadRequest
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			encodeBody(w, srv.Logger, NotificationsTryResponse{
				Status:  "failed",
				Message: err.Error(),
			})
			return
		}

		respondJSON(w, srv.Logger, NotificationsTryResponse{Status: "succeeded"})
	})
}
