package backends

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/atrium/pkg/notifications"
	"github.com/hashicorp-forge/atrium/pkg/workspace"
)

func TestSlackBackendSupportsType(t *testing.T) {
	b := NewSlackBackend(SlackConfig{})
	assert.Equal(t, "slack", b.Name())
	assert.True(t, b.SupportsType(workspace.NotificationTypeSlack))
	assert.False(t, b.SupportsType("pagerduty"))
}

func TestSlackBackendSend(t *testing.T) {
	var payload slackPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b := NewSlackBackend(SlackConfig{})
	err := b.Send(context.Background(),
		workspace.SlackNotification(srv.URL),
		notifications.Message{Subject: "hello", Body: "world"})
	require.NoError(t, err)
	assert.Contains(t, payload.Text, "hello")
	assert.Contains(t, payload.Text, "world")
}

func TestSlackBackendErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		retryable bool
	}{
		{"server error", http.StatusInternalServerError, true},
		{"rate limited", http.StatusTooManyRequests, true},
		{"bad request", http.StatusBadRequest, false},
		{"not found", http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			b := NewSlackBackend(SlackConfig{})
			err := b.Send(context.Background(),
				workspace.SlackNotification(srv.URL),
				notifications.TestMessage())
			require.Error(t, err)

			var backendErr *BackendError
			require.ErrorAs(t, err, &backendErr)
			assert.Equal(t, tt.retryable, backendErr.IsRetryable())
		})
	}
}

func TestSlackBackendRejectsMissingConfiguration(t *testing.T) {
	b := NewSlackBackend(SlackConfig{})

	err := b.Send(context.Background(),
		workspace.Notification{NotificationType: workspace.NotificationTypeSlack},
		notifications.TestMessage())
	require.Error(t, err)

	err = b.Send(context.Background(),
		workspace.SlackNotification("not a url"),
		notifications.TestMessage())
	require.Error(t, err)
}

func TestRegistryTry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRegistry(nil, nil)
	require.NoError(t, r.Try(context.Background(), workspace.SlackNotification(srv.URL)))

	err := r.Try(context.Background(), workspace.Notification{NotificationType: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no backend")
}

func TestRegistryDispatchAggregatesFailures(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	r := NewRegistry(nil, nil)
	err := r.Dispatch(context.Background(), []workspace.Notification{
		workspace.SlackNotification(ok.URL),
		workspace.SlackNotification(failing.URL),
	}, notifications.TestMessage())

	require.Error(t, err)
	var backendErr *BackendError
	assert.ErrorAs(t, err, &backendErr)
}
