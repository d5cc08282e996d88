package api

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/atrium/internal/server"
	"github.com/hashicorp-forge/atrium/pkg/models"
	"github.com/hashicorp-forge/atrium/pkg/workspace"
)

// WorkspacesListResponse is the response for POST /api/v1/workspaces/list.
type WorkspacesListResponse struct {
	Workspaces []workspace.Workspace `json:"workspaces"`
}

// WorkspacesGetRequest is the request for POST /api/v1/workspaces/get.
type WorkspacesGetRequest struct {
	WorkspaceID string `json:"workspaceId"`
}

// WorkspacesListHandler returns all workspaces in provisioning order.
// Endpoint: POST /api/v1/workspaces/list
func WorkspacesListHandler(srv *server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []any{
			"path", r.URL.Path,
			"method", r.Method,
		}

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		records, err := models.GetAllWorkspaces(srv.DB)
		if err != nil {
			srv.Logger.Error("error loading workspaces from database",
				append(logArgs, "error", err)...)
			http.Error(w, "Error loading workspaces", http.StatusInternalServerError)
			return
		}

		workspaces := make([]workspace.Workspace, 0, len(records))
		for _, record := range records {
			ws, err := record.ToWorkspace()
			if err != nil {
				srv.Logger.Error("error converting workspace record",
					append(logArgs, "workspace_id", record.WorkspaceID, "error", err)...)
				continue
			}
			workspaces = append(workspaces, ws)
		}

		respondJSON(w, srv.Logger, WorkspacesListResponse{Workspaces: workspaces})
	})
}

// WorkspacesGetHandler returns the detail record for a single workspace.
// Endpoint: POST /api/v1/workspaces/get
func WorkspacesGetHandler(srv *server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []any{
			"path", r.URL.Path,
			"method", r.Method,
		}

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req WorkspacesGetRequest
		if err := decodeRequest(r, &req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := validation.Validate(req.WorkspaceID, validation.Required); err != nil {
			http.Error(w, "workspaceId is required", http.StatusBadRequest)
			return
		}

		record := &models.Workspace{}
		if err := record.GetByWorkspaceID(srv.DB, req.WorkspaceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.Error(w, "Workspace not found", http.StatusNotFound)
				return
			}
			srv.Logger.Error("error loading workspace",
				append(logArgs, "workspace_id", req.WorkspaceID, "error", err)...)
			http.Error(w, "Error loading workspace", http.StatusInternalServerError)
			return
		}

		ws, err := record.ToWorkspace()
		if err != nil {
			srv.Logger.Error("error converting workspace record",
				append(logArgs, "workspace_id", req.WorkspaceID, "error", err)...)
			http.Error(w, "Error processing workspace", http.StatusInternalServerError)
			return
		}

		respondJSON(w, srv.Logger, ws)
	})
}

// WorkspacesUpdateHandler applies a partial update and returns the updated
// workspace. Every field the body carries is authoritative; fields it omits
// keep their stored values.
// Endpoint: POST /api/v1/workspaces/update
func WorkspacesUpdateHandler(srv *server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []any{
			"path", r.URL.Path,
			"method", r.Method,
		}

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var update workspace.Update
		if err := decodeRequest(r, &update); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := validation.Validate(update.WorkspaceID, validation.Required); err != nil {
			http.Error(w, "workspaceId is required", http.StatusBadRequest)
			return
		}

		record := &models.Workspace{}
		if err := record.GetByWorkspaceID(srv.DB, update.WorkspaceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.Error(w, "Workspace not found", http.StatusNotFound)
				return
			}
			srv.Logger.Error("error loading workspace",
				append(logArgs, "workspace_id", update.WorkspaceID, "error", err)...)
			http.Error(w, "Error loading workspace", http.StatusInternalServerError)
			return
		}

		if err := record.ApplyUpdate(update); err != nil {
			srv.Logger.Error("error applying workspace update",
				append(logArgs, "workspace_id", update.WorkspaceID, "error", err)...)
			http.Error(w, "Error applying update", http.StatusInternalServerError)
			return
		}
		if err := record.Update(srv.DB); err != nil {
			srv.Logger.Error("error saving workspace",
				append(logArgs, "workspace_id", update.WorkspaceID, "error", err)...)
			http.Error(w, "Error saving workspace", http.StatusInternalServerError)
			return
		}

		ws, err := record.ToWorkspace()
		if err != nil {
			srv.Logger.Error("error converting workspace record",
				append(logArgs, "workspace_id", update.WorkspaceID, "error", err)...)
			http.Error(w, "Error processing workspace", http.StatusInternalServerError)
			return
		}

		srv.Logger.Info("workspace updated",
			append(logArgs, "workspace_id", update.WorkspaceID)...)
		srv.Analytics.Track("Workspace Updated", map[string]any{
			"workspace_id": update.WorkspaceID,
		})
		respondJSON(w, srv.Logger, ws)
	})
}
