package http

import (
	"context"
	"net/http"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
	"github.com/vncsmyrnk/dailygoals/internal/logging"
)

type ProjectHandler struct {
	service ports.ProjectService
	log     logging.Logger
}

func NewProjectHandler(service ports.ProjectService, log logging.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		log:     log,
	}
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// updateProjectRequest leaves absent fields untouched.
type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type projectStatusResponse struct {
	Status    string `json:"status"`
	ProjectID int64  `json:"project_id"`
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.log, errMissingUser)
		return
	}

	var req createProjectRequest
	decodeJSON(w, r, &req)

	project, err := h.service.Create(r.Context(), userID, ports.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListActive)
}

func (h *ProjectHandler) ListArchivedProjects(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListArchived)
}

func (h *ProjectHandler) list(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, userID int64) ([]*domain.Project, error)) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.log, errMissingUser)
		return
	}

	projects, err := fetch(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.log, errMissingUser)
		return
	}
	id, err := projectIDParam(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	project, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.log, errMissingUser)
		return
	}
	id, err := projectIDParam(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var req updateProjectRequest
	decodeJSON(w, r, &req)

	project, err := h.service.Update(r.Context(), userID, id, ports.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// ArchiveProject serves both DELETE /projects/{id} and POST /projects/{id}/archive.
func (h *ProjectHandler) ArchiveProject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Archive, "archived")
}

func (h *ProjectHandler) RestoreProject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Restore, "restored")
}

func (h *ProjectHandler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, userID, id int64) error, status string) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.log, errMissingUser)
		return
	}
	id, err := projectIDParam(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := apply(r.Context(), userID, id); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, projectStatusResponse{Status: status, ProjectID: id})
}
