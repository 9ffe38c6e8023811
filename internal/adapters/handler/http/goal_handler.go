package http

import (
	"net/http"

	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
	"github.com/vncsmyrnk/dailygoals/internal/logging"
)

type GoalHandler struct {
	service ports.GoalService
	log     logging.Logger
}

func NewGoalHandler(service ports.GoalService, log logging.Logger) *GoalHandler {
	return &GoalHandler{
		service: service,
		log:     log,
	}
}

type goalTextRequest struct {
	GoalText string `json:"goal_text"`
}

func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req goalTextRequest
	decodeJSON(w, r, &req)

	goal, err := h.service.Create(r.Context(), userID, projectID, req.GoalText)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.scope(w, r)
	if !ok {
		return
	}

	goals, err := h.service.List(r.Context(), userID, projectID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) GetTodayGoal(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.scope(w, r)
	if !ok {
		return
	}

	goal, err := h.service.GetToday(r.Context(), userID, projectID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

// PutTodayGoal answers 201 when the goal was created and 200 when an existing
// goal for today was replaced.
func (h *GoalHandler) PutTodayGoal(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req goalTextRequest
	decodeJSON(w, r, &req)

	goal, created, err := h.service.UpsertToday(r.Context(), userID, projectID, req.GoalText)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, goal)
}

func (h *GoalHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.log, errMissingUser)
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}

func (h *GoalHandler) scope(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.log, errMissingUser)
		return 0, 0, false
	}
	projectID, err := projectIDParam(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return 0, 0, false
	}
	return userID, projectID, true
}
