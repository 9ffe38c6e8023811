package http

import (
	"net/http"

	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
	"github.com/vncsmyrnk/dailygoals/internal/logging"
)

type RetroHandler struct {
	service ports.RetroService
	log     logging.Logger
}

func NewRetroHandler(service ports.RetroService, log logging.Logger) *RetroHandler {
	return &RetroHandler{
		service: service,
		log:     log,
	}
}

type createRetroRequest struct {
	RetroDate  string `json:"retro_date"`
	WentWell   string `json:"went_well"`
	Challenges string `json:"challenges"`
	NextSteps  string `json:"next_steps"`
}

func (h *RetroHandler) CreateRetro(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req createRetroRequest
	decodeJSON(w, r, &req)

	retro, err := h.service.Create(r.Context(), userID, projectID, ports.CreateRetroInput{
		RetroDate:  req.RetroDate,
		WentWell:   req.WentWell,
		Challenges: req.Challenges,
		NextSteps:  req.NextSteps,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, retro)
}

func (h *RetroHandler) ListRetros(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.scope(w, r)
	if !ok {
		return
	}

	retros, err := h.service.List(r.Context(), userID, projectID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, retros)
}

func (h *RetroHandler) scope(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
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
