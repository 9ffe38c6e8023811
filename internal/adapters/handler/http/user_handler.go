package http

import (
	"errors"
	"net/http"

	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
	"github.com/vncsmyrnk/dailygoals/internal/logging"
)

// errMissingUser means a protected handler was reached without the auth gate.
var errMissingUser = errors.New("missing user in request context")

type UserHandler struct {
	service ports.UserService
	log     logging.Logger
}

func NewUserHandler(service ports.UserService, log logging.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.log, errMissingUser)
		return
	}

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
