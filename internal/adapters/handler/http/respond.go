package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
	"github.com/vncsmyrnk/dailygoals/internal/logging"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError is the single translator from service errors to responses.
// Anything that is not a *domain.Error is logged and hidden behind a 500.
func writeError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		log.Debug(r.Context(), "request rejected", "method", r.Method, "path", r.URL.Path, "kind", de.Kind.String(), "error", de.Message)
		writeJSON(w, statusFor(de.Kind), errorResponse{Error: de.Message})
		return
	}
	log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// decodeJSON reads the request body into v. Empty or malformed bodies leave v
// at its zero value so the missing-field validation reports the problem.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		_, _ = io.Copy(io.Discard, body)
	}
}

// projectIDParam parses the {id} path segment. Ids that cannot exist are
// reported the same way as ids that do not.
func projectIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrProjectNotFound
	}
	return id, nil
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), true
}
