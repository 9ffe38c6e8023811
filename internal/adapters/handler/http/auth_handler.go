package http

import (
	"net/http"
	"time"

	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
	"github.com/vncsmyrnk/dailygoals/internal/logging"
)

type AuthHandler struct {
	authService ports.AuthService
	log         logging.Logger
}

func NewAuthHandler(authService ports.AuthService, log logging.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type logoutResponse struct {
	Status              string `json:"status"`
	RefreshTokenRevoked bool   `json:"refresh_token_revoked"`
	AccessTokenRevoked  bool   `json:"access_token_revoked"`
}

func newAuthResponse(res *ports.AuthResult) authResponse {
	return authResponse{
		ID:           res.User.ID,
		Email:        res.User.Email,
		AccessToken:  res.Tokens.Access.Value,
		RefreshToken: res.Tokens.Refresh.Value,
		ExpiresIn:    int64(res.ExpiresIn / time.Second),
	}
}

// Register godoc
// @Summary      Registers a user
// @Description  Creates the account and returns a fresh access/refresh token pair.
// @Tags         auth
// @Accept       json
// @Success      201
// @Failure      400,409
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	decodeJSON(w, r, &req)

	res, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, newAuthResponse(res))
}

// Login godoc
// @Summary      Logs a user in
// @Tags         auth
// @Accept       json
// @Success      200
// @Failure      400,401
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	decodeJSON(w, r, &req)

	res, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(res))
}

// Refresh godoc
// @Summary      Rotates a refresh token
// @Description  Consumes the refresh token and returns a new access/refresh pair. expires_at is the expiry of the new refresh token.
// @Tags         auth
// @Accept       json
// @Success      200
// @Failure      400,401
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	decodeJSON(w, r, &req)

	pair, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
		ExpiresAt:    pair.Refresh.ExpiresAt.UTC(),
	})
}

// Logout godoc
// @Summary      Logs the authenticated user out
// @Description  Revokes the given refresh token and the bearer access token. Repeating it is not an error.
// @Tags         auth
// @Accept       json
// @Success      200
// @Failure      400,401
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.log, errMissingUser)
		return
	}

	var req refreshRequest
	decodeJSON(w, r, &req)

	accessToken, _ := bearerToken(r)
	res, err := h.authService.Logout(r.Context(), userID, req.RefreshToken, accessToken)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, logoutResponse{
		Status:              "logged_out",
		RefreshTokenRevoked: res.RefreshTokenRevoked,
		AccessTokenRevoked:  res.AccessTokenRevoked,
	})
}
