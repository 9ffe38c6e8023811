package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
	"github.com/vncsmyrnk/dailygoals/internal/logging"
	"github.com/vncsmyrnk/dailygoals/internal/metrics"
)

type AuthService struct {
	users     ports.UserService
	issuer    *TokenIssuer
	accessTTL time.Duration
	log       logging.Logger
}

func NewAuthService(users ports.UserService, issuer *TokenIssuer, log logging.Logger) *AuthService {
	return &AuthService{
		users:     users,
		issuer:    issuer,
		accessTTL: issuer.accessTTL,
		log:       log.With("component", "auth"),
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if domain.NormalizeEmail(email) == "" || password == "" {
		return nil, domain.ErrCredentialsRequired
	}

	user, err := s.users.CreateUser(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return s.authenticated(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if domain.NormalizeEmail(email) == "" || password == "" {
		return nil, domain.ErrCredentialsRequired
	}

	user, err := s.users.VerifyPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.authenticated(ctx, user)
}

func (s *AuthService) authenticated(ctx context.Context, user *domain.User) (*ports.AuthResult, error) {
	pair, err := s.issuer.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return &ports.AuthResult{User: user, Tokens: pair, ExpiresIn: s.accessTTL}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrRefreshTokenRequired
	}
	return s.issuer.RotateRefreshToken(ctx, refreshToken)
}

// Logout revokes the access token and then the refresh token. Tokens that
// are unknown, foreign or already revoked are reported as not revoked.
//
// An access token that was already revoked belongs to a session that has
// ended, so it revokes nothing else. This keeps a repeated logout harmless
// without letting a dead token end other sessions of the same user.
func (s *AuthService) Logout(ctx context.Context, userID int64, refreshToken, accessToken string) (*ports.LogoutResult, error) {
	if refreshToken == "" {
		return nil, domain.ErrRefreshTokenRequired
	}

	accessRevoked, err := s.issuer.Revoke(ctx, accessToken, userID, domain.TokenKindAccess)
	if err != nil {
		return nil, err
	}
	if accessToken != "" && !accessRevoked {
		return &ports.LogoutResult{}, nil
	}

	refreshRevoked, err := s.issuer.Revoke(ctx, refreshToken, userID, domain.TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	return &ports.LogoutResult{
		RefreshTokenRevoked: refreshRevoked,
		AccessTokenRevoked:  accessRevoked,
	}, nil
}

func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (int64, error) {
	return s.authenticate(ctx, accessToken, false)
}

func (s *AuthService) AuthenticateForLogout(ctx context.Context, accessToken string) (int64, error) {
	return s.authenticate(ctx, accessToken, true)
}

func (s *AuthService) authenticate(ctx context.Context, accessToken string, allowRevoked bool) (int64, error) {
	if accessToken == "" {
		return 0, domain.ErrMissingAuthToken
	}

	userID, err := s.issuer.ValidateAccessToken(ctx, accessToken, allowRevoked)
	if err == nil {
		return userID, nil
	}

	reason, ok := rejectionReason(err)
	if !ok {
		return 0, err
	}
	metrics.RecordTokenRejected(reason)
	s.log.Warn(ctx, "access token rejected", "reason", reason)
	return 0, domain.ErrInvalidAuthToken
}

func rejectionReason(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed", true
	case errors.Is(err, domain.ErrTokenNotFound):
		return "not_found", true
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired", true
	case errors.Is(err, domain.ErrTokenRevoked):
		return "revoked", true
	case errors.Is(err, domain.ErrTokenMismatch):
		return "mismatch", true
	default:
		return "", false
	}
}
