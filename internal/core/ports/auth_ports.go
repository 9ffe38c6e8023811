package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
)

type TokenRepository interface {
	Store(ctx context.Context, token *domain.Token) error
	// GetByHash returns (nil, nil) when no token of that kind has the hash.
	GetByHash(ctx context.Context, kind domain.TokenKind, tokenHash string) (*domain.Token, error)
	// Consume revokes a live token in a single conditional write and returns
	// its owner. It fails with domain.ErrTokenNotFound when the token is
	// unknown, expired or already revoked.
	Consume(ctx context.Context, kind domain.TokenKind, tokenHash string, now time.Time) (int64, error)
	// Revoke marks the token revoked if it is owned by userID and not yet
	// revoked. It reports whether a row changed.
	Revoke(ctx context.Context, kind domain.TokenKind, tokenHash string, userID int64, now time.Time) (bool, error)
	// PurgeDead deletes tokens that expired or were revoked before cutoff.
	PurgeDead(ctx context.Context, kind domain.TokenKind, cutoff time.Time) (int64, error)
}

type TokenIssuer interface {
	IssueAccessToken(ctx context.Context, userID int64, ttl time.Duration) (*domain.IssuedToken, error)
	IssueRefreshToken(ctx context.Context, userID int64, ttl time.Duration) (*domain.IssuedToken, error)
	RotateRefreshToken(ctx context.Context, oldToken string) (*domain.TokenPair, error)
	Revoke(ctx context.Context, token string, userID int64, kind domain.TokenKind) (bool, error)
	// ValidateAccessToken resolves a bearer token to its user id. With
	// allowRevoked set, an authentic token that was revoked is still accepted.
	ValidateAccessToken(ctx context.Context, token string, allowRevoked bool) (int64, error)
}

type AuthResult struct {
	User      *domain.User
	Tokens    *domain.TokenPair
	ExpiresIn time.Duration
}

type LogoutResult struct {
	RefreshTokenRevoked bool
	AccessTokenRevoked  bool
}

type AuthService interface {
	Register(ctx context.Context, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, userID int64, refreshToken, accessToken string) (*LogoutResult, error)
	Authenticate(ctx context.Context, accessToken string) (int64, error)
	// AuthenticateForLogout accepts access tokens that were already revoked so
	// that logging out twice succeeds.
	AuthenticateForLogout(ctx context.Context, accessToken string) (int64, error)
}

type PurgeService interface {
	PurgeDeadTokens(ctx context.Context, retention time.Duration) (map[domain.TokenKind]int64, error)
}
