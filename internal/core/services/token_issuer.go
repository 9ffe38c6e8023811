package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
	"github.com/vncsmyrnk/dailygoals/internal/metrics"
)

const refreshTokenBytes = 32

// AccessClaims is the payload of a signed access token.
type AccessClaims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// TokenIssuer mints, rotates, revokes and validates tokens. Access tokens are
// HS256 JWTs that are also recorded by hash, so they can be revoked before
// they expire. Refresh tokens are opaque random strings stored by hash.
type TokenIssuer struct {
	repo       ports.TokenRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(repo ports.TokenRepository, secret []byte, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		repo:       repo,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock replaces the issuer's time source.
func (s *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	s.now = now
	return s
}

func (s *TokenIssuer) IssueAccessToken(ctx context.Context, userID int64, ttl time.Duration) (*domain.IssuedToken, error) {
	if ttl <= 0 {
		ttl = s.accessTTL
	}
	now := s.now().UTC()
	expiresAt := now.Add(ttl)

	claims := AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	if err := s.store(ctx, domain.TokenKindAccess, userID, signed, now, expiresAt); err != nil {
		return nil, err
	}
	return &domain.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

func (s *TokenIssuer) IssueRefreshToken(ctx context.Context, userID int64, ttl time.Duration) (*domain.IssuedToken, error) {
	if ttl <= 0 {
		ttl = s.refreshTTL
	}
	value, err := generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := s.now().UTC()
	expiresAt := now.Add(ttl)
	if err := s.store(ctx, domain.TokenKindRefresh, userID, value, now, expiresAt); err != nil {
		return nil, err
	}
	return &domain.IssuedToken{Value: value, ExpiresAt: expiresAt}, nil
}

// RotateRefreshToken consumes oldToken and issues a fresh pair for its owner.
// The consume step is a single conditional update, so of several concurrent
// rotations of the same token exactly one succeeds. Callers run it inside the
// request transaction so a failed issue rolls the consumption back.
func (s *TokenIssuer) RotateRefreshToken(ctx context.Context, oldToken string) (*domain.TokenPair, error) {
	if oldToken == "" {
		return nil, domain.ErrInvalidRefreshToken
	}

	userID, err := s.repo.Consume(ctx, domain.TokenKindRefresh, hashToken(oldToken), s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}

	return s.IssuePair(ctx, userID)
}

// IssuePair issues an access and a refresh token with the default lifetimes.
func (s *TokenIssuer) IssuePair(ctx context.Context, userID int64) (*domain.TokenPair, error) {
	access, err := s.IssueAccessToken(ctx, userID, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.IssueRefreshToken(ctx, userID, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{UserID: userID, Access: *access, Refresh: *refresh}, nil
}

func (s *TokenIssuer) Revoke(ctx context.Context, token string, userID int64, kind domain.TokenKind) (bool, error) {
	if token == "" {
		return false, nil
	}
	revoked, err := s.repo.Revoke(ctx, kind, hashToken(token), userID, s.now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to revoke token: %w", err)
	}
	return revoked, nil
}

// ValidateAccessToken checks the signature and expiry of token and then its
// stored record. Rejections are reported as domain.ErrToken* values.
func (s *TokenIssuer) ValidateAccessToken(ctx context.Context, token string, allowRevoked bool) (int64, error) {
	now := s.now().UTC()

	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, domain.ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}

	stored, err := s.repo.GetByHash(ctx, domain.TokenKindAccess, hashToken(token))
	if err != nil {
		return 0, fmt.Errorf("failed to look up access token: %w", err)
	}
	if stored == nil {
		return 0, domain.ErrTokenNotFound
	}
	if stored.UserID != claims.UserID {
		return 0, domain.ErrTokenMismatch
	}

	if err := stored.Status(now); err != nil {
		if !(allowRevoked && errors.Is(err, domain.ErrTokenRevoked) && now.Before(stored.ExpiresAt)) {
			return 0, err
		}
	}
	return stored.UserID, nil
}

func (s *TokenIssuer) store(ctx context.Context, kind domain.TokenKind, userID int64, value string, issuedAt, expiresAt time.Time) error {
	token := &domain.Token{
		UserID:    userID,
		Kind:      kind,
		TokenHash: hashToken(value),
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}
	if err := s.repo.Store(ctx, token); err != nil {
		return fmt.Errorf("failed to store %s token: %w", kind, err)
	}
	metrics.RecordTokenIssued(string(kind))
	return nil
}

func generateRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
