package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
	"github.com/vncsmyrnk/dailygoals/internal/dbx"
)

type TokenRepository struct {
	db dbx.DBTX
}

func NewTokenRepository(db dbx.DBTX) ports.TokenRepository {
	return &TokenRepository{db: db}
}

func tokenTable(kind domain.TokenKind) (string, error) {
	switch kind {
	case domain.TokenKindAccess:
		return "access_tokens", nil
	case domain.TokenKindRefresh:
		return "refresh_tokens", nil
	default:
		return "", fmt.Errorf("unknown token kind %q", kind)
	}
}

func (r *TokenRepository) Store(ctx context.Context, token *domain.Token) error {
	table, err := tokenTable(token.Kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, token_hash, issued_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, table)
	err = dbx.Conn(ctx, r.db).QueryRowContext(ctx, query, token.UserID, token.TokenHash, token.IssuedAt, token.ExpiresAt).Scan(&token.ID)
	if err != nil {
		return fmt.Errorf("failed to store %s token: %w", token.Kind, err)
	}
	return nil
}

func (r *TokenRepository) GetByHash(ctx context.Context, kind domain.TokenKind, tokenHash string) (*domain.Token, error) {
	table, err := tokenTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT id, user_id, token_hash, issued_at, expires_at, revoked_at
		FROM %s
		WHERE token_hash = $1
	`, table)

	token := &domain.Token{Kind: kind}
	var revokedAt sql.NullTime
	err = dbx.Conn(ctx, r.db).QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.IssuedAt,
		&token.ExpiresAt,
		&revokedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s token: %w", kind, err)
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		token.RevokedAt = &t
	}
	return token, nil
}

func (r *TokenRepository) Consume(ctx context.Context, kind domain.TokenKind, tokenHash string, now time.Time) (int64, error) {
	table, err := tokenTable(kind)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`
		UPDATE %s SET revoked_at = $2
		WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > $2
		RETURNING user_id
	`, table)

	var userID int64
	if err := dbx.Conn(ctx, r.db).QueryRowContext(ctx, query, tokenHash, now).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrTokenNotFound
		}
		return 0, fmt.Errorf("failed to consume %s token: %w", kind, err)
	}
	return userID, nil
}

func (r *TokenRepository) Revoke(ctx context.Context, kind domain.TokenKind, tokenHash string, userID int64, now time.Time) (bool, error) {
	table, err := tokenTable(kind)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(`
		UPDATE %s SET revoked_at = $3
		WHERE token_hash = $1 AND user_id = $2 AND revoked_at IS NULL
	`, table)

	res, err := dbx.Conn(ctx, r.db).ExecContext(ctx, query, tokenHash, userID, now)
	if err != nil {
		return false, fmt.Errorf("failed to revoke %s token: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to revoke %s token: %w", kind, err)
	}
	return n > 0, nil
}

func (r *TokenRepository) PurgeDead(ctx context.Context, kind domain.TokenKind, cutoff time.Time) (int64, error) {
	table, err := tokenTable(kind)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE expires_at < $1 OR revoked_at < $1`, table)

	res, err := dbx.Conn(ctx, r.db).ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge %s tokens: %w", kind, err)
	}
	return res.RowsAffected()
}
