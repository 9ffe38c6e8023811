package domain

import "time"

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Token is the persisted record of an issued credential. Only the hash of the
// credential is stored.
type Token struct {
	ID        int64
	UserID    int64
	Kind      TokenKind
	TokenHash string
	IssuedAt  time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Status returns nil when the token is usable at now, or the reason it is not.
func (t *Token) Status(now time.Time) error {
	if t.RevokedAt != nil {
		return ErrTokenRevoked
	}
	if !now.Before(t.ExpiresAt) {
		return ErrTokenExpired
	}
	return nil
}

// IssuedToken is a freshly minted credential together with its expiry.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

type TokenPair struct {
	UserID  int64
	Access  IssuedToken
	Refresh IssuedToken
}
