package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
	"github.com/vncsmyrnk/dailygoals/internal/logging"
)

type authFixture struct {
	svc    *AuthService
	tokens *fakeTokenRepo
	users  *fakeUserRepo
	clock  *clock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	issuer, tokens, clk := newTestIssuer(t)
	users := newFakeUserRepo()
	svc := NewAuthService(NewUserService(users, bcrypt.MinCost), issuer, logging.Nop())
	return &authFixture{svc: svc, tokens: tokens, users: users, clock: clk}
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, "  Alice@Example.COM ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", reg.User.Email)
	assert.Equal(t, 15*time.Minute, reg.ExpiresIn)
	assert.NotEmpty(t, reg.Tokens.Access.Value)
	assert.NotEmpty(t, reg.Tokens.Refresh.Value)

	login, err := f.svc.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	userID, err := f.svc.Authenticate(ctx, login.Tokens.Access.Value)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, userID)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "   ", "pw")
	assert.ErrorIs(t, err, domain.ErrCredentialsRequired)

	_, err = f.svc.Register(ctx, "a@b.c", "")
	assert.ErrorIs(t, err, domain.ErrCredentialsRequired)

	_, err = f.svc.Register(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, "A@B.C", "other")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyRegistered)
}

func TestAuthService_LoginFailuresLookAlike(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "a@b.c", "right")
	require.NoError(t, err)

	_, errWrongPw := f.svc.Login(ctx, "a@b.c", "wrong")
	_, errNoUser := f.svc.Login(ctx, "nobody@b.c", "right")
	assert.ErrorIs(t, errWrongPw, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, domain.ErrInvalidCredentials)
	assert.Equal(t, errWrongPw.Error(), errNoUser.Error())

	_, err = f.svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrCredentialsRequired)
}

func TestAuthService_Refresh(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	_, err = f.svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, domain.ErrRefreshTokenRequired)

	pair, err := f.svc.Refresh(ctx, reg.Tokens.Refresh.Value)
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now().Add(30*24*time.Hour), pair.Refresh.ExpiresAt)

	_, err = f.svc.Refresh(ctx, reg.Tokens.Refresh.Value)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)

	_, err = f.svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestAuthService_LogoutIsIdempotent(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	access, refresh := reg.Tokens.Access.Value, reg.Tokens.Refresh.Value

	_, err = f.svc.Logout(ctx, reg.User.ID, "", access)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenRequired)

	first, err := f.svc.Logout(ctx, reg.User.ID, refresh, access)
	require.NoError(t, err)
	assert.True(t, first.RefreshTokenRevoked)
	assert.True(t, first.AccessTokenRevoked)

	_, err = f.svc.Authenticate(ctx, access)
	assert.ErrorIs(t, err, domain.ErrInvalidAuthToken)

	userID, err := f.svc.AuthenticateForLogout(ctx, access)
	require.NoError(t, err)

	second, err := f.svc.Logout(ctx, userID, refresh, access)
	require.NoError(t, err)
	assert.False(t, second.RefreshTokenRevoked)
	assert.False(t, second.AccessTokenRevoked)

	_, err = f.svc.Refresh(ctx, refresh)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestAuthService_LogoutCannotRevokeForeignTokens(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	alice, err := f.svc.Register(ctx, "alice@b.c", "pw")
	require.NoError(t, err)
	bob, err := f.svc.Register(ctx, "bob@b.c", "pw")
	require.NoError(t, err)

	res, err := f.svc.Logout(ctx, bob.User.ID, alice.Tokens.Refresh.Value, "")
	require.NoError(t, err)
	assert.False(t, res.RefreshTokenRevoked)
	assert.False(t, res.AccessTokenRevoked)

	_, err = f.svc.Refresh(ctx, alice.Tokens.Refresh.Value)
	require.NoError(t, err)
}

func TestAuthService_RevokedSessionCannotEndOtherSessions(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	first, err := f.svc.Register(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	second, err := f.svc.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	res, err := f.svc.Logout(ctx, first.User.ID, first.Tokens.Refresh.Value, first.Tokens.Access.Value)
	require.NoError(t, err)
	require.True(t, res.RefreshTokenRevoked)

	userID, err := f.svc.AuthenticateForLogout(ctx, first.Tokens.Access.Value)
	require.NoError(t, err)

	res, err = f.svc.Logout(ctx, userID, second.Tokens.Refresh.Value, first.Tokens.Access.Value)
	require.NoError(t, err)
	assert.False(t, res.RefreshTokenRevoked)
	assert.False(t, res.AccessTokenRevoked)

	_, err = f.svc.Refresh(ctx, second.Tokens.Refresh.Value)
	assert.NoError(t, err, "the second session is still alive")
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrMissingAuthToken)

	_, err = f.svc.Authenticate(ctx, "nonsense")
	assert.ErrorIs(t, err, domain.ErrInvalidAuthToken)

	reg, err := f.svc.Register(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	f.clock.Advance(16 * time.Minute)
	_, err = f.svc.Authenticate(ctx, reg.Tokens.Access.Value)
	assert.ErrorIs(t, err, domain.ErrInvalidAuthToken)

	_, err = f.svc.AuthenticateForLogout(ctx, reg.Tokens.Access.Value)
	assert.ErrorIs(t, err, domain.ErrInvalidAuthToken, "expired tokens are never accepted")
}

func TestAuthService_AuthenticateStorageFailure(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	f.tokens.err = assert.AnError
	_, err = f.svc.Authenticate(ctx, reg.Tokens.Access.Value)
	assert.ErrorIs(t, err, assert.AnError)
	var de *domain.Error
	assert.False(t, errors.As(err, &de))
}
