package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nstepanov/bookvault/internal/apperror"
	"github.com/nstepanov/bookvault/internal/models"
	"github.com/nstepanov/bookvault/internal/store"
	"github.com/nstepanov/bookvault/internal/tokens"
)

func newTestGate(t *testing.T) (*AuthGate, *models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.BlacklistToken{}))

	codec := tokens.NewCodec("gate-access", "gate-refresh", time.Hour, 24*time.Hour)
	user := &models.User{Email: "gate@x.com", Role: models.RoleUser}
	user.ID = 42
	return NewAuthGate(codec, store.New(db)), user
}

func doRequest(gate *AuthGate, wrap func(echo.HandlerFunc) echo.HandlerFunc, authHeader string) (echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := wrap(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return c, handler(c)
}

func TestRequireAuth_SetsIdentity(t *testing.T) {
	t.Parallel()

	gate, user := newTestGate(t)
	token, err := gate.Codec.IssueAccess(user)
	require.NoError(t, err)

	c, err := doRequest(gate, gate.RequireAuth, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, UserID(c))
	assert.Equal(t, user.Email, Email(c))
	assert.Equal(t, models.RoleUser, Role(c))
	assert.Equal(t, token, AccessToken(c))
}

func TestRequireAuth_MissingToken(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer "} {
		_, err := doRequest(gate, gate.RequireAuth, header)
		assert.ErrorIs(t, err, apperror.ErrTokenRequired, "header %q", header)
	}
}

func TestRequireAuth_BlacklistedToken(t *testing.T) {
	t.Parallel()

	gate, user := newTestGate(t)
	token, err := gate.Codec.IssueAccess(user)
	require.NoError(t, err)
	require.NoError(t, gate.Store.BlacklistToken(context.Background(), token))

	_, err = doRequest(gate, gate.RequireAuth, "Bearer "+token)
	assert.ErrorIs(t, err, apperror.ErrTokenRevoked)
}

func TestRequireAuth_ExpiredAndInvalidAreDistinct(t *testing.T) {
	t.Parallel()

	gate, user := newTestGate(t)

	expiredCodec := tokens.NewCodec("gate-access", "gate-refresh", -time.Minute, 24*time.Hour)
	expired, err := expiredCodec.IssueAccess(user)
	require.NoError(t, err)

	_, err = doRequest(gate, gate.RequireAuth, "Bearer "+expired)
	assert.ErrorIs(t, err, apperror.ErrTokenExpired)

	_, err = doRequest(gate, gate.RequireAuth, "Bearer not-a-jwt")
	assert.ErrorIs(t, err, apperror.ErrTokenInvalid)

	refresh, err := gate.Codec.IssueRefresh(user)
	require.NoError(t, err)
	_, err = doRequest(gate, gate.RequireAuth, "Bearer "+refresh)
	assert.ErrorIs(t, err, apperror.ErrTokenInvalid, "refresh token must not pass the access gate")
}

func TestOptionalAuth_FailuresFallBackToAnonymous(t *testing.T) {
	t.Parallel()

	gate, user := newTestGate(t)

	for _, header := range []string{"", "Bearer garbage"} {
		c, err := doRequest(gate, gate.OptionalAuth, header)
		require.NoError(t, err, "header %q", header)
		assert.Zero(t, UserID(c))
		assert.Empty(t, Role(c))
	}

	token, err := gate.Codec.IssueAccess(user)
	require.NoError(t, err)
	c, err := doRequest(gate, gate.OptionalAuth, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, UserID(c))
}

func TestRequireRole_ExactMatchOnly(t *testing.T) {
	t.Parallel()

	gate, user := newTestGate(t)

	cases := []struct {
		role string
		need string
		ok   bool
	}{
		{models.RoleAdmin, models.RoleAdmin, true},
		{models.RoleUser, models.RoleAdmin, false},
		{models.RoleAdmin, models.RoleModerator, false},
		{models.RoleModerator, models.RoleModerator, true},
	}
	for _, tc := range cases {
		user.Role = tc.role
		token, err := gate.Codec.IssueAccess(user)
		require.NoError(t, err)

		wrap := func(next echo.HandlerFunc) echo.HandlerFunc {
			return gate.RequireAuth(gate.RequireRole(tc.need)(next))
		}
		_, err = doRequest(gate, wrap, "Bearer "+token)
		if tc.ok {
			assert.NoError(t, err, "%s accessing %s route", tc.role, tc.need)
		} else {
			assert.ErrorIs(t, err, apperror.ErrForbidden, "%s accessing %s route", tc.role, tc.need)
		}
	}
}

func TestRequireRole_AnonymousIsForbidden(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t)

	// Without an identity in context the role check fails closed.
	_, err := doRequest(gate, gate.RequireRole(models.RoleAdmin), "")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
