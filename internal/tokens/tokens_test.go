package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nstepanov/bookvault/internal/apperror"
	"github.com/nstepanov/bookvault/internal/models"
)

func newTestCodec() *Codec {
	return NewCodec("test-access-secret", "test-refresh-secret", time.Hour, 7*24*time.Hour)
}

func testUser() *models.User {
	return &models.User{ID: 42, Email: "a@x.com", Role: models.RoleUser}
}

func TestCodec_AccessRoundtrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	user := testUser()

	token, err := codec.IssueAccess(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Role, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestCodec_RefreshRoundtrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	user := testUser()

	token, err := codec.IssueRefresh(user)
	require.NoError(t, err)

	claims, err := codec.ParseRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.NotEmpty(t, claims.ID, "refresh tokens carry a jti")
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestCodec_SecretsAreIndependent(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	user := testUser()

	access, err := codec.IssueAccess(user)
	require.NoError(t, err)
	refresh, err := codec.IssueRefresh(user)
	require.NoError(t, err)

	_, err = codec.ParseRefresh(access)
	assert.ErrorIs(t, err, apperror.ErrTokenInvalid)

	_, err = codec.ParseAccess(refresh)
	assert.ErrorIs(t, err, apperror.ErrTokenInvalid)
}

func TestCodec_ExpiredIsDistinctFromInvalid(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-access-secret", "test-refresh-secret", -time.Minute, -time.Minute)
	user := testUser()

	expired, err := codec.IssueAccess(user)
	require.NoError(t, err)

	_, err = codec.ParseAccess(expired)
	assert.ErrorIs(t, err, apperror.ErrTokenExpired)
	assert.NotErrorIs(t, err, apperror.ErrTokenInvalid)

	_, err = codec.ParseAccess(expired + "tampered")
	assert.ErrorIs(t, err, apperror.ErrTokenInvalid)
}

func TestCodec_RefreshTokensAreUnique(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	user := testUser()

	first, err := codec.IssueRefresh(user)
	require.NoError(t, err)
	second, err := codec.IssueRefresh(user)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "jti must differ per issuance")
}
