package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesByKind(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, ErrUserNotFound, ErrUserNotFound)
	assert.NotErrorIs(t, ErrUserNotFound, ErrBookNotFound)

	wrapped := fmt.Errorf("lookup: %w", ErrUserNotFound)
	assert.ErrorIs(t, wrapped, ErrUserNotFound)
}

func TestWithStatus_KeepsKind(t *testing.T) {
	t.Parallel()

	e := ErrUnknownRefreshToken.WithStatus(http.StatusBadRequest)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.ErrorIs(t, e, ErrUnknownRefreshToken)

	// The sentinel itself stays untouched.
	assert.Equal(t, http.StatusUnauthorized, ErrUnknownRefreshToken.Status)
}

func TestWithCause_UnwrapsAndStillMatches(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	e := ErrBlacklistWrite.WithCause(cause)

	assert.ErrorIs(t, e, ErrBlacklistWrite)
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, ErrBlacklistWrite.Message, e.Error(), "cause never leaks into the message")
	assert.Nil(t, errors.Unwrap(ErrBlacklistWrite))
}
