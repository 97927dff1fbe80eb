// apperror is the single error vocabulary of the API. Every domain
// failure is one of the sentinel values below; the HTTP boundary renders
// the kind and status without inspecting message strings.
package apperror

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindDuplicateEmail      Kind = "duplicate_email"
	KindInvalidCredentials  Kind = "invalid_credentials"
	KindUserNotFound        Kind = "user_not_found"
	KindInvalidRole         Kind = "invalid_role"
	KindTokenRequired       Kind = "token_required"
	KindTokenRevoked        Kind = "token_revoked"
	KindTokenExpired        Kind = "token_expired"
	KindTokenInvalid        Kind = "token_invalid"
	KindUnknownRefreshToken Kind = "unknown_refresh_token"
	KindRefreshInvalid      Kind = "expired_or_invalid_refresh_token"
	KindBlacklistWrite      Kind = "blacklist_write_failed"
	KindForbidden           Kind = "forbidden"
	KindBookNotFound        Kind = "book_not_found"
	KindBadRequest          Kind = "bad_request"
	KindInternal            Kind = "internal"
)

type Error struct {
	Kind    Kind
	Status  int
	Message string
	cause   error
}

func New(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// Is matches by kind so errors.Is works across WithStatus/WithCause copies.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// WithCause returns a copy carrying the underlying error for logging.
func (e *Error) WithCause(err error) *Error {
	c := *e
	c.cause = err
	return &c
}

// WithStatus returns a copy with a different HTTP status. The same
// domain failure surfaces with different codes on different routes
// (unknown refresh token is 401 on /refresh but 400 on /logout).
func (e *Error) WithStatus(status int) *Error {
	c := *e
	c.Status = status
	return &c
}

var (
	ErrDuplicateEmail      = New(KindDuplicateEmail, http.StatusBadRequest, "email already in use")
	ErrInvalidCredentials  = New(KindInvalidCredentials, http.StatusBadRequest, "invalid email or password")
	ErrUserNotFound        = New(KindUserNotFound, http.StatusNotFound, "user not found")
	ErrInvalidRole         = New(KindInvalidRole, http.StatusBadRequest, "invalid role")
	ErrTokenRequired       = New(KindTokenRequired, http.StatusUnauthorized, "token required")
	ErrTokenRevoked        = New(KindTokenRevoked, http.StatusForbidden, "token has been revoked")
	ErrTokenExpired        = New(KindTokenExpired, http.StatusForbidden, "token expired")
	ErrTokenInvalid        = New(KindTokenInvalid, http.StatusForbidden, "invalid token")
	ErrUnknownRefreshToken = New(KindUnknownRefreshToken, http.StatusUnauthorized, "refresh token not found")
	ErrRefreshInvalid      = New(KindRefreshInvalid, http.StatusUnauthorized, "invalid or expired refresh token")
	ErrBlacklistWrite      = New(KindBlacklistWrite, http.StatusInternalServerError, "failed to blacklist access token")
	ErrForbidden           = New(KindForbidden, http.StatusForbidden, "forbidden: insufficient permissions")
	ErrBookNotFound        = New(KindBookNotFound, http.StatusNotFound, "book not found")
)
