package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nstepanov/bookvault/internal/apperror"
	"github.com/nstepanov/bookvault/internal/store"
	"github.com/nstepanov/bookvault/internal/tokens"
)

// Context keys set by the gate on success.
const (
	CtxUserID      = "userID"
	CtxUserEmail   = "userEmail"
	CtxUserRole    = "userRole"
	CtxAccessToken = "accessToken"
)

// AuthGate resolves bearer tokens to identities. Every authenticated
// request pays one blacklist lookup; that is the price of being able to
// revoke a stateless token before it expires.
type AuthGate struct {
	Codec *tokens.Codec
	Store *store.GormStore
}

func NewAuthGate(codec *tokens.Codec, st *store.GormStore) *AuthGate {
	return &AuthGate{Codec: codec, Store: st}
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func (g *AuthGate) resolve(c echo.Context) (*tokens.Claims, string, error) {
	token := bearerToken(c)
	if token == "" {
		return nil, "", apperror.ErrTokenRequired
	}

	blacklisted, err := g.Store.IsBlacklisted(c.Request().Context(), token)
	if err != nil {
		return nil, "", err
	}
	if blacklisted {
		return nil, "", apperror.ErrTokenRevoked
	}

	claims, err := g.Codec.ParseAccess(token)
	if err != nil {
		return nil, "", err
	}
	return claims, token, nil
}

func setIdentity(c echo.Context, claims *tokens.Claims, token string) {
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxUserEmail, claims.Email)
	c.Set(CtxUserRole, claims.Role)
	c.Set(CtxAccessToken, token)
}

// RequireAuth rejects requests without a valid, non-revoked access token.
func (g *AuthGate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, token, err := g.resolve(c)
		if err != nil {
			return err
		}
		setIdentity(c, claims, token)
		return next(c)
	}
}

// OptionalAuth attaches an identity when a valid token happens to be
// present and treats every failure as an anonymous caller. Used on
// public reads that personalize output.
func (g *AuthGate) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, token, err := g.resolve(c)
		if err == nil {
			setIdentity(c, claims, token)
		}
		return next(c)
	}
}

// RequireRole rejects identities whose role is not exactly the required
// one. No hierarchy: admin does not imply moderator.
func (g *AuthGate) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Role(c) != role {
				return apperror.ErrForbidden
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user id, 0 for anonymous callers.
func UserID(c echo.Context) uint {
	if v, ok := c.Get(CtxUserID).(uint); ok {
		return v
	}
	return 0
}

func Email(c echo.Context) string {
	if v, ok := c.Get(CtxUserEmail).(string); ok {
		return v
	}
	return ""
}

func Role(c echo.Context) string {
	if v, ok := c.Get(CtxUserRole).(string); ok {
		return v
	}
	return ""
}

func AccessToken(c echo.Context) string {
	if v, ok := c.Get(CtxAccessToken).(string); ok {
		return v
	}
	return ""
}
