// tokens signs and verifies the two JWT kinds. Access and refresh
// tokens carry the same payload but are signed with independent secrets
// so a leak of one cannot forge the other.
package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nstepanov/bookvault/internal/apperror"
	"github.com/nstepanov/bookvault/internal/models"
)

type Claims struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Codec struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
}

func (c *Codec) IssueAccess(u *models.User) (string, error) {
	return c.sign(u, c.AccessSecret, c.AccessTTL, "")
}

func (c *Codec) IssueRefresh(u *models.User) (string, error) {
	return c.sign(u, c.RefreshSecret, c.RefreshTTL, uuid.NewString())
}

func (c *Codec) sign(u *models.User, secret []byte, ttl time.Duration, jti string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (c *Codec) ParseAccess(tokenStr string) (*Claims, error) {
	return parse(tokenStr, c.AccessSecret)
}

func (c *Codec) ParseRefresh(tokenStr string) (*Claims, error) {
	return parse(tokenStr, c.RefreshSecret)
}

func parse(tokenStr string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.ErrTokenExpired.WithCause(err)
		}
		return nil, apperror.ErrTokenInvalid.WithCause(err)
	}
	if !tkn.Valid {
		return nil, apperror.ErrTokenInvalid
	}
	return &claims, nil
}
