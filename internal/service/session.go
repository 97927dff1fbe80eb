// service holds the session lifecycle: issuing the access/refresh pair,
// exchanging refresh tokens, and the two logout paths that keep the
// refresh ledger and the access-token blacklist consistent.
package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/nstepanov/bookvault/internal/apperror"
	"github.com/nstepanov/bookvault/internal/hash"
	"github.com/nstepanov/bookvault/internal/models"
	"github.com/nstepanov/bookvault/internal/store"
	"github.com/nstepanov/bookvault/internal/tokens"
)

type SessionService struct {
	Store *store.GormStore
	Codec *tokens.Codec
}

func NewSessionService(s *store.GormStore, c *tokens.Codec) *SessionService {
	return &SessionService{Store: s, Codec: c}
}

// AuthResult is what register and login hand back: the user without its
// password hash plus the fresh token pair.
type AuthResult struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"-"`
}

// Register creates the user and its first session. User row and ledger
// row commit in one transaction; the unique index on users.email is the
// real duplicate guarantee, the lookup before it only gives the nicer
// error.
func (s *SessionService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	existing, err := s.Store.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateEmail
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}

	var accessToken, refreshToken string
	err = s.Store.DB.Transaction(func(tx *gorm.DB) error {
		txStore := store.New(tx)
		if err := txStore.CreateUser(ctx, user); err != nil {
			return err
		}
		accessToken, err = s.Codec.IssueAccess(user)
		if err != nil {
			return err
		}
		refreshToken, err = s.Codec.IssueRefresh(user)
		if err != nil {
			return err
		}
		return txStore.SaveRefreshToken(ctx, user.ID, refreshToken)
	})
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Login verifies credentials and opens one more device session. Unknown
// email and wrong password produce the identical error so callers cannot
// probe which accounts exist.
func (s *SessionService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.Store.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !hash.CheckPassword(user.PasswordHash, password) {
		return nil, apperror.ErrInvalidCredentials
	}

	accessToken, err := s.Codec.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.Codec.IssueRefresh(user)
	if err != nil {
		return nil, err
	}
	if err := s.Store.SaveRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, err
	}

	return &AuthResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshAccess exchanges a ledger-backed refresh token for a new access
// token. The ledger lookup comes first: a logged-out token fails as
// unknown even when its signature would still verify. The refresh token
// itself is not rotated.
func (s *SessionService) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	stored, err := s.Store.RefreshTokenByValue(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if stored == nil {
		return "", apperror.ErrUnknownRefreshToken
	}

	claims, err := s.Codec.ParseRefresh(refreshToken)
	if err != nil {
		return "", apperror.ErrRefreshInvalid.WithCause(err)
	}

	user, err := s.Store.UserByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperror.ErrUserNotFound
	}

	return s.Codec.IssueAccess(user)
}

// Logout ends one device's session: its ledger row is removed and the
// access token it presented is denied for the rest of its lifetime.
func (s *SessionService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	deleted, err := s.Store.DeleteRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperror.ErrUnknownRefreshToken
	}
	if err := s.Store.BlacklistToken(ctx, accessToken); err != nil {
		return apperror.ErrBlacklistWrite.WithCause(err)
	}
	return nil
}

// LogoutAll drops every ledger row for the user and blacklists the
// access token that made the call. Access tokens held by other devices
// stay cryptographically valid until their own expiry.
func (s *SessionService) LogoutAll(ctx context.Context, accessToken string, userID uint) (int64, error) {
	deleted, err := s.Store.DeleteRefreshTokensByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.Store.BlacklistToken(ctx, accessToken); err != nil {
		return 0, apperror.ErrBlacklistWrite.WithCause(err)
	}
	return deleted, nil
}

func (s *SessionService) UpdateRole(ctx context.Context, id uint, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, apperror.ErrInvalidRole
	}
	user, err := s.Store.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound
	}
	return s.Store.UpdateUserRole(ctx, id, role)
}

func (s *SessionService) UserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Store.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound
	}
	return user, nil
}

func (s *SessionService) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.Store.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound
	}
	return user, nil
}

func (s *SessionService) AllUsers(ctx context.Context) ([]models.User, error) {
	return s.Store.AllUsers(ctx)
}
