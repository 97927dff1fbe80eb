package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nstepanov/bookvault/internal/models"
)

// SaveRefreshToken adds one ledger row: one row per logged-in device.
func (s *GormStore) SaveRefreshToken(ctx context.Context, userID uint, token string) error {
	row := models.RefreshToken{
		UserID: userID,
		Token:  token,
	}
	return s.DB.WithContext(ctx).Create(&row).Error
}

// RefreshTokenByValue returns nil, nil when the token is not in the ledger.
func (s *GormStore) RefreshTokenByValue(ctx context.Context, token string) (*models.RefreshToken, error) {
	var row models.RefreshToken
	if err := s.DB.WithContext(ctx).Where("token = ?", token).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// DeleteRefreshToken removes one device's token and reports how many
// rows went away (0 or 1).
func (s *GormStore) DeleteRefreshToken(ctx context.Context, token string) (int64, error) {
	res := s.DB.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}

// DeleteRefreshTokensByUser logs the user out everywhere and returns the
// number of devices that were logged in.
func (s *GormStore) DeleteRefreshTokensByUser(ctx context.Context, userID uint) (int64, error) {
	res := s.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
