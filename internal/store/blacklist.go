package store

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/nstepanov/bookvault/internal/models"
)

// BlacklistToken inserts the token into the deny-list. The insert is
// idempotent: a duplicate conflicts on the unique token index and is
// ignored.
func (s *GormStore) BlacklistToken(ctx context.Context, token string) error {
	row := models.BlacklistToken{Token: token}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token"}}, DoNothing: true}).
		Create(&row).Error
}

func (s *GormStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.BlacklistToken{}).
		Where("token = ?", token).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteExpiredBlacklist prunes rows created before the cutoff. Rows
// that old back tokens whose own TTL has passed, so the deny-list entry
// no longer protects anything.
func (s *GormStore) DeleteExpiredBlacklist(ctx context.Context, before time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&models.BlacklistToken{})
	return res.RowsAffected, res.Error
}
