package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nstepanov/bookvault/internal/models"
)

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return s.DB.WithContext(ctx).Create(u).Error
}

// UserByEmail returns nil, nil when no user exists with the email.
func (s *GormStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) AllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStore) UpdateUserRole(ctx context.Context, id uint, role string) (*models.User, error) {
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"role": role, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.UserByID(ctx, id)
}
