package store

import (
	"context"
	"time"

	"github.com/nstepanov/bookvault/internal/models"
)

// FavoriteBook is a favorited book joined with when it was added.
type FavoriteBook struct {
	models.Book
	FavoritedAt time.Time `json:"favorited_at"`
}

func (s *GormStore) IsFavorited(ctx context.Context, userID, bookID uint) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.UserFavorite{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddFavorite returns nil, nil when the book is already favorited.
func (s *GormStore) AddFavorite(ctx context.Context, userID, bookID uint) (*models.UserFavorite, error) {
	favorited, err := s.IsFavorited(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if favorited {
		return nil, nil
	}
	fav := models.UserFavorite{UserID: userID, BookID: bookID}
	if err := s.DB.WithContext(ctx).Create(&fav).Error; err != nil {
		return nil, err
	}
	return &fav, nil
}

func (s *GormStore) RemoveFavorite(ctx context.Context, userID, bookID uint) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.UserFavorite{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) FavoritesByUser(ctx context.Context, userID uint) ([]FavoriteBook, error) {
	var favs []FavoriteBook
	err := s.DB.WithContext(ctx).Model(&models.Book{}).
		Select("books.*, uf.created_at AS favorited_at").
		Joins("JOIN user_favorites uf ON books.id = uf.book_id").
		Where("uf.user_id = ?", userID).
		Order("uf.created_at DESC").
		Find(&favs).Error
	if err != nil {
		return nil, err
	}
	return favs, nil
}
