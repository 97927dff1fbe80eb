package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/nstepanov/bookvault/internal/models"
)

// BookWithFavorite is a book plus the per-caller favorite flag.
type BookWithFavorite struct {
	models.Book
	IsFavorite bool `json:"is_favorite"`
}

// BookPage carries one page of the catalog with pagination metadata.
type BookPage struct {
	Books         []BookWithFavorite `json:"books"`
	TotalElements int64              `json:"totalElements"`
	PageNum       int                `json:"pageNum"`
	PageSize      int                `json:"pageSize"`
	TotalPages    int64              `json:"totalPages"`
	HasNextPage   bool               `json:"hasNextPage"`
	HasPrevPage   bool               `json:"hasPrevPage"`
}

type ListBooksParams struct {
	Search    string
	Page      int // zero-based
	Limit     int
	SortBy    string
	SortOrder string
	UserID    uint // 0 for anonymous callers
}

func (s *GormStore) CreateBook(ctx context.Context, b *models.Book) error {
	return s.DB.WithContext(ctx).Create(b).Error
}

// BookByFileURL returns nil, nil when no book carries the URL. Guards
// against duplicate uploads.
func (s *GormStore) BookByFileURL(ctx context.Context, fileURL string) (*models.Book, error) {
	var book models.Book
	if err := s.DB.WithContext(ctx).Where("file_url = ?", fileURL).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &book, nil
}

func (s *GormStore) BookByID(ctx context.Context, id, userID uint) (*BookWithFavorite, error) {
	var book BookWithFavorite
	err := s.DB.WithContext(ctx).Model(&models.Book{}).
		Select("books.*, uf.book_id IS NOT NULL AS is_favorite").
		Joins("LEFT JOIN user_favorites uf ON books.id = uf.book_id AND uf.user_id = ?", userID).
		Where("books.id = ?", id).
		First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &book, nil
}

func (s *GormStore) ListBooks(ctx context.Context, p ListBooksParams) (*BookPage, error) {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 10
	}

	sortBy := p.SortBy
	if sortBy != "created_at" && sortBy != "title" {
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(p.SortOrder, "ASC") {
		order = "ASC"
	}

	keyword := "%" + strings.ToLower(p.Search) + "%"
	match := s.DB.WithContext(ctx).Model(&models.Book{}).
		Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ?", keyword, keyword)

	var total int64
	if err := match.Count(&total).Error; err != nil {
		return nil, err
	}

	var books []BookWithFavorite
	err := s.DB.WithContext(ctx).Model(&models.Book{}).
		Select("books.*, uf.book_id IS NOT NULL AS is_favorite").
		Joins("LEFT JOIN user_favorites uf ON books.id = uf.book_id AND uf.user_id = ?", p.UserID).
		Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ?", keyword, keyword).
		Order(sortBy + " " + order).
		Limit(p.Limit).
		Offset(p.Page * p.Limit).
		Find(&books).Error
	if err != nil {
		return nil, err
	}

	totalPages := (total + int64(p.Limit) - 1) / int64(p.Limit)
	return &BookPage{
		Books:         books,
		TotalElements: total,
		PageNum:       p.Page,
		PageSize:      p.Limit,
		TotalPages:    totalPages,
		HasNextPage:   int64(p.Page) < totalPages-1,
		HasPrevPage:   p.Page > 0,
	}, nil
}

func (s *GormStore) DeleteBookByID(ctx context.Context, id uint) (int64, error) {
	res := s.DB.WithContext(ctx).Delete(&models.Book{}, id)
	return res.RowsAffected, res.Error
}
