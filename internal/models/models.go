package models

import (
	"time"
)

const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// ValidRole reports whether role is one of the roles the API accepts.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin || role == RoleModerator
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	IsPremium    bool      `gorm:"default:false"            json:"is_premium"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshToken is one logged-in device. The row existing is what makes
// the token exchangeable for new access tokens.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	UserID    uint      `gorm:"index;not null"  json:"user_id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// BlacklistToken is an access token revoked before its natural expiry.
type BlacklistToken struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

type Book struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null;index"           json:"title"`
	Author      string    `gorm:"not null;index"           json:"author"`
	Description string    `json:"description"`
	FileURL     string    `gorm:"index"                    json:"file_url"`
	CoverURL    string    `json:"cover_url"`
	Tags        string    `json:"tags"`
	IsPremium   bool      `gorm:"default:false"            json:"is_premium"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UserFavorite struct {
	ID        uint      `gorm:"primaryKey"                         json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_book" json:"user_id"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_user_book" json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
}
