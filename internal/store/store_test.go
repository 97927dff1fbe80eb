package store

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nstepanov/bookvault/internal/models"
)

func InitTestDB(t *testing.T) *GormStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.BlacklistToken{},
		&models.Book{},
		&models.UserFavorite{},
	)
	require.NoError(t, err, "failed to migrate tables")

	return New(db)
}

func seedUser(t *testing.T, s *GormStore, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "test", Email: email, PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func seedBook(t *testing.T, s *GormStore, title, author string) *models.Book {
	t.Helper()
	b := &models.Book{Title: title, Author: author}
	require.NoError(t, s.CreateBook(context.Background(), b))
	return b
}

func TestUserByEmail_AbsentIsNil(t *testing.T) {
	t.Parallel()

	s := InitTestDB(t)
	user, err := s.UserByEmail(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUpdateUserRole(t *testing.T) {
	t.Parallel()

	s := InitTestDB(t)
	ctx := context.Background()
	u := seedUser(t, s, "role@x.com")

	updated, err := s.UpdateUserRole(ctx, u.ID, models.RoleModerator)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.RoleModerator, updated.Role)

	missing, err := s.UpdateUserRole(ctx, 9999, models.RoleAdmin)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRefreshLedger(t *testing.T) {
	t.Parallel()

	s := InitTestDB(t)
	ctx := context.Background()
	u := seedUser(t, s, "ledger@x.com")

	require.NoError(t, s.SaveRefreshToken(ctx, u.ID, "token-1"))
	require.NoError(t, s.SaveRefreshToken(ctx, u.ID, "token-2"))
	require.NoError(t, s.SaveRefreshToken(ctx, u.ID, "token-3"))

	row, err := s.RefreshTokenByValue(ctx, "token-2")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, u.ID, row.UserID)

	absent, err := s.RefreshTokenByValue(ctx, "never-issued")
	require.NoError(t, err)
	assert.Nil(t, absent)

	deleted, err := s.DeleteRefreshToken(ctx, "token-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	deleted, err = s.DeleteRefreshToken(ctx, "token-1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, deleted, "second delete affects nothing")

	count, err := s.DeleteRefreshTokensByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count, "remaining device rows removed in bulk")
}

func TestBlacklist_InsertIsIdempotent(t *testing.T) {
	t.Parallel()

	s := InitTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.BlacklistToken(ctx, "revoked-token"))
	require.NoError(t, s.BlacklistToken(ctx, "revoked-token"))

	blacklisted, err := s.IsBlacklisted(ctx, "revoked-token")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	clean, err := s.IsBlacklisted(ctx, "other-token")
	require.NoError(t, err)
	assert.False(t, clean)

	var count int64
	require.NoError(t, s.DB.Model(&models.BlacklistToken{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteExpiredBlacklist(t *testing.T) {
	t.Parallel()

	s := InitTestDB(t)
	ctx := context.Background()

	old := models.BlacklistToken{Token: "old-token", CreatedAt: time.Now().Add(-2 * time.Hour)}
	require.NoError(t, s.DB.Create(&old).Error)
	require.NoError(t, s.BlacklistToken(ctx, "fresh-token"))

	removed, err := s.DeleteExpiredBlacklist(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	stillThere, err := s.IsBlacklisted(ctx, "fresh-token")
	require.NoError(t, err)
	assert.True(t, stillThere)
}

func TestListBooks_SearchAndPagination(t *testing.T) {
	t.Parallel()

	s := InitTestDB(t)
	ctx := context.Background()

	seedBook(t, s, "The Go Programming Language", "Donovan")
	seedBook(t, s, "Go in Action", "Kennedy")
	seedBook(t, s, "Clean Architecture", "Martin")

	page, err := s.ListBooks(ctx, ListBooksParams{Search: "go", Limit: 1, SortBy: "title", SortOrder: "ASC"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalElements)
	assert.EqualValues(t, 2, page.TotalPages)
	require.Len(t, page.Books, 1)
	assert.Equal(t, "Go in Action", page.Books[0].Title)
	assert.True(t, page.HasNextPage)
	assert.False(t, page.HasPrevPage)

	second, err := s.ListBooks(ctx, ListBooksParams{Search: "go", Page: 1, Limit: 1, SortBy: "title", SortOrder: "ASC"})
	require.NoError(t, err)
	require.Len(t, second.Books, 1)
	assert.Equal(t, "The Go Programming Language", second.Books[0].Title)
	assert.False(t, second.HasNextPage)
	assert.True(t, second.HasPrevPage)
}

func TestListBooks_FavoriteFlagPerUser(t *testing.T) {
	t.Parallel()

	s := InitTestDB(t)
	ctx := context.Background()

	u := seedUser(t, s, "fav@x.com")
	liked := seedBook(t, s, "Liked", "Author")
	seedBook(t, s, "Ignored", "Author")

	_, err := s.AddFavorite(ctx, u.ID, liked.ID)
	require.NoError(t, err)

	page, err := s.ListBooks(ctx, ListBooksParams{UserID: u.ID, SortBy: "title", SortOrder: "ASC"})
	require.NoError(t, err)
	require.Len(t, page.Books, 2)

	flags := map[string]bool{}
	for _, b := range page.Books {
		flags[b.Title] = b.IsFavorite
	}
	assert.True(t, flags["Liked"])
	assert.False(t, flags["Ignored"])

	anon, err := s.ListBooks(ctx, ListBooksParams{})
	require.NoError(t, err)
	for _, b := range anon.Books {
		assert.False(t, b.IsFavorite, "anonymous callers see no favorites")
	}
}

func TestBookByID_WithFavoriteFlag(t *testing.T) {
	t.Parallel()

	s := InitTestDB(t)
	ctx := context.Background()

	u := seedUser(t, s, "single@x.com")
	b := seedBook(t, s, "One", "Author")
	_, err := s.AddFavorite(ctx, u.ID, b.ID)
	require.NoError(t, err)

	got, err := s.BookByID(ctx, b.ID, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsFavorite)

	anon, err := s.BookByID(ctx, b.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, anon)
	assert.False(t, anon.IsFavorite)

	missing, err := s.BookByID(ctx, 9999, 0)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFavorites(t *testing.T) {
	t.Parallel()

	s := InitTestDB(t)
	ctx := context.Background()

	u := seedUser(t, s, "favs@x.com")
	b := seedBook(t, s, "Fav", "Author")

	fav, err := s.AddFavorite(ctx, u.ID, b.ID)
	require.NoError(t, err)
	require.NotNil(t, fav)

	dup, err := s.AddFavorite(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Nil(t, dup, "second add reports already-favorited")

	favorited, err := s.IsFavorited(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, favorited)

	list, err := s.FavoritesByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Fav", list[0].Title)

	removed, err := s.RemoveFavorite(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	removed, err = s.RemoveFavorite(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, removed)
}

func TestDeleteBookByID(t *testing.T) {
	t.Parallel()

	s := InitTestDB(t)
	ctx := context.Background()

	b := seedBook(t, s, "Doomed", "Author")

	deleted, err := s.DeleteBookByID(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	deleted, err = s.DeleteBookByID(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, deleted)
}
