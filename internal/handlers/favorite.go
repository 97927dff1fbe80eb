package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nstepanov/bookvault/internal/apperror"
	"github.com/nstepanov/bookvault/internal/middleware"
	"github.com/nstepanov/bookvault/internal/store"
)

type FavoriteHandler struct {
	Store *store.GormStore
}

func (h *FavoriteHandler) Add(c echo.Context) error {
	var req struct {
		BookID uint `json:"bookId"`
	}
	if err := c.Bind(&req); err != nil || req.BookID == 0 {
		return apperror.New(apperror.KindBadRequest, http.StatusBadRequest, "bookId is required")
	}

	ctx := c.Request().Context()
	book, err := h.Store.BookByID(ctx, req.BookID, 0)
	if err != nil {
		return err
	}
	if book == nil {
		return apperror.ErrBookNotFound
	}

	fav, err := h.Store.AddFavorite(ctx, middleware.UserID(c), req.BookID)
	if err != nil {
		return err
	}
	if fav == nil {
		return apperror.New(apperror.KindBadRequest, http.StatusBadRequest, "book already in favorites")
	}
	return respond(c, http.StatusCreated, fav)
}

func (h *FavoriteHandler) Remove(c echo.Context) error {
	bookID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	deleted, err := h.Store.RemoveFavorite(c.Request().Context(), middleware.UserID(c), bookID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperror.New(apperror.KindBadRequest, http.StatusBadRequest, "book not found in favorites")
	}
	return respond(c, http.StatusOK, echo.Map{"deletedCount": deleted})
}

func (h *FavoriteHandler) List(c echo.Context) error {
	favs, err := h.Store.FavoritesByUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, favs)
}

func (h *FavoriteHandler) Check(c echo.Context) error {
	bookID, err := pathID(c, "bookId")
	if err != nil {
		return err
	}
	favorited, err := h.Store.IsFavorited(c.Request().Context(), middleware.UserID(c), bookID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"isFavorited": favorited})
}
