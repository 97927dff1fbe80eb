package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/nstepanov/bookvault/internal/apperror"
	"github.com/nstepanov/bookvault/internal/events"
	"github.com/nstepanov/bookvault/internal/logging"
	"github.com/nstepanov/bookvault/internal/middleware"
	"github.com/nstepanov/bookvault/internal/models"
	"github.com/nstepanov/bookvault/internal/service/search"
	"github.com/nstepanov/bookvault/internal/store"
)

type BookHandler struct {
	Store    *store.GormStore
	ES       *elasticsearch.Client
	ESIndex  string
	Producer *events.Producer
}

func (h *BookHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicBookEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *BookHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book_upload")

	var req struct {
		Title       string `json:"title"`
		Author      string `json:"author"`
		Description string `json:"description"`
		FileURL     string `json:"fileUrl"`
		CoverURL    string `json:"coverUrl"`
		Tags        string `json:"tags"`
		IsPremium   bool   `json:"isPremium"`
	}
	if err := c.Bind(&req); err != nil {
		return apperror.New(apperror.KindBadRequest, http.StatusBadRequest, "invalid body")
	}
	if req.Title == "" || req.Author == "" {
		return apperror.New(apperror.KindBadRequest, http.StatusBadRequest, "title and author are required")
	}

	if req.FileURL != "" {
		existing, err := h.Store.BookByFileURL(ctx, req.FileURL)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.New(apperror.KindBadRequest, http.StatusBadRequest, "book with this file already exists")
		}
	}

	book := models.Book{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		FileURL:     req.FileURL,
		CoverURL:    req.CoverURL,
		Tags:        req.Tags,
		IsPremium:   req.IsPremium,
	}
	if err := h.Store.CreateBook(ctx, &book); err != nil {
		return err
	}

	if h.ES != nil {
		if err := search.IndexBook(ctx, h.ES, h.ESIndex, &book); err != nil {
			l.Error("es index failed", "book_id", book.ID, "error", err)
		}
	}

	h.publish(c, fmt.Sprint(book.ID), map[string]any{
		"type":    "book_created",
		"book_id": book.ID,
		"title":   book.Title,
	})

	l.Info("book_created", "book_id", book.ID)
	return respond(c, http.StatusCreated, book)
}

func (h *BookHandler) List(c echo.Context) error {
	page, err := h.Store.ListBooks(c.Request().Context(), store.ListBooksParams{
		Search:    c.QueryParam("search"),
		Page:      parseIntDefault(c.QueryParam("page"), 0),
		Limit:     parseIntDefault(c.QueryParam("limit"), 10),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
		UserID:    middleware.UserID(c),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, page)
}

func (h *BookHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	book, err := h.Store.BookByID(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		return err
	}
	if book == nil {
		return apperror.ErrBookNotFound
	}
	return respond(c, http.StatusOK, book)
}

func (h *BookHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book_delete")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	deleted, err := h.Store.DeleteBookByID(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperror.ErrBookNotFound
	}

	if h.ES != nil {
		if err := search.DeleteBook(ctx, h.ES, h.ESIndex, id); err != nil {
			l.Error("es delete failed", "book_id", id, "error", err)
		}
	}

	h.publish(c, fmt.Sprint(id), map[string]any{
		"type":    "book_deleted",
		"book_id": id,
	})

	l.Info("book_deleted", "book_id", id)
	return respond(c, http.StatusOK, echo.Map{"message": "Book deleted"})
}
