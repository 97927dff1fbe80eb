package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nstepanov/bookvault/internal/apperror"
	"github.com/nstepanov/bookvault/internal/service"
)

type UserHandler struct {
	Sessions *service.SessionService
}

func (h *UserHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.Sessions.UserByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

func (h *UserHandler) GetByEmail(c echo.Context) error {
	email := c.Param("email")
	user, err := h.Sessions.UserByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.Sessions.AllUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users)
}

func (h *UserHandler) UpdateRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return apperror.New(apperror.KindBadRequest, http.StatusBadRequest, "invalid body")
	}

	user, err := h.Sessions.UpdateRole(c.Request().Context(), id, req.Role)
	if err != nil {
		// Role updates report a missing user as a bad request, not 404.
		if errors.Is(err, apperror.ErrUserNotFound) {
			return apperror.ErrUserNotFound.WithStatus(http.StatusBadRequest)
		}
		return err
	}
	return respond(c, http.StatusOK, user)
}
