package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nstepanov/bookvault/internal/apperror"
	"github.com/nstepanov/bookvault/internal/events"
	"github.com/nstepanov/bookvault/internal/logging"
	"github.com/nstepanov/bookvault/internal/middleware"
	"github.com/nstepanov/bookvault/internal/service"
)

type AuthHandler struct {
	Sessions   *service.SessionService
	Producer   *events.Producer
	RefreshTTL time.Duration
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicUserEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return apperror.New(apperror.KindBadRequest, http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperror.New(apperror.KindBadRequest, http.StatusBadRequest, "name, email and password are required")
	}

	result, err := h.Sessions.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		l.Warn("register_failed", "error", err)
		return err
	}

	c.SetCookie(RefreshCookie(result.RefreshToken, h.RefreshTTL))

	h.publish(c, fmt.Sprint(result.User.ID), map[string]any{
		"type":    "user_registered",
		"user_id": result.User.ID,
		"email":   result.User.Email,
	})

	l.Info("register_success", "user_id", result.User.ID)
	return respond(c, http.StatusCreated, result)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return apperror.New(apperror.KindBadRequest, http.StatusBadRequest, "invalid body")
	}

	result, err := h.Sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		l.Warn("login_failed", "error", err)
		return err
	}

	c.SetCookie(RefreshCookie(result.RefreshToken, h.RefreshTTL))

	h.publish(c, fmt.Sprint(result.User.ID), map[string]any{
		"type":    "user_logged_in",
		"user_id": result.User.ID,
	})

	l.Info("login_success", "user_id", result.User.ID)
	return respond(c, http.StatusOK, result)
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return apperror.New(apperror.KindBadRequest, http.StatusBadRequest, "refresh token is missing")
	}

	accessToken, err := h.Sessions.RefreshAccess(c.Request().Context(), cookie.Value)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, echo.Map{"accessToken": accessToken})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	accessToken := middleware.AccessToken(c)
	cookie, err := c.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" || accessToken == "" {
		return apperror.New(apperror.KindBadRequest, http.StatusBadRequest, "refresh token and access token are required")
	}

	if err := h.Sessions.Logout(ctx, cookie.Value, accessToken); err != nil {
		// An unknown refresh token on logout is a client mistake, not
		// an auth failure.
		if errors.Is(err, apperror.ErrUnknownRefreshToken) {
			return apperror.ErrUnknownRefreshToken.WithStatus(http.StatusBadRequest)
		}
		return err
	}

	c.SetCookie(DeleteRefreshCookie())

	h.publish(c, fmt.Sprint(middleware.UserID(c)), map[string]any{
		"type":    "user_logged_out",
		"user_id": middleware.UserID(c),
	})

	l.Info("logout_success", "user_id", middleware.UserID(c))
	return respond(c, http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) LogoutAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout_all")

	userID := middleware.UserID(c)
	count, err := h.Sessions.LogoutAll(ctx, middleware.AccessToken(c), userID)
	if err != nil {
		return err
	}

	c.SetCookie(DeleteRefreshCookie())

	h.publish(c, fmt.Sprint(userID), map[string]any{
		"type":    "user_logged_out_all",
		"user_id": userID,
		"devices": count,
	})

	l.Info("logout_all_success", "user_id", userID, "devices", count)
	return respond(c, http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Logged out from %d devices", count),
	})
}
