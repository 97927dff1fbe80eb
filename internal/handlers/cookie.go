package handlers

import (
	"net/http"
	"time"
)

const RefreshCookieName = "refreshToken"

// RefreshCookie carries the refresh token to the browser: HTTP-only so
// scripts cannot read it, Strict same-site so it never rides along on
// cross-site requests.
func RefreshCookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

func DeleteRefreshCookie() *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}
