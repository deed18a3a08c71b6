package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	sessionCookieName = "hanuram_session"
	resetCookieName   = "hanuram_reset"
)

// CookieConfig controls the attributes shared by every cookie the API sets.
type CookieConfig struct {
	Secure bool
}

func (cfg CookieConfig) set(c echo.Context, name, value string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (cfg CookieConfig) clear(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func readCookie(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}
