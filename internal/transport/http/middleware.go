package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/domain"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/service"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/util"
)

const (
	contextUserKey  = "auth.user"
	contextTokenKey = "auth.token"
)

// sessionToken reads the session from the cookie, falling back to a bearer
// Authorization header.
func sessionToken(c echo.Context) string {
	if token := readCookie(c, sessionCookieName); token != "" {
		return token
	}
	authHeader := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// LoadSession attaches the logged in user to the context when a valid
// session is presented. Requests without one pass through untouched.
func LoadSession(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := sessionToken(c)
			if token == "" {
				return next(c)
			}
			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				if !errors.Is(err, service.ErrSessionNotFound) {
					c.Logger().Errorf("load session: %v", err)
				}
				return next(c)
			}
			c.Set(contextUserKey, user)
			c.Set(contextTokenKey, token)
			return next(c)
		}
	}
}

func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, ok := CurrentUser(c); ok && user != nil {
				return next(c)
			}
			token := sessionToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
			}
			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrSessionNotFound) {
					return c.JSON(http.StatusUnauthorized, util.Error("session expired or invalid"))
				}
				return c.JSON(http.StatusInternalServerError, util.Error("unable to verify session"))
			}
			c.Set(contextUserKey, user)
			c.Set(contextTokenKey, token)
			return next(c)
		}
	}
}

func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(contextUserKey).(*domain.User)
	return user, ok
}
