package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/service"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/util"
)

type AuthHandler struct {
	auth    *service.AuthService
	cookies CookieConfig
	log     logrus.FieldLogger
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService, cookies CookieConfig, limiter *RateLimiter, log logrus.FieldLogger) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &AuthHandler{auth: auth, cookies: cookies, log: log}

	home := e.Group("/home", limiter.Middleware())
	home.POST("/createaccount", h.register)
	home.POST("/login", h.login)

	e.GET("/api/user-status", h.userStatus, LoadSession(auth))
	e.POST("/api/logout", h.logout, LoadSession(auth))
	e.GET("/api/me", h.me, RequireAuth(auth))
}

func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("name, a valid email and password are required"))
	}

	result, err := h.auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyUsed):
			return c.JSON(http.StatusConflict, util.Error("Email already registered. Please login or use a different email."))
		case errors.Is(err, service.ErrPasswordTooWeak):
			return c.JSON(http.StatusBadRequest, util.Error("password must be at least 6 characters long"))
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, util.Error("name, a valid email and password are required"))
		default:
			h.log.WithError(err).Error("register account")
			return c.JSON(http.StatusInternalServerError, util.Error("Failed to create account due to a server error."))
		}
	}

	h.cookies.set(c, sessionCookieName, result.Token, result.ExpiresAt)
	return c.JSON(http.StatusCreated, toAuthResponse(result))
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Email and password are required for login."))
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, util.Error("Invalid email or password."))
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, util.Error("Email and password are required for login."))
		default:
			h.log.WithError(err).Error("login")
			return c.JSON(http.StatusInternalServerError, util.Error("Failed to process login due to a server error."))
		}
	}

	h.cookies.set(c, sessionCookieName, result.Token, result.ExpiresAt)
	return c.JSON(http.StatusOK, toAuthResponse(result))
}

func (h *AuthHandler) userStatus(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusOK, UserStatusResponse{LoggedIn: false})
	}
	return c.JSON(http.StatusOK, UserStatusResponse{LoggedIn: true, Name: user.Name})
}

func (h *AuthHandler) logout(c echo.Context) error {
	token, _ := c.Get(contextTokenKey).(string)
	if token == "" {
		token = sessionToken(c)
	}
	if err := h.auth.Logout(c.Request().Context(), token); err != nil {
		h.log.WithError(err).Error("logout")
		return c.JSON(http.StatusInternalServerError, util.Message("Failed to log out due to server error."))
	}
	h.cookies.clear(c, sessionCookieName)
	return c.JSON(http.StatusOK, util.Message("Logged out successfully!"))
}

func (h *AuthHandler) me(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	return c.JSON(http.StatusOK, util.Data("user", toAuthUser(user)))
}

func toAuthResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
		User:      toAuthUser(result.User),
	}
}
