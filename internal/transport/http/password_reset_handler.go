package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/service"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/util"
)

const (
	msgResetRequested   = "If an account with that email exists, a verification PIN has been sent."
	msgResetResent      = "If an account with that email exists, a new verification PIN has been sent."
	msgEmailRequired    = "Email is required."
	msgPINFieldsMissing = "Email and PIN are required."
	msgInvalidPIN       = "Invalid or expired PIN."
	msgPINVerified      = "PIN verified successfully!"
	msgResetForbidden   = "Unauthorized: Please go through the PIN verification process first."
	msgPasswordRequired = "New password is required."
	msgPasswordUpdated  = "Password updated successfully! You can now log in with your new password."
)

type PasswordResetHandler struct {
	resets  *service.PasswordResetService
	jwt     *util.JWTManager
	cookies CookieConfig
	log     logrus.FieldLogger
}

// RegisterPasswordReset mounts the forgot-password flow under both
// /forgot-password and /api/forgot-password. limiter may be nil.
func RegisterPasswordReset(e *echo.Echo, resets *service.PasswordResetService, jwtManager *util.JWTManager, cookies CookieConfig, limiter *RateLimiter, log logrus.FieldLogger) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &PasswordResetHandler{resets: resets, jwt: jwtManager, cookies: cookies, log: log}

	for _, prefix := range []string{"/forgot-password", "/api/forgot-password"} {
		g := e.Group(prefix, limiter.Middleware())
		g.POST("/send-email", h.sendEmail)
		g.POST("/verify-pin", h.verifyPIN)
		g.POST("/resend-pin", h.resendPIN)
		g.POST("/set-new-password", h.setNewPassword)
	}
}

func (h *PasswordResetHandler) sendEmail(c echo.Context) error {
	return h.issue(c, false)
}

func (h *PasswordResetHandler) resendPIN(c echo.Context) error {
	return h.issue(c, true)
}

func (h *PasswordResetHandler) issue(c echo.Context, resent bool) error {
	var req ResetEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Message(msgEmailRequired))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Message(msgEmailRequired))
	}

	ctx := c.Request().Context()
	var err error
	if resent {
		err = h.resets.Resend(ctx, req.Email)
	} else {
		err = h.resets.Issue(ctx, req.Email)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, util.Message(msgEmailRequired))
		case errors.Is(err, service.ErrMailDelivery):
			if resent {
				return c.JSON(http.StatusInternalServerError, util.Message("Failed to resend verification email. Please try again later."))
			}
			return c.JSON(http.StatusInternalServerError, util.Message("Failed to send verification email. Please try again later."))
		default:
			h.log.WithError(err).Error("issue password reset pin")
			return c.JSON(http.StatusInternalServerError, util.Message("Something went wrong. Please try again later."))
		}
	}

	if resent {
		return c.JSON(http.StatusOK, util.Message(msgResetResent))
	}
	return c.JSON(http.StatusOK, util.Message(msgResetRequested))
}

func (h *PasswordResetHandler) verifyPIN(c echo.Context) error {
	var req VerifyPINRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Message(msgPINFieldsMissing))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Message(msgPINFieldsMissing))
	}

	verified, err := h.resets.Verify(c.Request().Context(), req.Email, req.PIN)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, util.Message(msgPINFieldsMissing))
		case errors.Is(err, service.ErrInvalidOrExpiredPIN):
			return c.JSON(http.StatusBadRequest, util.Message(msgInvalidPIN))
		default:
			h.log.WithError(err).Error("verify password reset pin")
			return c.JSON(http.StatusInternalServerError, util.Message("Failed to verify PIN. Please try again later."))
		}
	}

	ticket, expiresAt, err := h.jwt.GenerateResetTicket(verified.Email, verified.TokenID, h.resets.TTL())
	if err != nil {
		h.log.WithError(err).Error("sign reset ticket")
		return c.JSON(http.StatusInternalServerError, util.Message("Failed to verify PIN. Please try again later."))
	}
	h.cookies.set(c, resetCookieName, ticket, expiresAt)
	return c.JSON(http.StatusOK, util.Message(msgPINVerified))
}

func (h *PasswordResetHandler) setNewPassword(c echo.Context) error {
	var req SetNewPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Message(msgPasswordRequired))
	}

	err := h.resets.CompleteReset(c.Request().Context(), req.Email, req.NewPassword, h.verifiedReset(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResetUnauthorized):
			return c.JSON(http.StatusForbidden, util.Message(msgResetForbidden))
		case errors.Is(err, service.ErrPasswordTooWeak):
			return c.JSON(http.StatusBadRequest, util.Message("Password must be at least 6 characters long."))
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, util.Message(msgPasswordRequired))
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, util.Message("User not found."))
		default:
			h.log.WithError(err).Error("complete password reset")
			return c.JSON(http.StatusInternalServerError, util.Message("Failed to set new password. Please try again later."))
		}
	}

	h.cookies.clear(c, resetCookieName)
	h.cookies.clear(c, sessionCookieName)
	return c.JSON(http.StatusOK, util.Message(msgPasswordUpdated))
}

// verifiedReset reads the signed ticket set by verifyPIN. A missing or
// tampered cookie yields nil.
func (h *PasswordResetHandler) verifiedReset(c echo.Context) *service.VerifiedReset {
	raw := readCookie(c, resetCookieName)
	if raw == "" {
		return nil
	}
	claims, err := h.jwt.ParseResetTicket(raw)
	if err != nil {
		return nil
	}
	return &service.VerifiedReset{Email: claims.Email, TokenID: claims.TokenID}
}
