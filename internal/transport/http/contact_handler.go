package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/service"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/util"
)

type ContactHandler struct {
	contacts *service.ContactService
	log      logrus.FieldLogger
}

func RegisterContact(e *echo.Echo, contacts *service.ContactService, limiter *RateLimiter, log logrus.FieldLogger) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &ContactHandler{contacts: contacts, log: log}
	e.POST("/home/contactus", h.submit, limiter.Middleware())
}

func (h *ContactHandler) submit(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Validation failed: "+describeValidation(err)))
	}

	saved, err := h.contacts.Submit(c.Request().Context(), service.ContactInput{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Address:           req.Address,
		ContactPreference: req.ContactPreference,
		RequirementType:   req.RequirementType,
		DetailsChecked:    bool(req.DetailsChecked),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContactAlreadySubmitted):
			return c.JSON(http.StatusConflict, util.Error("Email already registered for contact. Please use a different email or login."))
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		default:
			h.log.WithError(err).Error("submit contact form")
			return c.JSON(http.StatusInternalServerError, util.Error("Failed to submit contact form due to a server error. Please try again."))
		}
	}

	return c.JSON(http.StatusOK, ContactResponse{
		Message:    "Your message has been sent successfully!",
		Submission: *saved,
	})
}

// describeValidation lists the fields that failed their struct tags.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" is "+fe.Tag())
	}
	return strings.Join(fields, ", ")
}
