package http

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/domain"
)

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid credentials"`
}

// MessageResponse is the payload used by the password reset endpoints.
type MessageResponse struct {
	Message string `json:"message" example:"Invalid or expired PIN."`
}

// AuthUser models the sanitized user representation returned by auth endpoints.
type AuthUser struct {
	ID        string    `json:"id" example:"9fd13fd2-63c5-4f29-a210-4a1a8e285f74"`
	Name      string    `json:"name" example:"Asha Patil"`
	Email     string    `json:"email" example:"user@example.com"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-01T12:00:00Z"`
}

// AuthResponse is returned by endpoints that open a session.
type AuthResponse struct {
	ExpiresAt string   `json:"expires_at" example:"2024-01-02T09:30:00Z"`
	User      AuthUser `json:"user"`
}

// UserStatusResponse reports whether the caller holds a live session.
type UserStatusResponse struct {
	LoggedIn bool   `json:"loggedIn" example:"true"`
	Name     string `json:"name,omitempty" example:"Asha Patil"`
}

// RegisterRequest carries account creation fields.
type RegisterRequest struct {
	Name     string `json:"name" form:"name" validate:"required" example:"Asha Patil"`
	Email    string `json:"email" form:"email" validate:"required,email" example:"user@example.com"`
	Password string `json:"password" form:"password" validate:"required" example:"secret12"`
}

// LoginRequest carries email login fields.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required" example:"user@example.com"`
	Password string `json:"password" form:"password" validate:"required" example:"secret12"`
}

// ResetEmailRequest starts or restarts a password reset.
type ResetEmailRequest struct {
	Email string `json:"email" form:"email" validate:"required" example:"user@example.com"`
}

// VerifyPINRequest checks a mailed PIN.
type VerifyPINRequest struct {
	Email string `json:"email" form:"email" validate:"required" example:"user@example.com"`
	PIN   string `json:"pin" form:"pin" validate:"required" example:"AB12CD"`
}

// SetNewPasswordRequest finishes a verified reset.
type SetNewPasswordRequest struct {
	Email       string `json:"email" form:"email" example:"user@example.com"`
	NewPassword string `json:"newPassword" form:"newPassword" example:"newpass1"`
}

// ContactRequest is the contact-us form.
type ContactRequest struct {
	Name              string   `json:"name" form:"name" validate:"required" example:"Vikram Shah"`
	Email             string   `json:"email" form:"email" validate:"required,email" example:"vikram@example.com"`
	Phone             string   `json:"phone" form:"phone" validate:"required" example:"9876543210"`
	Address           string   `json:"address" form:"address" validate:"required" example:"12 Hill Road, Pune"`
	ContactPreference string   `json:"contactPreference" form:"contactPreference" validate:"required" example:"Call me"`
	RequirementType   string   `json:"requirementType" form:"requirementType" validate:"required" example:"Supervision and Management"`
	DetailsChecked    checkbox `json:"detailsChecked" form:"detailsChecked" example:"true"`
}

// ContactResponse echoes the stored submission.
type ContactResponse struct {
	Message    string                   `json:"message" example:"Thank you, we will contact you shortly."`
	Submission domain.ContactSubmission `json:"submission"`
}

// checkbox accepts JSON booleans as well as HTML form values such as "on".
type checkbox bool

func (b *checkbox) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = checkbox(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return b.UnmarshalParam(s)
}

func (b *checkbox) UnmarshalParam(param string) error {
	switch strings.ToLower(strings.TrimSpace(param)) {
	case "on", "yes", "checked":
		*b = true
		return nil
	case "", "off", "no":
		*b = false
		return nil
	}
	v, err := strconv.ParseBool(param)
	if err != nil {
		return err
	}
	*b = checkbox(v)
	return nil
}

func toAuthUser(u *domain.User) AuthUser {
	if u == nil {
		return AuthUser{}
	}
	return AuthUser{ID: u.ID.String(), Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}
