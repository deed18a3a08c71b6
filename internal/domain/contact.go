package domain

import "time"

const (
	ContactPreferenceCall  = "Call me"
	ContactPreferenceEmail = "Email me"
)

const (
	RequirementSupervision = "Supervision and Management"
	RequirementFlat        = "Flat/Bungalow in HR Society"
	RequirementRenovated   = "Renovated Bungalow/Flat (HR)"
)

type ContactSubmission struct {
	ID                int64     `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Email             string    `db:"email" json:"email"`
	Phone             string    `db:"phone" json:"phone"`
	Address           string    `db:"address" json:"address"`
	ContactPreference string    `db:"contact_preference" json:"contactPreference"`
	RequirementType   string    `db:"requirement_type" json:"requirementType"`
	DetailsChecked    bool      `db:"details_checked" json:"detailsChecked"`
	SubmittedAt       time.Time `db:"submitted_at" json:"submittedAt"`
}
