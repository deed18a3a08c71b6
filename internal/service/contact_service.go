package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/domain"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/repository/ports"
)

var (
	contactPreferences = map[string]struct{}{
		domain.ContactPreferenceCall:  {},
		domain.ContactPreferenceEmail: {},
	}
	requirementTypes = map[string]struct{}{
		domain.RequirementSupervision: {},
		domain.RequirementFlat:        {},
		domain.RequirementRenovated:   {},
	}
)

type ContactInput struct {
	Name              string
	Email             string
	Phone             string
	Address           string
	ContactPreference string
	RequirementType   string
	DetailsChecked    bool
}

type ContactService struct {
	contacts ports.ContactRepository
	log      logrus.FieldLogger
}

func NewContactService(contacts ports.ContactRepository, log logrus.FieldLogger) *ContactService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ContactService{contacts: contacts, log: log}
}

// Submit records a contact request. One request is accepted per email.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*domain.ContactSubmission, error) {
	submission := domain.ContactSubmission{
		Name:              strings.TrimSpace(in.Name),
		Email:             normalizeEmail(in.Email),
		Phone:             strings.TrimSpace(in.Phone),
		Address:           strings.TrimSpace(in.Address),
		ContactPreference: strings.TrimSpace(in.ContactPreference),
		RequirementType:   strings.TrimSpace(in.RequirementType),
		DetailsChecked:    in.DetailsChecked,
	}
	if submission.Name == "" || submission.Email == "" || submission.Phone == "" || submission.Address == "" {
		return nil, fmt.Errorf("%w: name, email, phone and address are required", ErrValidation)
	}
	if _, ok := contactPreferences[submission.ContactPreference]; !ok {
		return nil, fmt.Errorf("%w: unknown contact preference %q", ErrValidation, submission.ContactPreference)
	}
	if _, ok := requirementTypes[submission.RequirementType]; !ok {
		return nil, fmt.Errorf("%w: unknown requirement type %q", ErrValidation, submission.RequirementType)
	}

	saved, err := s.contacts.Create(ctx, submission)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrContactAlreadySubmitted
		}
		return nil, fmt.Errorf("store contact request: %w", err)
	}
	s.log.WithFields(logrus.Fields{"email": saved.Email, "requirement": saved.RequirementType}).Info("contact request received")
	return saved, nil
}
