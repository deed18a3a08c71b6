package ports

import (
	"context"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/domain"
)

type ContactRepository interface {
	Create(ctx context.Context, submission domain.ContactSubmission) (*domain.ContactSubmission, error)
}
