package ports

import (
	"context"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/domain"
)

type EngineerRepository interface {
	FindByEngineerID(ctx context.Context, engineerID string) (*domain.EngineerProfile, error)
}
