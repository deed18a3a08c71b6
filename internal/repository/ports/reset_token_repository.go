package ports

import (
	"context"
	"time"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/domain"
)

// ResetTokenRepository stores password reset PINs. Lookups that match nothing
// return sql.ErrNoRows.
type ResetTokenRepository interface {
	// ReplaceActive stores a new unused token for email, discarding any other
	// unused token for the same email in the same statement.
	ReplaceActive(ctx context.Context, email, pin string, expiresAt time.Time) (*domain.ResetToken, error)
	FindUnused(ctx context.Context, email, pin string) (*domain.ResetToken, error)
	FindByID(ctx context.Context, id int64) (*domain.ResetToken, error)
	// MarkUsed flips used to true only if it is still false.
	MarkUsed(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	DeleteByEmail(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
