package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/domain"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/repository/ports"
)

type ResetTokenRepository struct {
	db *sqlx.DB
}

func NewResetTokenRepo(db *sqlx.DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

// ReplaceActive relies on the partial unique index over unused tokens, so two
// concurrent calls for one email still leave a single unused row.
func (r *ResetTokenRepository) ReplaceActive(ctx context.Context, email, pin string, expiresAt time.Time) (*domain.ResetToken, error) {
	const query = `
        INSERT INTO password_reset_token (email, pin, expires_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (email) WHERE used = FALSE
        DO UPDATE SET pin = EXCLUDED.pin,
                      expires_at = EXCLUDED.expires_at,
                      created_at = NOW()
        RETURNING id, email, pin, expires_at, used, created_at
    `
	row := r.db.QueryRowxContext(ctx, query, email, pin, expiresAt)
	var token domain.ResetToken
	if err := row.StructScan(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *ResetTokenRepository) FindUnused(ctx context.Context, email, pin string) (*domain.ResetToken, error) {
	const query = `
        SELECT id, email, pin, expires_at, used, created_at
        FROM password_reset_token
        WHERE email = $1 AND pin = $2 AND used = FALSE
        LIMIT 1
    `
	var token domain.ResetToken
	if err := r.db.GetContext(ctx, &token, query, email, pin); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *ResetTokenRepository) FindByID(ctx context.Context, id int64) (*domain.ResetToken, error) {
	const query = `
        SELECT id, email, pin, expires_at, used, created_at
        FROM password_reset_token
        WHERE id = $1
    `
	var token domain.ResetToken
	if err := r.db.GetContext(ctx, &token, query, id); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *ResetTokenRepository) MarkUsed(ctx context.Context, id int64) error {
	const query = `
        UPDATE password_reset_token
        SET used = TRUE
        WHERE id = $1 AND used = FALSE
    `
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ResetTokenRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_token WHERE id = $1`, id)
	return err
}

func (r *ResetTokenRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_token WHERE email = $1`, email)
	return err
}

func (r *ResetTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_token WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

var _ ports.ResetTokenRepository = (*ResetTokenRepository)(nil)
