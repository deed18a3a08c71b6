package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/domain"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/repository/ports"
)

type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepo(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, s domain.ContactSubmission) (*domain.ContactSubmission, error) {
	const query = `
        INSERT INTO contact_submission (name, email, phone, address, contact_preference, requirement_type, details_checked)
        VALUES (:name, :email, :phone, :address, :contact_preference, :requirement_type, :details_checked)
        RETURNING id, name, email, phone, address, contact_preference, requirement_type, details_checked, submitted_at
    `
	rows, err := r.db.NamedQueryContext(ctx, query, s)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saved domain.ContactSubmission
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	if err := rows.StructScan(&saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

var _ ports.ContactRepository = (*ContactRepository)(nil)
