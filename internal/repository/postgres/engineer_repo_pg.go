package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/domain"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/repository/ports"
)

type EngineerRepository struct {
	db *sqlx.DB
}

func NewEngineerRepo(db *sqlx.DB) *EngineerRepository {
	return &EngineerRepository{db: db}
}

type engineerRow struct {
	EngineerID        string         `db:"engineer_id"`
	Name              string         `db:"name"`
	ProfilePictureURL string         `db:"profile_picture_url"`
	Specialization    string         `db:"specialization"`
	Experience        sql.NullInt32  `db:"experience"`
	Location          string         `db:"location"`
	ContactPhone      string         `db:"contact_phone"`
	ContactEmail      string         `db:"contact_email"`
	Bio               string         `db:"bio"`
	Description       string         `db:"description"`
	Qualifications    []byte         `db:"qualifications"`
	ProjectHighlights pq.StringArray `db:"project_highlights"`
	Videos            pq.StringArray `db:"videos"`
	ServicesOffered   []byte         `db:"services_offered"`
}

func (r *EngineerRepository) FindByEngineerID(ctx context.Context, engineerID string) (*domain.EngineerProfile, error) {
	const query = `
        SELECT engineer_id, name, profile_picture_url, specialization, experience, location,
               contact_phone, contact_email, bio, description, qualifications,
               project_highlights, videos, services_offered
        FROM engineer_profile
        WHERE engineer_id = $1
    `
	var row engineerRow
	if err := r.db.GetContext(ctx, &row, query, engineerID); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (row engineerRow) toDomain() (*domain.EngineerProfile, error) {
	profile := &domain.EngineerProfile{
		EngineerID:        row.EngineerID,
		Name:              row.Name,
		ProfilePictureURL: row.ProfilePictureURL,
		Specialization:    row.Specialization,
		Location:          row.Location,
		Contact:           domain.EngineerContact{Phone: row.ContactPhone, Email: row.ContactEmail},
		Bio:               row.Bio,
		Description:       row.Description,
		ProjectHighlights: []string(row.ProjectHighlights),
		Videos:            []string(row.Videos),
	}
	if row.Experience.Valid {
		years := int(row.Experience.Int32)
		profile.Experience = &years
	}
	if len(row.Qualifications) > 0 {
		if err := json.Unmarshal(row.Qualifications, &profile.Qualifications); err != nil {
			return nil, fmt.Errorf("decode qualifications for %s: %w", row.EngineerID, err)
		}
	}
	if len(row.ServicesOffered) > 0 {
		if err := json.Unmarshal(row.ServicesOffered, &profile.ServicesOffered); err != nil {
			return nil, fmt.Errorf("decode services for %s: %w", row.EngineerID, err)
		}
	}
	return profile, nil
}

var _ ports.EngineerRepository = (*EngineerRepository)(nil)
