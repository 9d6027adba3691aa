package postgres

import (
	"context"

	"github.com/lib/pq"

	"go-jobboard-backend/internal/domain"
)

type profileRepo struct {
	db Querier
}

// NewProfileRepository creates a candidate profile repository
func NewProfileRepository(db Querier) domain.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, profile *domain.CandidateProfile) error {
	query := `
		INSERT INTO candidate_profiles
			(id, user_id, headline, bio, skills, years_experience, location,
			 resume_url, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.UserID, profile.Headline, profile.Bio,
		pq.Array(profile.Skills), profile.YearsExperience, profile.Location,
		profile.ResumeURL, profile.AvatarURL, profile.CreatedAt, profile.UpdatedAt,
	)
	return mapError(err)
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*domain.CandidateProfile, error) {
	query := `
		SELECT id, user_id, headline, bio, skills, years_experience, location,
		       resume_url, avatar_url, created_at, updated_at
		FROM candidate_profiles WHERE user_id = $1`

	var p domain.CandidateProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Headline, &p.Bio,
		pq.Array(&p.Skills), &p.YearsExperience, &p.Location,
		&p.ResumeURL, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *profileRepo) Update(ctx context.Context, profile *domain.CandidateProfile) error {
	query := `
		UPDATE candidate_profiles
		SET headline = $2, bio = $3, skills = $4, years_experience = $5,
		    location = $6, resume_url = $7, avatar_url = $8, updated_at = $9
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		profile.ID, profile.Headline, profile.Bio, pq.Array(profile.Skills),
		profile.YearsExperience, profile.Location, profile.ResumeURL,
		profile.AvatarURL, profile.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
