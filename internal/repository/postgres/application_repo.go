package postgres

import (
	"context"
	"fmt"
	"strings"

	"go-jobboard-backend/internal/domain"
)

type applicationRepo struct {
	db Querier
}

// NewApplicationRepository creates a job application repository
func NewApplicationRepository(db Querier) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts a new application. The unique index on
// (job_id, candidate_id) surfaces duplicates as domain.ErrDuplicate.
func (r *applicationRepo) Create(ctx context.Context, app *domain.JobApplication) error {
	query := `
		INSERT INTO applications (id, job_id, candidate_id, cover_letter, status, applied_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		app.ID, app.JobID, app.CandidateID, app.CoverLetter, app.Status,
		app.AppliedAt, app.UpdatedAt,
	)
	return mapError(err)
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.JobApplication, error) {
	query := `
		SELECT
			a.id, a.job_id, a.candidate_id, a.cover_letter, a.rejection_reason,
			a.status, a.applied_at, a.updated_at, a.status_changed_at,
			j.title AS job_title,
			u.email AS candidate_email
		FROM applications a
		LEFT JOIN jobs j ON a.job_id = j.id
		LEFT JOIN users u ON a.candidate_id = u.id
		WHERE a.id = $1`

	var app domain.JobApplication
	err := r.db.QueryRow(ctx, query, id).Scan(
		&app.ID, &app.JobID, &app.CandidateID, &app.CoverLetter, &app.RejectionReason,
		&app.Status, &app.AppliedAt, &app.UpdatedAt, &app.StatusChangedAt,
		&app.JobTitle, &app.CandidateEmail,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &app, nil
}

func (r *applicationRepo) Update(ctx context.Context, app *domain.JobApplication) error {
	query := `
		UPDATE applications
		SET status = $2, rejection_reason = $3, updated_at = $4, status_changed_at = $5
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		app.ID, app.Status, app.RejectionReason, app.UpdatedAt, app.StatusChangedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) Exists(ctx context.Context, jobID, candidateID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND candidate_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, jobID, candidateID).Scan(&exists)
	return exists, mapError(err)
}

// Search orders by applied_at descending (most recent activity first).
func (r *applicationRepo) Search(ctx context.Context, filter domain.ApplicationFilter, limit, offset int) ([]domain.JobApplication, int64, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argN := 1

	if filter.JobID != nil {
		conditions = append(conditions, fmt.Sprintf("a.job_id = $%d", argN))
		args = append(args, *filter.JobID)
		argN++
	}
	if filter.CandidateID != nil {
		conditions = append(conditions, fmt.Sprintf("a.candidate_id = $%d", argN))
		args = append(args, *filter.CandidateID)
		argN++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argN))
		args = append(args, *filter.Status)
		argN++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM applications a WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := fmt.Sprintf(`
		SELECT
			a.id, a.job_id, a.candidate_id, a.cover_letter, a.rejection_reason,
			a.status, a.applied_at, a.updated_at, a.status_changed_at,
			j.title AS job_title,
			u.email AS candidate_email
		FROM applications a
		LEFT JOIN jobs j ON a.job_id = j.id
		LEFT JOIN users u ON a.candidate_id = u.id
		WHERE %s
		ORDER BY a.applied_at DESC
		LIMIT $%d OFFSET $%d`, where, argN, argN+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var applications []domain.JobApplication
	for rows.Next() {
		var app domain.JobApplication
		if err := rows.Scan(
			&app.ID, &app.JobID, &app.CandidateID, &app.CoverLetter, &app.RejectionReason,
			&app.Status, &app.AppliedAt, &app.UpdatedAt, &app.StatusChangedAt,
			&app.JobTitle, &app.CandidateEmail,
		); err != nil {
			return nil, 0, err
		}
		applications = append(applications, app)
	}
	return applications, total, rows.Err()
}
