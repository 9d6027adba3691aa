package postgres

import (
	"context"
	"fmt"
	"strings"

	"go-jobboard-backend/internal/domain"
)

type jobRepo struct {
	db Querier
}

// NewJobRepository creates a job posting repository
func NewJobRepository(db Querier) domain.JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `id, employer_id, title, description, salary_min, salary_max,
	location, employment_type, experience_level, status,
	created_at, updated_at, status_changed_at`

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (id, employer_id, title, description, salary_min, salary_max,
			location, employment_type, experience_level, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		job.ID, job.EmployerID, job.Title, job.Description, job.SalaryMin, job.SalaryMax,
		job.Location, job.EmploymentType, job.ExperienceLevel, job.Status,
		job.CreatedAt, job.UpdatedAt,
	)
	return mapError(err)
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	var job domain.Job
	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.EmployerID, &job.Title, &job.Description, &job.SalaryMin, &job.SalaryMax,
		&job.Location, &job.EmploymentType, &job.ExperienceLevel, &job.Status,
		&job.CreatedAt, &job.UpdatedAt, &job.StatusChangedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &job, nil
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `
		UPDATE jobs
		SET title = $2, description = $3, salary_min = $4, salary_max = $5,
		    location = $6, employment_type = $7, experience_level = $8,
		    status = $9, updated_at = $10, status_changed_at = $11
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Description, job.SalaryMin, job.SalaryMax,
		job.Location, job.EmploymentType, job.ExperienceLevel,
		job.Status, job.UpdatedAt, job.StatusChangedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search applies the optional filters with AND and orders newest first.
func (r *jobRepo) Search(ctx context.Context, filter domain.JobFilter, limit, offset int) ([]domain.Job, int64, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argN := 1

	if filter.EmployerID != nil {
		conditions = append(conditions, fmt.Sprintf("employer_id = $%d", argN))
		args = append(args, *filter.EmployerID)
		argN++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argN))
		args = append(args, *filter.Status)
		argN++
	}
	if filter.Location != nil {
		conditions = append(conditions, fmt.Sprintf("location ILIKE $%d", argN))
		args = append(args, "%"+*filter.Location+"%")
		argN++
	}
	if filter.EmploymentType != nil {
		conditions = append(conditions, fmt.Sprintf("employment_type = $%d", argN))
		args = append(args, *filter.EmploymentType)
		argN++
	}
	if filter.Keyword != nil {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argN, argN))
		args = append(args, "%"+*filter.Keyword+"%")
		argN++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM jobs WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := fmt.Sprintf(
		`SELECT `+jobColumns+` FROM jobs WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argN, argN+1,
	)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(
			&job.ID, &job.EmployerID, &job.Title, &job.Description, &job.SalaryMin, &job.SalaryMax,
			&job.Location, &job.EmploymentType, &job.ExperienceLevel, &job.Status,
			&job.CreatedAt, &job.UpdatedAt, &job.StatusChangedAt,
		); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, job)
	}
	return jobs, total, rows.Err()
}
