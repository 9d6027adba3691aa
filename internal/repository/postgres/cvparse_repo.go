package postgres

import (
	"context"
	"encoding/json"

	"go-jobboard-backend/internal/domain"
)

type cvParseRepo struct {
	db Querier
}

// NewCvParseRepository creates a CV parse result repository
func NewCvParseRepository(db Querier) domain.CvParseRepository {
	return &cvParseRepo{db: db}
}

func (r *cvParseRepo) Create(ctx context.Context, result *domain.CvParseResult) error {
	query := `
		INSERT INTO cv_parse_results
			(id, candidate_id, file_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		result.ID, result.CandidateID, result.FileURL, result.Status,
		result.CreatedAt, result.UpdatedAt,
	)
	return mapError(err)
}

func (r *cvParseRepo) GetByID(ctx context.Context, id string) (*domain.CvParseResult, error) {
	query := `
		SELECT id, candidate_id, file_url, status, parsed, failure_reason,
		       applied_at, created_at, updated_at, status_changed_at
		FROM cv_parse_results WHERE id = $1`

	var res domain.CvParseResult
	var parsed []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&res.ID, &res.CandidateID, &res.FileURL, &res.Status, &parsed, &res.FailureReason,
		&res.AppliedAt, &res.CreatedAt, &res.UpdatedAt, &res.StatusChangedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	if len(parsed) > 0 {
		res.Parsed = &domain.ParsedCv{}
		if err := json.Unmarshal(parsed, res.Parsed); err != nil {
			return nil, err
		}
	}
	return &res, nil
}

func (r *cvParseRepo) Update(ctx context.Context, result *domain.CvParseResult) error {
	var parsed []byte
	if result.Parsed != nil {
		var err error
		parsed, err = json.Marshal(result.Parsed)
		if err != nil {
			return err
		}
	}

	query := `
		UPDATE cv_parse_results
		SET status = $2, parsed = $3, failure_reason = $4, applied_at = $5,
		    updated_at = $6, status_changed_at = $7
		WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query,
		result.ID, result.Status, parsed, result.FailureReason, result.AppliedAt,
		result.UpdatedAt, result.StatusChangedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *cvParseRepo) ListByCandidate(ctx context.Context, candidateID string, limit, offset int) ([]domain.CvParseResult, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM cv_parse_results WHERE candidate_id = $1`
	if err := r.db.QueryRow(ctx, countQuery, candidateID).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := `
		SELECT id, candidate_id, file_url, status, parsed, failure_reason,
		       applied_at, created_at, updated_at, status_changed_at
		FROM cv_parse_results
		WHERE candidate_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, candidateID, limit, offset)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var results []domain.CvParseResult
	for rows.Next() {
		var res domain.CvParseResult
		var parsed []byte
		if err := rows.Scan(
			&res.ID, &res.CandidateID, &res.FileURL, &res.Status, &parsed, &res.FailureReason,
			&res.AppliedAt, &res.CreatedAt, &res.UpdatedAt, &res.StatusChangedAt,
		); err != nil {
			return nil, 0, err
		}
		if len(parsed) > 0 {
			res.Parsed = &domain.ParsedCv{}
			if err := json.Unmarshal(parsed, res.Parsed); err != nil {
				return nil, 0, err
			}
		}
		results = append(results, res)
	}
	return results, total, rows.Err()
}
