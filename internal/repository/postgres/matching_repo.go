package postgres

import (
	"context"
	"time"

	"go-jobboard-backend/internal/domain"
)

type embeddingRepo struct {
	db Querier
}

// NewEmbeddingRepository creates an embedding record repository
func NewEmbeddingRepository(db Querier) domain.EmbeddingRepository {
	return &embeddingRepo{db: db}
}

// Upsert keeps one record per (subject, subject_id).
func (r *embeddingRepo) Upsert(ctx context.Context, record *domain.EmbeddingRecord) error {
	query := `
		INSERT INTO embedding_records
			(id, subject, subject_id, vector, status, created_at, updated_at, status_changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (subject, subject_id) DO UPDATE
		SET vector = EXCLUDED.vector, status = EXCLUDED.status,
		    updated_at = EXCLUDED.updated_at, status_changed_at = EXCLUDED.status_changed_at`

	_, err := r.db.Exec(ctx, query,
		record.ID, record.Subject, record.SubjectID, record.Vector, record.Status,
		record.CreatedAt, record.UpdatedAt, record.StatusChangedAt,
	)
	return mapError(err)
}

func (r *embeddingRepo) GetBySubject(ctx context.Context, subject domain.EmbeddingSubject, subjectID string) (*domain.EmbeddingRecord, error) {
	query := `
		SELECT id, subject, subject_id, vector, status, created_at, updated_at, status_changed_at
		FROM embedding_records WHERE subject = $1 AND subject_id = $2`

	var rec domain.EmbeddingRecord
	err := r.db.QueryRow(ctx, query, subject, subjectID).Scan(
		&rec.ID, &rec.Subject, &rec.SubjectID, &rec.Vector, &rec.Status,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.StatusChangedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &rec, nil
}

func (r *embeddingRepo) ListReady(ctx context.Context, subject domain.EmbeddingSubject) ([]domain.EmbeddingRecord, error) {
	query := `
		SELECT id, subject, subject_id, vector, status, created_at, updated_at, status_changed_at
		FROM embedding_records
		WHERE subject = $1 AND status = $2
		ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, query, subject, domain.EmbeddingStatusReady)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var records []domain.EmbeddingRecord
	for rows.Next() {
		var rec domain.EmbeddingRecord
		if err := rows.Scan(
			&rec.ID, &rec.Subject, &rec.SubjectID, &rec.Vector, &rec.Status,
			&rec.CreatedAt, &rec.UpdatedAt, &rec.StatusChangedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *embeddingRepo) MarkStaleBySubject(ctx context.Context, subject domain.EmbeddingSubject, subjectID string) error {
	now := time.Now()
	query := `
		UPDATE embedding_records
		SET status = $3, updated_at = $4, status_changed_at = $4
		WHERE subject = $1 AND subject_id = $2 AND status = $5`
	_, err := r.db.Exec(ctx, query, subject, subjectID,
		domain.EmbeddingStatusStale, now, domain.EmbeddingStatusReady)
	return mapError(err)
}

type enhancementRepo struct {
	db Querier
}

// NewEnhancementRepository creates an enhancement result repository
func NewEnhancementRepository(db Querier) domain.EnhancementRepository {
	return &enhancementRepo{db: db}
}

func (r *enhancementRepo) Create(ctx context.Context, result *domain.EnhancementResult) error {
	query := `
		INSERT INTO enhancement_results (id, candidate_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		result.ID, result.CandidateID, result.Status, result.CreatedAt, result.UpdatedAt,
	)
	return mapError(err)
}

func (r *enhancementRepo) GetByID(ctx context.Context, id string) (*domain.EnhancementResult, error) {
	query := `
		SELECT id, candidate_id, status, suggestions, failure_reason,
		       created_at, updated_at, status_changed_at
		FROM enhancement_results WHERE id = $1`

	var res domain.EnhancementResult
	err := r.db.QueryRow(ctx, query, id).Scan(
		&res.ID, &res.CandidateID, &res.Status, &res.Suggestions, &res.FailureReason,
		&res.CreatedAt, &res.UpdatedAt, &res.StatusChangedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &res, nil
}

func (r *enhancementRepo) Update(ctx context.Context, result *domain.EnhancementResult) error {
	query := `
		UPDATE enhancement_results
		SET status = $2, suggestions = $3, failure_reason = $4,
		    updated_at = $5, status_changed_at = $6
		WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query,
		result.ID, result.Status, result.Suggestions, result.FailureReason,
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

func (r *enhancementRepo) ListByCandidate(ctx context.Context, candidateID string, limit, offset int) ([]domain.EnhancementResult, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM enhancement_results WHERE candidate_id = $1`
	if err := r.db.QueryRow(ctx, countQuery, candidateID).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := `
		SELECT id, candidate_id, status, suggestions, failure_reason,
		       created_at, updated_at, status_changed_at
		FROM enhancement_results
		WHERE candidate_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, candidateID, limit, offset)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var results []domain.EnhancementResult
	for rows.Next() {
		var res domain.EnhancementResult
		if err := rows.Scan(
			&res.ID, &res.CandidateID, &res.Status, &res.Suggestions, &res.FailureReason,
			&res.CreatedAt, &res.UpdatedAt, &res.StatusChangedAt,
		); err != nil {
			return nil, 0, err
		}
		results = append(results, res)
	}
	return results, total, rows.Err()
}
