package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EmbeddingStatus string

const (
	EmbeddingStatusPending EmbeddingStatus = "pending"
	EmbeddingStatusReady   EmbeddingStatus = "ready"
	EmbeddingStatusStale   EmbeddingStatus = "stale"
)

// embeddingTransitions: a record becomes Ready once computed, goes
// Stale when its source changes, and returns to Ready on recompute.
var embeddingTransitions = map[EmbeddingStatus]map[EmbeddingStatus]bool{
	EmbeddingStatusPending: {EmbeddingStatusReady: true},
	EmbeddingStatusReady:   {EmbeddingStatusStale: true},
	EmbeddingStatusStale:   {EmbeddingStatusReady: true},
}

type EmbeddingSubject string

const (
	EmbeddingSubjectProfile EmbeddingSubject = "profile"
	EmbeddingSubjectJob     EmbeddingSubject = "job"
)

// EmbeddingRecord holds the vector for one profile or job.
type EmbeddingRecord struct {
	ID              string           `json:"id"`
	Subject         EmbeddingSubject `json:"subject"`
	SubjectID       string           `json:"subject_id"`
	Vector          []float32        `json:"-"`
	Status          EmbeddingStatus  `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	StatusChangedAt *time.Time       `json:"status_changed_at,omitempty"`
}

func NewEmbeddingRecord(subject EmbeddingSubject, subjectID string) *EmbeddingRecord {
	now := time.Now()
	return &EmbeddingRecord{
		ID:        uuid.NewString(),
		Subject:   subject,
		SubjectID: subjectID,
		Status:    EmbeddingStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *EmbeddingRecord) transition(to EmbeddingStatus) error {
	if !embeddingTransitions[e.Status][to] {
		return &InvalidTransitionError{Entity: "embedding", From: string(e.Status), To: string(to)}
	}
	now := time.Now()
	e.Status = to
	e.StatusChangedAt = &now
	e.UpdatedAt = now
	return nil
}

// SetVector stores a freshly computed vector and marks the record Ready.
func (e *EmbeddingRecord) SetVector(vector []float32) error {
	if err := e.transition(EmbeddingStatusReady); err != nil {
		return err
	}
	e.Vector = vector
	return nil
}

// MarkStale flags the record for recomputation after a source update.
func (e *EmbeddingRecord) MarkStale() error {
	return e.transition(EmbeddingStatusStale)
}

// EnhancementResult tracks one AI profile-enhancement request through
// the external enhancer. Same worker lifecycle as CV parsing.
type EnhancementResult struct {
	ID              string      `json:"id"`
	CandidateID     string      `json:"candidate_id"`
	Status          ParseStatus `json:"status"`
	Suggestions     *string     `json:"suggestions,omitempty"`
	FailureReason   *string     `json:"failure_reason,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	StatusChangedAt *time.Time  `json:"status_changed_at,omitempty"`
}

func NewEnhancementResult(candidateID string) *EnhancementResult {
	now := time.Now()
	return &EnhancementResult{
		ID:          uuid.NewString(),
		CandidateID: candidateID,
		Status:      ParseStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (r *EnhancementResult) transition(to ParseStatus) error {
	if !parseTransitions[r.Status][to] {
		return &InvalidTransitionError{Entity: "enhancement", From: string(r.Status), To: string(to)}
	}
	now := time.Now()
	r.Status = to
	r.StatusChangedAt = &now
	r.UpdatedAt = now
	return nil
}

func (r *EnhancementResult) Start() error {
	return r.transition(ParseStatusProcessing)
}

func (r *EnhancementResult) Complete(suggestions string) error {
	if err := r.transition(ParseStatusCompleted); err != nil {
		return err
	}
	r.Suggestions = &suggestions
	return nil
}

func (r *EnhancementResult) Fail(reason string) error {
	if err := r.transition(ParseStatusFailed); err != nil {
		return err
	}
	r.FailureReason = &reason
	return nil
}

// Match pairs a subject with its similarity score, best first.
type Match struct {
	SubjectID string  `json:"subject_id"`
	Score     float64 `json:"score"`
}

// Embedder is the external embedding collaborator. Real behavior is
// unspecified; main wires a deterministic stand-in.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Enhancer is the external profile-enhancement collaborator stand-in.
type Enhancer interface {
	Enhance(ctx context.Context, profile *CandidateProfile) (string, error)
}

type EmbeddingRepository interface {
	Upsert(ctx context.Context, record *EmbeddingRecord) error
	GetBySubject(ctx context.Context, subject EmbeddingSubject, subjectID string) (*EmbeddingRecord, error)
	ListReady(ctx context.Context, subject EmbeddingSubject) ([]EmbeddingRecord, error)
	MarkStaleBySubject(ctx context.Context, subject EmbeddingSubject, subjectID string) error
}

type EnhancementRepository interface {
	Create(ctx context.Context, result *EnhancementResult) error
	GetByID(ctx context.Context, id string) (*EnhancementResult, error)
	Update(ctx context.Context, result *EnhancementResult) error
	ListByCandidate(ctx context.Context, candidateID string, limit, offset int) ([]EnhancementResult, int64, error)
}

type MatchingUsecase interface {
	MatchesForJob(ctx context.Context, actorID, actorRole, jobID string, page, pageSize int) (*PaginatedResult[Match], error)
	MatchesForCandidate(ctx context.Context, candidateID string, page, pageSize int) (*PaginatedResult[Match], error)
	RefreshEmbedding(ctx context.Context, subject EmbeddingSubject, subjectID string) (*EmbeddingRecord, error)

	RequestEnhancement(ctx context.Context, candidateID string) (*EnhancementResult, error)
	GetEnhancement(ctx context.Context, candidateID, id string) (*EnhancementResult, error)
	AdvanceEnhancement(ctx context.Context, id string, to ParseStatus, suggestions, failureReason *string) (*EnhancementResult, error)
}
