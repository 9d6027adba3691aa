package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ParseStatus string

const (
	ParseStatusPending    ParseStatus = "pending"
	ParseStatusProcessing ParseStatus = "processing"
	ParseStatusCompleted  ParseStatus = "completed"
	ParseStatusFailed     ParseStatus = "failed"
)

// parseTransitions is shared by CV parsing and profile enhancement:
// an external worker picks up pending work and reports the outcome.
var parseTransitions = map[ParseStatus]map[ParseStatus]bool{
	ParseStatusPending:    {ParseStatusProcessing: true},
	ParseStatusProcessing: {ParseStatusCompleted: true, ParseStatusFailed: true},
	ParseStatusCompleted:  {},
	ParseStatusFailed:     {},
}

// ParsedCv is the structured payload extracted from an uploaded CV.
type ParsedCv struct {
	Headline        string   `json:"headline"`
	Summary         string   `json:"summary"`
	Skills          []string `json:"skills"`
	YearsExperience int      `json:"years_experience"`
}

// CvParseResult tracks one CV upload through the external parsing
// worker. ApplyToProfile is a one-shot operation guarded by AppliedAt.
type CvParseResult struct {
	ID              string      `json:"id"`
	CandidateID     string      `json:"candidate_id"`
	FileURL         string      `json:"file_url"`
	Status          ParseStatus `json:"status"`
	Parsed          *ParsedCv   `json:"parsed,omitempty"`
	FailureReason   *string     `json:"failure_reason,omitempty"`
	AppliedAt       *time.Time  `json:"applied_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	StatusChangedAt *time.Time  `json:"status_changed_at,omitempty"`
}

func NewCvParseResult(candidateID, fileURL string) *CvParseResult {
	now := time.Now()
	return &CvParseResult{
		ID:          uuid.NewString(),
		CandidateID: candidateID,
		FileURL:     fileURL,
		Status:      ParseStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (r *CvParseResult) transition(to ParseStatus) error {
	if !parseTransitions[r.Status][to] {
		return &InvalidTransitionError{Entity: "cv_parse", From: string(r.Status), To: string(to)}
	}
	now := time.Now()
	r.Status = to
	r.StatusChangedAt = &now
	r.UpdatedAt = now
	return nil
}

// Start is called when the worker picks the job up.
func (r *CvParseResult) Start() error {
	return r.transition(ParseStatusProcessing)
}

// Complete stores the extracted payload.
func (r *CvParseResult) Complete(parsed *ParsedCv) error {
	if err := r.transition(ParseStatusCompleted); err != nil {
		return err
	}
	r.Parsed = parsed
	return nil
}

// Fail records the worker's failure reason.
func (r *CvParseResult) Fail(reason string) error {
	if err := r.transition(ParseStatusFailed); err != nil {
		return err
	}
	r.FailureReason = &reason
	return nil
}

// MarkApplied guards the apply-to-profile operation: it requires a
// completed parse that has not been applied yet.
func (r *CvParseResult) MarkApplied() error {
	if r.Status != ParseStatusCompleted {
		return &InvalidTransitionError{Entity: "cv_parse", From: string(r.Status), To: "applied"}
	}
	if r.AppliedAt != nil {
		return &InvalidTransitionError{Entity: "cv_parse", From: "applied", To: "applied"}
	}
	now := time.Now()
	r.AppliedAt = &now
	r.UpdatedAt = now
	return nil
}

type CvParseRepository interface {
	Create(ctx context.Context, result *CvParseResult) error
	GetByID(ctx context.Context, id string) (*CvParseResult, error)
	Update(ctx context.Context, result *CvParseResult) error
	ListByCandidate(ctx context.Context, candidateID string, limit, offset int) ([]CvParseResult, int64, error)
}

type CvParseUsecase interface {
	UploadCv(ctx context.Context, candidateID string, data []byte, contentType string) (*CvParseResult, error)
	GetParseResult(ctx context.Context, actorID, actorRole, id string) (*CvParseResult, error)
	ListMyParses(ctx context.Context, candidateID string, page, pageSize int) (*PaginatedResult[CvParseResult], error)
	ApplyToProfile(ctx context.Context, candidateID, parseID string) (*CandidateProfile, error)

	// Worker-facing: advance a parse through its lifecycle.
	AdvanceParse(ctx context.Context, parseID string, to ParseStatus, parsed *ParsedCv, failureReason *string) (*CvParseResult, error)
}
