package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationStatusApplied   ApplicationStatus = "applied"
	ApplicationStatusScreening ApplicationStatus = "screening"
	ApplicationStatusInterview ApplicationStatus = "interview"
	ApplicationStatusOffer     ApplicationStatus = "offer"
	ApplicationStatusHired     ApplicationStatus = "hired"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"
)

// applicationTransitions: the pipeline advances one stage at a time;
// any non-terminal stage may end in rejected or withdrawn.
var applicationTransitions = map[ApplicationStatus]map[ApplicationStatus]bool{
	ApplicationStatusApplied:   {ApplicationStatusScreening: true, ApplicationStatusRejected: true, ApplicationStatusWithdrawn: true},
	ApplicationStatusScreening: {ApplicationStatusInterview: true, ApplicationStatusRejected: true, ApplicationStatusWithdrawn: true},
	ApplicationStatusInterview: {ApplicationStatusOffer: true, ApplicationStatusRejected: true, ApplicationStatusWithdrawn: true},
	ApplicationStatusOffer:     {ApplicationStatusHired: true, ApplicationStatusRejected: true, ApplicationStatusWithdrawn: true},
	ApplicationStatusHired:     {},
	ApplicationStatusRejected:  {},
	ApplicationStatusWithdrawn: {},
}

// JobApplication represents one candidate's application to one job.
// At most one application may exist per (JobID, CandidateID) pair; the
// storage layer enforces this with a unique index.
type JobApplication struct {
	ID              string            `json:"id"`
	JobID           string            `json:"job_id"`
	CandidateID     string            `json:"candidate_id"`
	CoverLetter     *string           `json:"cover_letter,omitempty"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
	Status          ApplicationStatus `json:"status"`
	AppliedAt       time.Time         `json:"applied_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	StatusChangedAt *time.Time        `json:"status_changed_at,omitempty"`

	// Joined data for list responses
	JobTitle       *string `json:"job_title,omitempty"`
	CandidateEmail *string `json:"candidate_email,omitempty"`
}

// NewJobApplication creates an application in Applied.
func NewJobApplication(jobID, candidateID string, coverLetter *string) *JobApplication {
	now := time.Now()
	return &JobApplication{
		ID:          uuid.NewString(),
		JobID:       jobID,
		CandidateID: candidateID,
		CoverLetter: coverLetter,
		Status:      ApplicationStatusApplied,
		AppliedAt:   now,
		UpdatedAt:   now,
	}
}

func (a *JobApplication) transition(to ApplicationStatus) error {
	if !applicationTransitions[a.Status][to] {
		return &InvalidTransitionError{Entity: "application", From: string(a.Status), To: string(to)}
	}
	now := time.Now()
	a.Status = to
	a.StatusChangedAt = &now
	a.UpdatedAt = now
	return nil
}

// UpdateStatus advances the pipeline. Rejection may carry a reason,
// which is dropped for every other target status.
func (a *JobApplication) UpdateStatus(to ApplicationStatus, rejectionReason *string) error {
	if err := a.transition(to); err != nil {
		return err
	}
	if to == ApplicationStatusRejected {
		a.RejectionReason = rejectionReason
	}
	return nil
}

// Withdraw retires the application. Ownership is checked by the caller;
// the entity only guards the transition table.
func (a *JobApplication) Withdraw() error {
	return a.transition(ApplicationStatusWithdrawn)
}

// Terminal reports whether no further transition is possible.
func (a *JobApplication) Terminal() bool {
	return len(applicationTransitions[a.Status]) == 0
}

// ApplicationFilter holds optional search filters combined with AND.
type ApplicationFilter struct {
	JobID       *string
	CandidateID *string
	Status      *ApplicationStatus
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *JobApplication) error
	GetByID(ctx context.Context, id string) (*JobApplication, error)
	Update(ctx context.Context, app *JobApplication) error
	Exists(ctx context.Context, jobID, candidateID string) (bool, error)
	Search(ctx context.Context, filter ApplicationFilter, limit, offset int) ([]JobApplication, int64, error)
}

type ApplicationUsecase interface {
	// Candidate operations
	ApplyToJob(ctx context.Context, candidateID, jobID string, coverLetter string) (*JobApplication, error)
	Withdraw(ctx context.Context, candidateID, applicationID string) (*JobApplication, error)
	ListMyApplications(ctx context.Context, candidateID string, status *ApplicationStatus, page, pageSize int) (*PaginatedResult[JobApplication], error)

	// Employer operations
	ListJobApplications(ctx context.Context, actorID, actorRole, jobID string, status *ApplicationStatus, page, pageSize int) (*PaginatedResult[JobApplication], error)
	UpdateApplicationStatus(ctx context.Context, actorID, actorRole, applicationID string, status ApplicationStatus, rejectionReason *string) (*JobApplication, error)
}
