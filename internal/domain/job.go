package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusDraft  JobStatus = "draft"
	JobStatusActive JobStatus = "active"
	JobStatusPaused JobStatus = "paused"
	JobStatusClosed JobStatus = "closed"
)

// jobTransitions is the closed set of legal status edges. Closed is
// terminal.
var jobTransitions = map[JobStatus]map[JobStatus]bool{
	JobStatusDraft:  {JobStatusActive: true},
	JobStatusActive: {JobStatusPaused: true, JobStatusClosed: true},
	JobStatusPaused: {JobStatusActive: true, JobStatusClosed: true},
	JobStatusClosed: {},
}

type Job struct {
	ID              string     `json:"id"`
	EmployerID      string     `json:"employer_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	SalaryMin       float64    `json:"salary_min"`
	SalaryMax       float64    `json:"salary_max"`
	Location        string     `json:"location"`
	EmploymentType  *string    `json:"employment_type,omitempty"`
	ExperienceLevel *string    `json:"experience_level,omitempty"`
	Status          JobStatus  `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	StatusChangedAt *time.Time `json:"status_changed_at,omitempty"`
}

// NewJob creates a job posting in Draft. Identifier, owner and creation
// timestamp are fixed here and never change afterwards.
func NewJob(employerID, title, description, location string, salaryMin, salaryMax float64) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.NewString(),
		EmployerID:  employerID,
		Title:       title,
		Description: description,
		Location:    location,
		SalaryMin:   salaryMin,
		SalaryMax:   salaryMax,
		Status:      JobStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (j *Job) transition(to JobStatus) error {
	if !jobTransitions[j.Status][to] {
		return &InvalidTransitionError{Entity: "job", From: string(j.Status), To: string(to)}
	}
	now := time.Now()
	j.Status = to
	j.StatusChangedAt = &now
	j.UpdatedAt = now
	return nil
}

// Publish moves a draft posting live.
func (j *Job) Publish() error {
	if j.Status != JobStatusDraft {
		return &InvalidTransitionError{Entity: "job", From: string(j.Status), To: string(JobStatusActive)}
	}
	return j.transition(JobStatusActive)
}

// Pause hides an active posting without closing it.
func (j *Job) Pause() error {
	return j.transition(JobStatusPaused)
}

// Resume re-activates a paused posting.
func (j *Job) Resume() error {
	if j.Status != JobStatusPaused {
		return &InvalidTransitionError{Entity: "job", From: string(j.Status), To: string(JobStatusActive)}
	}
	return j.transition(JobStatusActive)
}

// Close permanently closes the posting.
func (j *Job) Close() error {
	return j.transition(JobStatusClosed)
}

// Touch stamps UpdatedAt after a field mutation.
func (j *Job) Touch() {
	j.UpdatedAt = time.Now()
}

// JobFilter holds the optional search filters; nil fields are skipped
// and present fields combine with AND.
type JobFilter struct {
	EmployerID     *string
	Status         *JobStatus
	Location       *string
	EmploymentType *string
	Keyword        *string
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	Update(ctx context.Context, job *Job) error
	Search(ctx context.Context, filter JobFilter, limit, offset int) ([]Job, int64, error)
}

type JobUsecase interface {
	CreateJob(ctx context.Context, employerID string, job *Job) (*Job, error)
	GetJob(ctx context.Context, id string) (*Job, error)
	UpdateJob(ctx context.Context, actorID, actorRole, jobID string, update JobUpdate) (*Job, error)
	ChangeJobStatus(ctx context.Context, actorID, actorRole, jobID string, action JobAction) (*Job, error)
	SearchJobs(ctx context.Context, filter JobFilter, page, pageSize int) (*PaginatedResult[Job], error)
	ListPublicJobs(ctx context.Context, filter JobFilter, page, pageSize int) (*PaginatedResult[Job], error)
	ListEmployerJobs(ctx context.Context, employerID string, page, pageSize int) (*PaginatedResult[Job], error)
}

// JobAction names the lifecycle operations exposed over HTTP.
type JobAction string

const (
	JobActionPublish JobAction = "publish"
	JobActionPause   JobAction = "pause"
	JobActionResume  JobAction = "resume"
	JobActionClose   JobAction = "close"
)

// JobUpdate carries the mutable posting fields.
type JobUpdate struct {
	Title           string
	Description     string
	SalaryMin       float64
	SalaryMax       float64
	Location        string
	EmploymentType  *string
	ExperienceLevel *string
}
