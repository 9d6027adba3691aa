package usecase

import (
	"context"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type jobUsecase struct {
	jobRepo domain.JobRepository
	uow     domain.UnitOfWork
}

func NewJobUsecase(jobRepo domain.JobRepository, uow domain.UnitOfWork) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo, uow: uow}
}

func (u *jobUsecase) CreateJob(ctx context.Context, employerID string, job *domain.Job) (*domain.Job, error) {
	if job.SalaryMin > job.SalaryMax {
		return nil, apperror.BadRequest("SalaryMin cannot be greater than SalaryMax")
	}
	if job.Title == "" {
		return nil, apperror.BadRequest("Title is required")
	}

	created := domain.NewJob(employerID, job.Title, job.Description, job.Location, job.SalaryMin, job.SalaryMax)
	created.EmploymentType = job.EmploymentType
	created.ExperienceLevel = job.ExperienceLevel

	if err := u.jobRepo.Create(ctx, created); err != nil {
		return nil, apperror.Internal(err)
	}
	return created, nil
}

func (u *jobUsecase) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapDomainErr(err, "Job")
	}
	return job, nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, actorID, actorRole, jobID string, update domain.JobUpdate) (*domain.Job, error) {
	if update.SalaryMin > update.SalaryMax {
		return nil, apperror.BadRequest("SalaryMin cannot be greater than SalaryMax")
	}

	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, mapDomainErr(err, "Job")
	}
	if err := requireJobOwner(job, actorID, actorRole); err != nil {
		return nil, err
	}

	job.Title = update.Title
	job.Description = update.Description
	job.SalaryMin = update.SalaryMin
	job.SalaryMax = update.SalaryMax
	job.Location = update.Location
	job.EmploymentType = update.EmploymentType
	job.ExperienceLevel = update.ExperienceLevel
	job.Touch()

	// The stored vector no longer reflects the posting text; the update
	// and the invalidation commit together.
	err = u.uow.Do(ctx, func(r domain.RepoSet) error {
		if err := r.Jobs.Update(ctx, job); err != nil {
			return err
		}
		return r.Embeddings.MarkStaleBySubject(ctx, domain.EmbeddingSubjectJob, job.ID)
	})
	if err != nil {
		return nil, mapDomainErr(err, "Job")
	}

	return job, nil
}

// ChangeJobStatus runs one lifecycle action against the posting. Guard
// order: existence, authorization, then the transition table.
func (u *jobUsecase) ChangeJobStatus(ctx context.Context, actorID, actorRole, jobID string, action domain.JobAction) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, mapDomainErr(err, "Job")
	}
	if err := requireJobOwner(job, actorID, actorRole); err != nil {
		return nil, err
	}

	switch action {
	case domain.JobActionPublish:
		err = job.Publish()
	case domain.JobActionPause:
		err = job.Pause()
	case domain.JobActionResume:
		err = job.Resume()
	case domain.JobActionClose:
		err = job.Close()
	default:
		return nil, apperror.BadRequest("Unknown job action: " + string(action))
	}
	if err != nil {
		return nil, mapDomainErr(err, "Job")
	}

	if err := u.jobRepo.Update(ctx, job); err != nil {
		return nil, mapDomainErr(err, "Job")
	}
	return job, nil
}

func (u *jobUsecase) SearchJobs(ctx context.Context, filter domain.JobFilter, page, pageSize int) (*domain.PaginatedResult[domain.Job], error) {
	page, pageSize = domain.ClampPage(page, pageSize)
	offset := (page - 1) * pageSize

	jobs, total, err := u.jobRepo.Search(ctx, filter, pageSize, offset)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return domain.NewPaginatedResult(jobs, total, page, pageSize), nil
}

// ListPublicJobs enforces the Active filter server-side; clients cannot
// widen it.
func (u *jobUsecase) ListPublicJobs(ctx context.Context, filter domain.JobFilter, page, pageSize int) (*domain.PaginatedResult[domain.Job], error) {
	active := domain.JobStatusActive
	filter.Status = &active
	filter.EmployerID = nil
	return u.SearchJobs(ctx, filter, page, pageSize)
}

func (u *jobUsecase) ListEmployerJobs(ctx context.Context, employerID string, page, pageSize int) (*domain.PaginatedResult[domain.Job], error) {
	filter := domain.JobFilter{EmployerID: &employerID}
	return u.SearchJobs(ctx, filter, page, pageSize)
}

func requireJobOwner(job *domain.Job, actorID, actorRole string) error {
	if actorRole == domain.RoleAdmin {
		return nil
	}
	if job.EmployerID != actorID {
		return apperror.Forbidden("Only the posting employer can modify this job")
	}
	return nil
}
