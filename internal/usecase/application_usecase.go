package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	uow             domain.UnitOfWork
}

// NewApplicationUsecase creates the job application usecase
func NewApplicationUsecase(
	applicationRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	uow domain.UnitOfWork,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		uow:             uow,
	}
}

// ApplyToJob submits an application to an active posting.
func (u *applicationUsecase) ApplyToJob(ctx context.Context, candidateID, jobID string, coverLetter string) (*domain.JobApplication, error) {
	// 1. Validate job exists and is active
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, mapDomainErr(err, "Job")
	}
	if job.Status != domain.JobStatusActive {
		return nil, apperror.DomainRule("Cannot apply to a job that is not active")
	}

	// 2. Friendly duplicate check; the unique index is the real guard
	//    and closes the race between this check and the insert.
	exists, err := u.applicationRepo.Exists(ctx, jobID, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("You have already applied to this job")
	}

	// 3. Create application
	var coverLetterPtr *string
	if coverLetter != "" {
		coverLetterPtr = &coverLetter
	}
	app := domain.NewJobApplication(jobID, candidateID, coverLetterPtr)

	if err := u.applicationRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("You have already applied to this job")
		}
		return nil, apperror.Internal(err)
	}
	return app, nil
}

// Withdraw retires the candidate's own application. Guard order:
// existence, then ownership, then the transition table.
func (u *applicationUsecase) Withdraw(ctx context.Context, candidateID, applicationID string) (*domain.JobApplication, error) {
	app, err := u.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, mapDomainErr(err, "Application")
	}
	if app.CandidateID != candidateID {
		return nil, apperror.Forbidden("Only the applying candidate can withdraw this application")
	}
	if err := app.Withdraw(); err != nil {
		return nil, mapDomainErr(err, "Application")
	}
	if err := u.applicationRepo.Update(ctx, app); err != nil {
		return nil, mapDomainErr(err, "Application")
	}
	return app, nil
}

func (u *applicationUsecase) ListMyApplications(ctx context.Context, candidateID string, status *domain.ApplicationStatus, page, pageSize int) (*domain.PaginatedResult[domain.JobApplication], error) {
	page, pageSize = domain.ClampPage(page, pageSize)
	offset := (page - 1) * pageSize

	filter := domain.ApplicationFilter{CandidateID: &candidateID, Status: status}
	apps, total, err := u.applicationRepo.Search(ctx, filter, pageSize, offset)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return domain.NewPaginatedResult(apps, total, page, pageSize), nil
}

func (u *applicationUsecase) ListJobApplications(ctx context.Context, actorID, actorRole, jobID string, status *domain.ApplicationStatus, page, pageSize int) (*domain.PaginatedResult[domain.JobApplication], error) {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, mapDomainErr(err, "Job")
	}
	if err := requireJobOwner(job, actorID, actorRole); err != nil {
		return nil, err
	}

	page, pageSize = domain.ClampPage(page, pageSize)
	offset := (page - 1) * pageSize

	filter := domain.ApplicationFilter{JobID: &jobID, Status: status}
	apps, total, err := u.applicationRepo.Search(ctx, filter, pageSize, offset)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return domain.NewPaginatedResult(apps, total, page, pageSize), nil
}

// UpdateApplicationStatus advances the pipeline and notifies the
// candidate. The status change and the notification row share one
// transaction, so a persistence failure leaves neither visible.
func (u *applicationUsecase) UpdateApplicationStatus(ctx context.Context, actorID, actorRole, applicationID string, status domain.ApplicationStatus, rejectionReason *string) (*domain.JobApplication, error) {
	app, err := u.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, mapDomainErr(err, "Application")
	}

	job, err := u.jobRepo.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, mapDomainErr(err, "Job")
	}
	if err := requireJobOwner(job, actorID, actorRole); err != nil {
		return nil, err
	}
	if status == domain.ApplicationStatusWithdrawn {
		return nil, apperror.Forbidden("Employers cannot withdraw an application on the candidate's behalf")
	}

	if err := app.UpdateStatus(status, rejectionReason); err != nil {
		return nil, mapDomainErr(err, "Application")
	}

	err = u.uow.Do(ctx, func(r domain.RepoSet) error {
		if err := r.Applications.Update(ctx, app); err != nil {
			return err
		}
		notification := domain.NewNotification(
			app.CandidateID,
			domain.NotificationTypeApplicationStatus,
			"Application status updated",
			fmt.Sprintf("Your application for %q is now %s", job.Title, app.Status),
		)
		return r.Notifications.Create(ctx, notification)
	})
	if err != nil {
		return nil, mapDomainErr(err, "Application")
	}
	return app, nil
}
