package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/apperror"
)

func TestCreateJob(t *testing.T) {
	t.Run("Should reject inverted salary range", func(t *testing.T) {
		uc := usecase.NewJobUsecase(new(MockJobRepo), &fakeUOW{})

		_, err := uc.CreateJob(context.Background(), "emp1", &domain.Job{
			Title:     "Backend Engineer",
			SalaryMin: 9000,
			SalaryMax: 5000,
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "SalaryMin")
	})

	t.Run("Should create the posting as a draft owned by the caller", func(t *testing.T) {
		jobRepo := new(MockJobRepo)
		jobRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Job")).Return(nil)
		uc := usecase.NewJobUsecase(jobRepo, &fakeUOW{})

		job, err := uc.CreateJob(context.Background(), "emp1", &domain.Job{
			// EmployerID from the request body must be ignored.
			EmployerID: "someone-else",
			Title:      "Backend Engineer",
			SalaryMin:  5000,
			SalaryMax:  9000,
		})
		assert.NoError(t, err)
		assert.Equal(t, "emp1", job.EmployerID)
		assert.Equal(t, domain.JobStatusDraft, job.Status)
	})
}

func TestChangeJobStatus(t *testing.T) {
	newUC := func(job *domain.Job) (domain.JobUsecase, *MockJobRepo) {
		jobRepo := new(MockJobRepo)
		jobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
		jobRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Job")).Return(nil)
		return usecase.NewJobUsecase(jobRepo, &fakeUOW{}), jobRepo
	}

	t.Run("Should publish a draft posting", func(t *testing.T) {
		job := domain.NewJob("emp1", "Title", "Desc", "Remote", 1, 2)
		uc, _ := newUC(job)

		got, err := uc.ChangeJobStatus(context.Background(), "emp1", domain.RoleEmployer, job.ID, domain.JobActionPublish)
		assert.NoError(t, err)
		assert.Equal(t, domain.JobStatusActive, got.Status)
		assert.NotNil(t, got.StatusChangedAt)
	})

	t.Run("Should refuse pausing a draft", func(t *testing.T) {
		job := domain.NewJob("emp1", "Title", "Desc", "Remote", 1, 2)
		uc, jobRepo := newUC(job)

		_, err := uc.ChangeJobStatus(context.Background(), "emp1", domain.RoleEmployer, job.ID, domain.JobActionPause)
		assert.Equal(t, apperror.CodeInvalidTransition, appCode(t, err))
		assert.Equal(t, domain.JobStatusDraft, job.Status)
		jobRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Should refuse reopening a closed posting", func(t *testing.T) {
		job := domain.NewJob("emp1", "Title", "Desc", "Remote", 1, 2)
		assert.NoError(t, job.Publish())
		assert.NoError(t, job.Close())
		uc, _ := newUC(job)

		_, err := uc.ChangeJobStatus(context.Background(), "emp1", domain.RoleEmployer, job.ID, domain.JobActionResume)
		assert.Equal(t, apperror.CodeInvalidTransition, appCode(t, err))
	})

	t.Run("Should refuse another employer", func(t *testing.T) {
		job := domain.NewJob("emp1", "Title", "Desc", "Remote", 1, 2)
		uc, _ := newUC(job)

		_, err := uc.ChangeJobStatus(context.Background(), "emp2", domain.RoleEmployer, job.ID, domain.JobActionPublish)
		assert.Equal(t, apperror.CodeAccessDenied, appCode(t, err))
	})

	t.Run("Should let an admin act on any posting", func(t *testing.T) {
		job := domain.NewJob("emp1", "Title", "Desc", "Remote", 1, 2)
		uc, _ := newUC(job)

		got, err := uc.ChangeJobStatus(context.Background(), "admin1", domain.RoleAdmin, job.ID, domain.JobActionPublish)
		assert.NoError(t, err)
		assert.Equal(t, domain.JobStatusActive, got.Status)
	})
}

func TestUpdateJob(t *testing.T) {
	setup := func(job *domain.Job, markStaleErr error) (domain.JobUsecase, *MockJobRepo, *MockEmbeddingRepo) {
		jobRepo := new(MockJobRepo)
		jobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
		txJobRepo := new(MockJobRepo)
		txJobRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Job")).Return(nil)
		embeddingRepo := new(MockEmbeddingRepo)
		embeddingRepo.On("MarkStaleBySubject", mock.Anything, domain.EmbeddingSubjectJob, job.ID).Return(markStaleErr)
		uow := &fakeUOW{repos: domain.RepoSet{Jobs: txJobRepo, Embeddings: embeddingRepo}}
		return usecase.NewJobUsecase(jobRepo, uow), txJobRepo, embeddingRepo
	}

	t.Run("Should mark the job embedding stale after an update", func(t *testing.T) {
		job := domain.NewJob("emp1", "Title", "Desc", "Remote", 1, 2)
		uc, _, embeddingRepo := setup(job, nil)

		got, err := uc.UpdateJob(context.Background(), "emp1", domain.RoleEmployer, job.ID, domain.JobUpdate{
			Title: "New Title", Description: "New Desc", Location: "Berlin", SalaryMin: 1, SalaryMax: 2,
		})
		assert.NoError(t, err)
		assert.Equal(t, "New Title", got.Title)
		embeddingRepo.AssertExpectations(t)
	})

	t.Run("Should fail the update when the embedding invalidation fails", func(t *testing.T) {
		job := domain.NewJob("emp1", "Title", "Desc", "Remote", 1, 2)
		uc, _, embeddingRepo := setup(job, errors.New("db down"))

		_, err := uc.UpdateJob(context.Background(), "emp1", domain.RoleEmployer, job.ID, domain.JobUpdate{
			Title: "New Title", Description: "New Desc", Location: "Berlin", SalaryMin: 1, SalaryMax: 2,
		})
		assert.Equal(t, apperror.CodeInternal, appCode(t, err))
		embeddingRepo.AssertExpectations(t)
	})
}

func TestListPublicJobs(t *testing.T) {
	t.Run("Should force the active filter and drop employer scoping", func(t *testing.T) {
		jobRepo := new(MockJobRepo)
		jobRepo.On("Search", mock.Anything, mock.AnythingOfType("domain.JobFilter"), 20, 0).
			Return([]domain.Job{}, int64(0), nil).
			Run(func(args mock.Arguments) {
				filter := args.Get(1).(domain.JobFilter)
				assert.NotNil(t, filter.Status)
				assert.Equal(t, domain.JobStatusActive, *filter.Status)
				assert.Nil(t, filter.EmployerID)
			})
		uc := usecase.NewJobUsecase(jobRepo, &fakeUOW{})

		draft := domain.JobStatusDraft
		employer := "emp1"
		result, err := uc.ListPublicJobs(context.Background(), domain.JobFilter{
			// A client trying to widen the listing.
			Status:     &draft,
			EmployerID: &employer,
		}, 0, 0)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), result.Total)
		assert.Equal(t, 1, result.Page)
		jobRepo.AssertExpectations(t)
	})
}
