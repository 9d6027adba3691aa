package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/apperror"
)

func activeJob(employerID string) *domain.Job {
	job := domain.NewJob(employerID, "Backend Engineer", "Desc", "Remote", 1, 2)
	if err := job.Publish(); err != nil {
		panic(err)
	}
	return job
}

func TestApplyToJob(t *testing.T) {
	t.Run("Should refuse a draft posting", func(t *testing.T) {
		job := domain.NewJob("emp1", "Title", "Desc", "Remote", 1, 2)
		jobRepo := new(MockJobRepo)
		jobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
		uc := usecase.NewApplicationUsecase(new(MockApplicationRepo), jobRepo, &fakeUOW{})

		_, err := uc.ApplyToJob(context.Background(), "cand1", job.ID, "")
		assert.Equal(t, apperror.CodeDomainRule, appCode(t, err))
	})

	t.Run("Should refuse a second application to the same job", func(t *testing.T) {
		job := activeJob("emp1")
		jobRepo := new(MockJobRepo)
		jobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
		appRepo := new(MockApplicationRepo)
		appRepo.On("Exists", mock.Anything, job.ID, "cand1").Return(true, nil)
		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, &fakeUOW{})

		_, err := uc.ApplyToJob(context.Background(), "cand1", job.ID, "")
		assert.Equal(t, apperror.CodeConflict, appCode(t, err))
		appRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should map a lost insert race to conflict", func(t *testing.T) {
		job := activeJob("emp1")
		jobRepo := new(MockJobRepo)
		jobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
		appRepo := new(MockApplicationRepo)
		appRepo.On("Exists", mock.Anything, job.ID, "cand1").Return(false, nil)
		appRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.JobApplication")).Return(domain.ErrDuplicate)
		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, &fakeUOW{})

		_, err := uc.ApplyToJob(context.Background(), "cand1", job.ID, "")
		assert.Equal(t, apperror.CodeConflict, appCode(t, err))
	})

	t.Run("Should create the application in applied status", func(t *testing.T) {
		job := activeJob("emp1")
		jobRepo := new(MockJobRepo)
		jobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
		appRepo := new(MockApplicationRepo)
		appRepo.On("Exists", mock.Anything, job.ID, "cand1").Return(false, nil)
		appRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.JobApplication")).Return(nil)
		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, &fakeUOW{})

		app, err := uc.ApplyToJob(context.Background(), "cand1", job.ID, "I would like to apply.")
		assert.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusApplied, app.Status)
		assert.Equal(t, "cand1", app.CandidateID)
		assert.NotNil(t, app.CoverLetter)
	})
}

func TestWithdraw(t *testing.T) {
	t.Run("Should refuse another candidate and leave the status untouched", func(t *testing.T) {
		app := domain.NewJobApplication("job1", "cand1", nil)
		appRepo := new(MockApplicationRepo)
		appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		uc := usecase.NewApplicationUsecase(appRepo, new(MockJobRepo), &fakeUOW{})

		_, err := uc.Withdraw(context.Background(), "cand2", app.ID)
		assert.Equal(t, apperror.CodeAccessDenied, appCode(t, err))
		assert.Equal(t, domain.ApplicationStatusApplied, app.Status)
		appRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Should refuse withdrawing a hired application", func(t *testing.T) {
		app := domain.NewJobApplication("job1", "cand1", nil)
		assert.NoError(t, app.UpdateStatus(domain.ApplicationStatusScreening, nil))
		assert.NoError(t, app.UpdateStatus(domain.ApplicationStatusInterview, nil))
		assert.NoError(t, app.UpdateStatus(domain.ApplicationStatusOffer, nil))
		assert.NoError(t, app.UpdateStatus(domain.ApplicationStatusHired, nil))

		appRepo := new(MockApplicationRepo)
		appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		uc := usecase.NewApplicationUsecase(appRepo, new(MockJobRepo), &fakeUOW{})

		_, err := uc.Withdraw(context.Background(), "cand1", app.ID)
		assert.Equal(t, apperror.CodeInvalidTransition, appCode(t, err))
	})

	t.Run("Should withdraw the candidate's own application", func(t *testing.T) {
		app := domain.NewJobApplication("job1", "cand1", nil)
		appRepo := new(MockApplicationRepo)
		appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		appRepo.On("Update", mock.Anything, app).Return(nil)
		uc := usecase.NewApplicationUsecase(appRepo, new(MockJobRepo), &fakeUOW{})

		got, err := uc.Withdraw(context.Background(), "cand1", app.ID)
		assert.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusWithdrawn, got.Status)
	})
}

func TestUpdateApplicationStatus(t *testing.T) {
	setup := func(app *domain.JobApplication, job *domain.Job) (*MockApplicationRepo, *MockNotificationRepo, domain.ApplicationUsecase) {
		appRepo := new(MockApplicationRepo)
		appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		jobRepo := new(MockJobRepo)
		jobRepo.On("GetByID", mock.Anything, job.ID).Return(job, nil)
		notifRepo := new(MockNotificationRepo)
		uow := &fakeUOW{repos: domain.RepoSet{Applications: appRepo, Notifications: notifRepo}}
		return appRepo, notifRepo, usecase.NewApplicationUsecase(appRepo, jobRepo, uow)
	}

	t.Run("Should refuse an employer who does not own the posting", func(t *testing.T) {
		job := activeJob("emp1")
		app := domain.NewJobApplication(job.ID, "cand1", nil)
		_, _, uc := setup(app, job)

		_, err := uc.UpdateApplicationStatus(context.Background(), "emp2", domain.RoleEmployer, app.ID, domain.ApplicationStatusScreening, nil)
		assert.Equal(t, apperror.CodeAccessDenied, appCode(t, err))
	})

	t.Run("Should refuse setting withdrawn on the candidate's behalf", func(t *testing.T) {
		job := activeJob("emp1")
		app := domain.NewJobApplication(job.ID, "cand1", nil)
		_, _, uc := setup(app, job)

		_, err := uc.UpdateApplicationStatus(context.Background(), "emp1", domain.RoleEmployer, app.ID, domain.ApplicationStatusWithdrawn, nil)
		assert.Equal(t, apperror.CodeAccessDenied, appCode(t, err))
	})

	t.Run("Should refuse skipping pipeline stages", func(t *testing.T) {
		job := activeJob("emp1")
		app := domain.NewJobApplication(job.ID, "cand1", nil)
		_, notifRepo, uc := setup(app, job)

		_, err := uc.UpdateApplicationStatus(context.Background(), "emp1", domain.RoleEmployer, app.ID, domain.ApplicationStatusHired, nil)
		assert.Equal(t, apperror.CodeInvalidTransition, appCode(t, err))
		notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should advance the status and notify the candidate", func(t *testing.T) {
		job := activeJob("emp1")
		app := domain.NewJobApplication(job.ID, "cand1", nil)
		appRepo, notifRepo, uc := setup(app, job)
		appRepo.On("Update", mock.Anything, app).Return(nil)
		notifRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil).Run(func(args mock.Arguments) {
			n := args.Get(1).(*domain.Notification)
			assert.Equal(t, "cand1", n.RecipientID)
			assert.Equal(t, domain.NotificationTypeApplicationStatus, n.Type)
			assert.Contains(t, n.Body, "screening")
		})

		got, err := uc.UpdateApplicationStatus(context.Background(), "emp1", domain.RoleEmployer, app.ID, domain.ApplicationStatusScreening, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusScreening, got.Status)
		notifRepo.AssertExpectations(t)
	})

	t.Run("Should store the rejection reason", func(t *testing.T) {
		job := activeJob("emp1")
		app := domain.NewJobApplication(job.ID, "cand1", nil)
		appRepo, notifRepo, uc := setup(app, job)
		appRepo.On("Update", mock.Anything, app).Return(nil)
		notifRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)

		reason := "Position filled"
		got, err := uc.UpdateApplicationStatus(context.Background(), "emp1", domain.RoleEmployer, app.ID, domain.ApplicationStatusRejected, &reason)
		assert.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusRejected, got.Status)
		assert.NotNil(t, got.RejectionReason)
		assert.Equal(t, reason, *got.RejectionReason)
	})
}
