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

func TestUploadCv(t *testing.T) {
	t.Run("Should reject an empty file", func(t *testing.T) {
		uc := usecase.NewCvParseUsecase(new(MockCvParseRepo), &fakeUOW{}, &stubBlob{})

		_, err := uc.UploadCv(context.Background(), "cand1", nil, "application/pdf")
		assert.Error(t, err)
	})

	t.Run("Should reject a non-PDF payload regardless of content type", func(t *testing.T) {
		uc := usecase.NewCvParseUsecase(new(MockCvParseRepo), &fakeUOW{}, &stubBlob{})

		_, err := uc.UploadCv(context.Background(), "cand1", []byte("plain text"), "application/pdf")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "PDF")
	})

	t.Run("Should store the file and register a pending parse", func(t *testing.T) {
		parseRepo := new(MockCvParseRepo)
		parseRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.CvParseResult")).Return(nil)
		blob := &stubBlob{}
		uc := usecase.NewCvParseUsecase(parseRepo, &fakeUOW{}, blob)

		result, err := uc.UploadCv(context.Background(), "cand1", []byte("%PDF-1.7 content"), "application/pdf")
		assert.NoError(t, err)
		assert.Equal(t, domain.ParseStatusPending, result.Status)
		assert.Contains(t, result.FileURL, "cvs/cand1/")
		assert.Len(t, blob.keys, 1)
	})
}

func TestGetParseResult(t *testing.T) {
	t.Run("Should refuse another candidate's parse", func(t *testing.T) {
		result := domain.NewCvParseResult("cand1", "s3://b/cv.pdf")
		parseRepo := new(MockCvParseRepo)
		parseRepo.On("GetByID", mock.Anything, result.ID).Return(result, nil)
		uc := usecase.NewCvParseUsecase(parseRepo, &fakeUOW{}, &stubBlob{})

		_, err := uc.GetParseResult(context.Background(), "cand2", domain.RoleCandidate, result.ID)
		assert.Equal(t, apperror.CodeAccessDenied, appCode(t, err))
	})

	t.Run("Should let an admin inspect any parse", func(t *testing.T) {
		result := domain.NewCvParseResult("cand1", "s3://b/cv.pdf")
		parseRepo := new(MockCvParseRepo)
		parseRepo.On("GetByID", mock.Anything, result.ID).Return(result, nil)
		uc := usecase.NewCvParseUsecase(parseRepo, &fakeUOW{}, &stubBlob{})

		got, err := uc.GetParseResult(context.Background(), "admin1", domain.RoleAdmin, result.ID)
		assert.NoError(t, err)
		assert.Equal(t, result.ID, got.ID)
	})
}

func TestAdvanceParse(t *testing.T) {
	setup := func(result *domain.CvParseResult) (*MockCvParseRepo, *MockNotificationRepo, domain.CvParseUsecase) {
		parseRepo := new(MockCvParseRepo)
		parseRepo.On("GetByID", mock.Anything, result.ID).Return(result, nil)
		notifRepo := new(MockNotificationRepo)
		uow := &fakeUOW{repos: domain.RepoSet{CvParses: parseRepo, Notifications: notifRepo}}
		return parseRepo, notifRepo, usecase.NewCvParseUsecase(parseRepo, uow, &stubBlob{})
	}

	t.Run("Should refuse completing a pending parse", func(t *testing.T) {
		result := domain.NewCvParseResult("cand1", "s3://b/cv.pdf")
		_, _, uc := setup(result)

		_, err := uc.AdvanceParse(context.Background(), result.ID, domain.ParseStatusCompleted, &domain.ParsedCv{}, nil)
		assert.Equal(t, apperror.CodeInvalidTransition, appCode(t, err))
	})

	t.Run("Should complete a processing parse and notify the candidate", func(t *testing.T) {
		result := domain.NewCvParseResult("cand1", "s3://b/cv.pdf")
		assert.NoError(t, result.Start())
		parseRepo, notifRepo, uc := setup(result)
		parseRepo.On("Update", mock.Anything, result).Return(nil)
		notifRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil).Run(func(args mock.Arguments) {
			n := args.Get(1).(*domain.Notification)
			assert.Equal(t, "cand1", n.RecipientID)
			assert.Equal(t, domain.NotificationTypeCvParsed, n.Type)
		})

		got, err := uc.AdvanceParse(context.Background(), result.ID, domain.ParseStatusCompleted, &domain.ParsedCv{
			Headline: "Go Developer",
			Skills:   []string{"Go", "PostgreSQL"},
		}, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.ParseStatusCompleted, got.Status)
		assert.Equal(t, "Go Developer", got.Parsed.Headline)
		notifRepo.AssertExpectations(t)
	})

	t.Run("Should record the failure reason without notifying", func(t *testing.T) {
		result := domain.NewCvParseResult("cand1", "s3://b/cv.pdf")
		assert.NoError(t, result.Start())
		parseRepo, notifRepo, uc := setup(result)
		parseRepo.On("Update", mock.Anything, result).Return(nil)

		reason := "unreadable file"
		got, err := uc.AdvanceParse(context.Background(), result.ID, domain.ParseStatusFailed, nil, &reason)
		assert.NoError(t, err)
		assert.Equal(t, domain.ParseStatusFailed, got.Status)
		assert.Equal(t, reason, *got.FailureReason)
		notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestApplyToProfile(t *testing.T) {
	completedParse := func(candidateID string) *domain.CvParseResult {
		result := domain.NewCvParseResult(candidateID, "s3://b/cv.pdf")
		if err := result.Start(); err != nil {
			panic(err)
		}
		if err := result.Complete(&domain.ParsedCv{
			Headline:        "Go Developer",
			Summary:         "Backend engineer",
			Skills:          []string{"Go", "Redis"},
			YearsExperience: 4,
		}); err != nil {
			panic(err)
		}
		return result
	}

	setup := func(result *domain.CvParseResult, profile *domain.CandidateProfile) (domain.CvParseUsecase, *MockProfileRepo) {
		parseRepo := new(MockCvParseRepo)
		parseRepo.On("GetByID", mock.Anything, result.ID).Return(result, nil)
		parseRepo.On("Update", mock.Anything, result).Return(nil)
		profileRepo := new(MockProfileRepo)
		if profile != nil {
			profileRepo.On("GetByUserID", mock.Anything, profile.UserID).Return(profile, nil)
			profileRepo.On("Update", mock.Anything, profile).Return(nil)
		}
		embeddingRepo := new(MockEmbeddingRepo)
		embeddingRepo.On("MarkStaleBySubject", mock.Anything, domain.EmbeddingSubjectProfile, mock.Anything).Return(nil)
		uow := &fakeUOW{repos: domain.RepoSet{CvParses: parseRepo, Profiles: profileRepo, Embeddings: embeddingRepo}}
		return usecase.NewCvParseUsecase(parseRepo, uow, &stubBlob{}), profileRepo
	}

	t.Run("Should refuse applying an incomplete parse", func(t *testing.T) {
		result := domain.NewCvParseResult("cand1", "s3://b/cv.pdf")
		uc, _ := setup(result, nil)

		_, err := uc.ApplyToProfile(context.Background(), "cand1", result.ID)
		assert.Equal(t, apperror.CodeInvalidTransition, appCode(t, err))
	})

	t.Run("Should refuse applying the same parse twice", func(t *testing.T) {
		result := completedParse("cand1")
		profile := domain.NewCandidateProfile("cand1", "")
		uc, _ := setup(result, profile)

		_, err := uc.ApplyToProfile(context.Background(), "cand1", result.ID)
		assert.NoError(t, err)

		_, err = uc.ApplyToProfile(context.Background(), "cand1", result.ID)
		assert.Equal(t, apperror.CodeInvalidTransition, appCode(t, err))
	})

	t.Run("Should fill gaps without overwriting existing profile fields", func(t *testing.T) {
		result := completedParse("cand1")
		profile := domain.NewCandidateProfile("cand1", "Senior Engineer")
		profile.Skills = []string{"Go", "Kafka"}
		uc, _ := setup(result, profile)

		got, err := uc.ApplyToProfile(context.Background(), "cand1", result.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Senior Engineer", got.Headline)
		assert.Equal(t, []string{"Go", "Kafka", "Redis"}, got.Skills)
		assert.Equal(t, 4, got.YearsExperience)
		if assert.NotNil(t, got.ResumeURL) {
			assert.Equal(t, "s3://b/cv.pdf", *got.ResumeURL)
		}
		assert.NotNil(t, result.AppliedAt)
	})
}
