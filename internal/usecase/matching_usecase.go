package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
)

type matchingUsecase struct {
	embeddingRepo   domain.EmbeddingRepository
	enhancementRepo domain.EnhancementRepository
	jobRepo         domain.JobRepository
	profileRepo     domain.ProfileRepository
	uow             domain.UnitOfWork
	embedder        domain.Embedder
	enhancer        domain.Enhancer
}

// NewMatchingUsecase creates the matching and enhancement usecase
func NewMatchingUsecase(
	embeddingRepo domain.EmbeddingRepository,
	enhancementRepo domain.EnhancementRepository,
	jobRepo domain.JobRepository,
	profileRepo domain.ProfileRepository,
	uow domain.UnitOfWork,
	embedder domain.Embedder,
	enhancer domain.Enhancer,
) domain.MatchingUsecase {
	return &matchingUsecase{
		embeddingRepo:   embeddingRepo,
		enhancementRepo: enhancementRepo,
		jobRepo:         jobRepo,
		profileRepo:     profileRepo,
		uow:             uow,
		embedder:        embedder,
		enhancer:        enhancer,
	}
}

// MatchesForJob ranks candidate profiles against a job posting. Only
// the posting's owner or an admin may see the ranking.
func (u *matchingUsecase) MatchesForJob(ctx context.Context, actorID, actorRole, jobID string, page, pageSize int) (*domain.PaginatedResult[domain.Match], error) {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, mapDomainErr(err, "Job")
	}
	if job.EmployerID != actorID && actorRole != domain.RoleAdmin {
		return nil, apperror.Forbidden("You can only view matches for your own job postings")
	}

	source, err := u.readyEmbedding(ctx, domain.EmbeddingSubjectJob, jobID)
	if err != nil {
		return nil, err
	}
	return u.rankAgainst(ctx, source, domain.EmbeddingSubjectProfile, page, pageSize)
}

// MatchesForCandidate ranks active job postings against the caller's
// profile embedding.
func (u *matchingUsecase) MatchesForCandidate(ctx context.Context, candidateID string, page, pageSize int) (*domain.PaginatedResult[domain.Match], error) {
	source, err := u.readyEmbedding(ctx, domain.EmbeddingSubjectProfile, candidateID)
	if err != nil {
		return nil, err
	}
	return u.rankAgainst(ctx, source, domain.EmbeddingSubjectJob, page, pageSize)
}

func (u *matchingUsecase) readyEmbedding(ctx context.Context, subject domain.EmbeddingSubject, subjectID string) (*domain.EmbeddingRecord, error) {
	record, err := u.embeddingRepo.GetBySubject(ctx, subject, subjectID)
	if errors.Is(err, domain.ErrNotFound) {
		// Lazily compute on first request.
		return u.RefreshEmbedding(ctx, subject, subjectID)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if record.Status != domain.EmbeddingStatusReady {
		return u.RefreshEmbedding(ctx, subject, subjectID)
	}
	return record, nil
}

// rankAgainst scores every ready embedding of the target kind by cosine
// similarity, best first. The candidate set is in memory, so paging is
// applied after the sort.
func (u *matchingUsecase) rankAgainst(ctx context.Context, source *domain.EmbeddingRecord, target domain.EmbeddingSubject, page, pageSize int) (*domain.PaginatedResult[domain.Match], error) {
	page, pageSize = domain.ClampPage(page, pageSize)

	records, err := u.embeddingRepo.ListReady(ctx, target)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	matches := make([]domain.Match, 0, len(records))
	for _, rec := range records {
		if rec.SubjectID == source.SubjectID {
			continue
		}
		matches = append(matches, domain.Match{
			SubjectID: rec.SubjectID,
			Score:     cosineSimilarity(source.Vector, rec.Vector),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	total := int64(len(matches))
	start := (page - 1) * pageSize
	if start > len(matches) {
		start = len(matches)
	}
	end := start + pageSize
	if end > len(matches) {
		end = len(matches)
	}
	return domain.NewPaginatedResult(matches[start:end], total, page, pageSize), nil
}

// cosineSimilarity is zero for mismatched or zero-length vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RefreshEmbedding recomputes the vector for a profile or job and marks
// the record Ready. Pending and stale records both end up Ready.
func (u *matchingUsecase) RefreshEmbedding(ctx context.Context, subject domain.EmbeddingSubject, subjectID string) (*domain.EmbeddingRecord, error) {
	text, err := u.embeddingText(ctx, subject, subjectID)
	if err != nil {
		return nil, err
	}

	vector, err := u.embedder.Embed(ctx, text)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("embed %s %s: %w", subject, subjectID, err))
	}

	record, err := u.embeddingRepo.GetBySubject(ctx, subject, subjectID)
	if errors.Is(err, domain.ErrNotFound) {
		record = domain.NewEmbeddingRecord(subject, subjectID)
	} else if err != nil {
		return nil, apperror.Internal(err)
	}

	if err := record.SetVector(vector); err != nil {
		return nil, mapDomainErr(err, "Embedding")
	}
	if err := u.embeddingRepo.Upsert(ctx, record); err != nil {
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("embedding refreshed", "subject", subject, "subject_id", subjectID, "dims", len(vector))
	return record, nil
}

// embeddingText flattens the subject into the text handed to the
// embedder.
func (u *matchingUsecase) embeddingText(ctx context.Context, subject domain.EmbeddingSubject, subjectID string) (string, error) {
	switch subject {
	case domain.EmbeddingSubjectJob:
		job, err := u.jobRepo.GetByID(ctx, subjectID)
		if err != nil {
			return "", mapDomainErr(err, "Job")
		}
		parts := []string{job.Title, job.Description, job.Location}
		if job.EmploymentType != nil {
			parts = append(parts, *job.EmploymentType)
		}
		if job.ExperienceLevel != nil {
			parts = append(parts, *job.ExperienceLevel)
		}
		return strings.Join(parts, "\n"), nil
	case domain.EmbeddingSubjectProfile:
		profile, err := u.profileRepo.GetByUserID(ctx, subjectID)
		if err != nil {
			return "", mapDomainErr(err, "Profile")
		}
		parts := []string{profile.Headline, strings.Join(profile.Skills, ", ")}
		if profile.Bio != nil {
			parts = append(parts, *profile.Bio)
		}
		if profile.Location != nil {
			parts = append(parts, *profile.Location)
		}
		return strings.Join(parts, "\n"), nil
	default:
		return "", apperror.BadRequest(fmt.Sprintf("Unknown embedding subject '%s'", subject))
	}
}

// RequestEnhancement registers a pending enhancement for the external
// worker. The profile must exist so the worker has something to read.
func (u *matchingUsecase) RequestEnhancement(ctx context.Context, candidateID string) (*domain.EnhancementResult, error) {
	if _, err := u.profileRepo.GetByUserID(ctx, candidateID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.DomainRule("Create a profile before requesting an enhancement")
		}
		return nil, apperror.Internal(err)
	}

	result := domain.NewEnhancementResult(candidateID)
	if err := u.enhancementRepo.Create(ctx, result); err != nil {
		return nil, mapDomainErr(err, "Enhancement")
	}
	return result, nil
}

func (u *matchingUsecase) GetEnhancement(ctx context.Context, candidateID, id string) (*domain.EnhancementResult, error) {
	result, err := u.enhancementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapDomainErr(err, "Enhancement")
	}
	if result.CandidateID != candidateID {
		return nil, apperror.Forbidden("You can only view your own enhancements")
	}
	return result, nil
}

// AdvanceEnhancement is the worker callback. Moving to Processing runs
// the enhancer synchronously when one is wired, so a single callback
// can carry the request from Pending to Completed.
func (u *matchingUsecase) AdvanceEnhancement(ctx context.Context, id string, to domain.ParseStatus, suggestions, failureReason *string) (*domain.EnhancementResult, error) {
	var result *domain.EnhancementResult

	err := u.uow.Do(ctx, func(r domain.RepoSet) error {
		var err error
		result, err = r.Enhancements.GetByID(ctx, id)
		if err != nil {
			return err
		}

		switch to {
		case domain.ParseStatusProcessing:
			if err = result.Start(); err != nil {
				return err
			}
			if u.enhancer != nil {
				err = u.runEnhancer(ctx, r, result)
			}
		case domain.ParseStatusCompleted:
			if suggestions == nil {
				return apperror.BadRequest("Completed enhancement requires suggestions")
			}
			err = result.Complete(*suggestions)
		case domain.ParseStatusFailed:
			reason := "enhancement failed"
			if failureReason != nil {
				reason = *failureReason
			}
			err = result.Fail(reason)
		default:
			return apperror.BadRequest(fmt.Sprintf("Cannot advance an enhancement to '%s'", to))
		}
		if err != nil {
			return err
		}

		if err := r.Enhancements.Update(ctx, result); err != nil {
			return err
		}

		if result.Status == domain.ParseStatusCompleted {
			n := domain.NewNotification(result.CandidateID, domain.NotificationTypeEnhancementReady,
				"Profile suggestions are ready",
				"Your AI profile enhancement has finished. Open it to review the suggestions.")
			return r.Notifications.Create(ctx, n)
		}
		return nil
	})
	if err != nil {
		return nil, mapDomainErr(err, "Enhancement")
	}
	return result, nil
}

// runEnhancer drives a just-started enhancement to its outcome using
// the wired collaborator. Enhancer failures land in Failed rather than
// aborting the transaction.
func (u *matchingUsecase) runEnhancer(ctx context.Context, r domain.RepoSet, result *domain.EnhancementResult) error {
	profile, err := r.Profiles.GetByUserID(ctx, result.CandidateID)
	if err != nil {
		return err
	}

	text, err := u.enhancer.Enhance(ctx, profile)
	if err != nil {
		logger.Log.Warn("enhancer failed", "enhancement_id", result.ID, "error", err)
		return result.Fail(err.Error())
	}
	return result.Complete(text)
}
