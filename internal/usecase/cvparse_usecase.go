package usecase

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
)

const maxCvBytes = 5 << 20 // 5 MiB

// pdfMagic is the header every PDF starts with. Content-Type alone is
// client-controlled, so the payload is sniffed too.
var pdfMagic = []byte("%PDF-")

type cvParseUsecase struct {
	parseRepo domain.CvParseRepository
	uow       domain.UnitOfWork
	blobs     BlobUploader
}

// NewCvParseUsecase creates the CV upload and parsing usecase
func NewCvParseUsecase(parseRepo domain.CvParseRepository, uow domain.UnitOfWork, blobs BlobUploader) domain.CvParseUsecase {
	return &cvParseUsecase{parseRepo: parseRepo, uow: uow, blobs: blobs}
}

// UploadCv stores the raw PDF and registers a pending parse for the
// external worker to pick up.
func (u *cvParseUsecase) UploadCv(ctx context.Context, candidateID string, data []byte, contentType string) (*domain.CvParseResult, error) {
	// Step 1: Validate the payload
	if len(data) == 0 {
		return nil, apperror.BadRequest("CV file is empty")
	}
	if len(data) > maxCvBytes {
		return nil, apperror.BadRequest("CV must be at most 5 MiB")
	}
	if contentType != "application/pdf" || !bytes.HasPrefix(data, pdfMagic) {
		return nil, apperror.BadRequest("CV must be a PDF document")
	}

	// Step 2: Store the file
	key := fmt.Sprintf("cvs/%s/%d.pdf", candidateID, time.Now().UnixNano())
	url, err := u.blobs.Put(ctx, key, "application/pdf", data)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// Step 3: Register the parse job
	result := domain.NewCvParseResult(candidateID, url)
	if err := u.parseRepo.Create(ctx, result); err != nil {
		return nil, mapDomainErr(err, "CV parse")
	}

	logger.Log.Info("cv uploaded", "parse_id", result.ID, "candidate_id", candidateID, "size", len(data))
	return result, nil
}

// GetParseResult returns one parse. Candidates see only their own;
// admins may inspect any.
func (u *cvParseUsecase) GetParseResult(ctx context.Context, actorID, actorRole, id string) (*domain.CvParseResult, error) {
	result, err := u.parseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapDomainErr(err, "CV parse")
	}
	if result.CandidateID != actorID && actorRole != domain.RoleAdmin {
		return nil, apperror.Forbidden("You can only view your own CV parses")
	}
	return result, nil
}

func (u *cvParseUsecase) ListMyParses(ctx context.Context, candidateID string, page, pageSize int) (*domain.PaginatedResult[domain.CvParseResult], error) {
	page, pageSize = domain.ClampPage(page, pageSize)
	offset := (page - 1) * pageSize

	items, total, err := u.parseRepo.ListByCandidate(ctx, candidateID, pageSize, offset)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return domain.NewPaginatedResult(items, total, page, pageSize), nil
}

// ApplyToProfile folds a completed parse into the candidate's profile.
// The applied marker, the profile write and the embedding invalidation
// commit together.
func (u *cvParseUsecase) ApplyToProfile(ctx context.Context, candidateID, parseID string) (*domain.CandidateProfile, error) {
	var profile *domain.CandidateProfile

	err := u.uow.Do(ctx, func(r domain.RepoSet) error {
		result, err := r.CvParses.GetByID(ctx, parseID)
		if err != nil {
			return err
		}
		if result.CandidateID != candidateID {
			return apperror.Forbidden("You can only apply your own CV parses")
		}
		if err := result.MarkApplied(); err != nil {
			return err
		}
		if err := r.CvParses.Update(ctx, result); err != nil {
			return err
		}

		profile, err = r.Profiles.GetByUserID(ctx, candidateID)
		if err != nil {
			return err
		}
		profile.MergeParsed(result.Parsed)
		// The applied CV becomes the profile's current resume.
		fileURL := result.FileURL
		profile.ResumeURL = &fileURL
		if err := r.Profiles.Update(ctx, profile); err != nil {
			return err
		}
		return r.Embeddings.MarkStaleBySubject(ctx, domain.EmbeddingSubjectProfile, candidateID)
	})
	if err != nil {
		return nil, mapDomainErr(err, "CV parse")
	}
	return profile, nil
}

// AdvanceParse is the worker callback. Completion also drops a
// notification for the candidate in the same transaction.
func (u *cvParseUsecase) AdvanceParse(ctx context.Context, parseID string, to domain.ParseStatus, parsed *domain.ParsedCv, failureReason *string) (*domain.CvParseResult, error) {
	var result *domain.CvParseResult

	err := u.uow.Do(ctx, func(r domain.RepoSet) error {
		var err error
		result, err = r.CvParses.GetByID(ctx, parseID)
		if err != nil {
			return err
		}

		switch to {
		case domain.ParseStatusProcessing:
			err = result.Start()
		case domain.ParseStatusCompleted:
			if parsed == nil {
				return apperror.BadRequest("Completed parse requires a parsed payload")
			}
			err = result.Complete(parsed)
		case domain.ParseStatusFailed:
			reason := "parse failed"
			if failureReason != nil {
				reason = *failureReason
			}
			err = result.Fail(reason)
		default:
			return apperror.BadRequest(fmt.Sprintf("Cannot advance a parse to '%s'", to))
		}
		if err != nil {
			return err
		}

		if err := r.CvParses.Update(ctx, result); err != nil {
			return err
		}

		if result.Status == domain.ParseStatusCompleted {
			n := domain.NewNotification(result.CandidateID, domain.NotificationTypeCvParsed,
				"Your CV has been parsed",
				"The extracted details are ready to review and apply to your profile.")
			return r.Notifications.Create(ctx, n)
		}
		return nil
	})
	if err != nil {
		return nil, mapDomainErr(err, "CV parse")
	}
	return result, nil
}
