package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

// BlobUploader stores binary payloads and returns their storage URL.
// Satisfied by *storage.BlobStore.
type BlobUploader interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

const (
	maxAvatarBytes = 2 << 20 // 2 MiB
	maxAvatarEdge  = 512
)

type profileUsecase struct {
	profileRepo domain.ProfileRepository
	uow         domain.UnitOfWork
	blobs       BlobUploader
}

// NewProfileUsecase creates the candidate profile usecase
func NewProfileUsecase(profileRepo domain.ProfileRepository, uow domain.UnitOfWork, blobs BlobUploader) domain.ProfileUsecase {
	return &profileUsecase{profileRepo: profileRepo, uow: uow, blobs: blobs}
}

// GetProfile returns the profile. Candidates see only their own;
// employers and admins may view any candidate's profile.
func (u *profileUsecase) GetProfile(ctx context.Context, actorID, actorRole, userID string) (*domain.CandidateProfile, error) {
	if actorRole == domain.RoleCandidate && actorID != userID {
		return nil, apperror.Forbidden("You can only view your own profile")
	}

	profile, err := u.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapDomainErr(err, "Profile")
	}
	return profile, nil
}

// UpsertProfile creates or updates the caller's profile. The matching
// embedding goes stale in the same transaction as the profile write.
func (u *profileUsecase) UpsertProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.CandidateProfile, error) {
	var saved *domain.CandidateProfile

	err := u.uow.Do(ctx, func(r domain.RepoSet) error {
		profile, err := r.Profiles.GetByUserID(ctx, userID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			profile = domain.NewCandidateProfile(userID, update.Headline)
			applyProfileUpdate(profile, update)
			if err := r.Profiles.Create(ctx, profile); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			applyProfileUpdate(profile, update)
			profile.Touch()
			if err := r.Profiles.Update(ctx, profile); err != nil {
				return err
			}
		}

		saved = profile
		return r.Embeddings.MarkStaleBySubject(ctx, domain.EmbeddingSubjectProfile, userID)
	})
	if err != nil {
		return nil, mapDomainErr(err, "Profile")
	}
	return saved, nil
}

func applyProfileUpdate(profile *domain.CandidateProfile, update domain.ProfileUpdate) {
	profile.Headline = update.Headline
	profile.Bio = update.Bio
	profile.Skills = update.Skills
	profile.YearsExperience = update.YearsExperience
	profile.Location = update.Location
	if profile.Skills == nil {
		profile.Skills = []string{}
	}
}

// UploadAvatar validates, downscales and stores a profile picture.
func (u *profileUsecase) UploadAvatar(ctx context.Context, userID string, data []byte, contentType string) (*domain.CandidateProfile, error) {
	if len(data) > maxAvatarBytes {
		return nil, apperror.BadRequest("Avatar must be at most 2 MiB")
	}
	if contentType != "image/jpeg" && contentType != "image/png" {
		return nil, apperror.BadRequest("Avatar must be a JPEG or PNG image")
	}

	profile, err := u.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapDomainErr(err, "Profile")
	}

	resized, err := normalizeAvatar(data)
	if err != nil {
		return nil, apperror.BadRequest("Avatar image could not be decoded")
	}

	key := fmt.Sprintf("avatars/%s.jpg", userID)
	url, err := u.blobs.Put(ctx, key, "image/jpeg", resized)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	profile.AvatarURL = &url
	profile.Touch()
	if err := u.profileRepo.Update(ctx, profile); err != nil {
		return nil, mapDomainErr(err, "Profile")
	}
	return profile, nil
}

// normalizeAvatar re-encodes the image as JPEG, downscaling so the
// longest edge is at most maxAvatarEdge.
func normalizeAvatar(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > maxAvatarEdge || height > maxAvatarEdge {
		scale := float64(maxAvatarEdge) / float64(width)
		if height > width {
			scale = float64(maxAvatarEdge) / float64(height)
		}
		newWidth := int(float64(width) * scale)
		newHeight := int(float64(height) * scale)

		resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		img = resized
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
