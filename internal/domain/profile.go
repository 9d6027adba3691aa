package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CandidateProfile holds the candidate-facing profile. Free-form fields
// are bounded at the boundary (validator tags on the request structs),
// not by the entity.
type CandidateProfile struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Headline        string    `json:"headline"`
	Bio             *string   `json:"bio,omitempty"`
	Skills          []string  `json:"skills"`
	YearsExperience int       `json:"years_experience"`
	Location        *string   `json:"location,omitempty"`
	ResumeURL       *string   `json:"resume_url,omitempty"`
	AvatarURL       *string   `json:"avatar_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewCandidateProfile(userID, headline string) *CandidateProfile {
	now := time.Now()
	return &CandidateProfile{
		ID:        uuid.NewString(),
		UserID:    userID,
		Headline:  headline,
		Skills:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch stamps UpdatedAt after a field mutation.
func (p *CandidateProfile) Touch() {
	p.UpdatedAt = time.Now()
}

// MergeParsed folds fields extracted from a parsed CV into the profile.
// Existing values win; the parse only fills gaps, except skills which
// are unioned.
func (p *CandidateProfile) MergeParsed(parsed *ParsedCv) {
	if p.Headline == "" && parsed.Headline != "" {
		p.Headline = parsed.Headline
	}
	if p.Bio == nil && parsed.Summary != "" {
		summary := parsed.Summary
		p.Bio = &summary
	}
	if p.YearsExperience == 0 {
		p.YearsExperience = parsed.YearsExperience
	}
	seen := make(map[string]bool, len(p.Skills))
	for _, s := range p.Skills {
		seen[s] = true
	}
	for _, s := range parsed.Skills {
		if !seen[s] {
			p.Skills = append(p.Skills, s)
			seen[s] = true
		}
	}
	p.Touch()
}

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	Headline        string
	Bio             *string
	Skills          []string
	YearsExperience int
	Location        *string
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *CandidateProfile) error
	GetByUserID(ctx context.Context, userID string) (*CandidateProfile, error)
	Update(ctx context.Context, profile *CandidateProfile) error
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, actorID, actorRole, userID string) (*CandidateProfile, error)
	UpsertProfile(ctx context.Context, userID string, update ProfileUpdate) (*CandidateProfile, error)
	UploadAvatar(ctx context.Context, userID string, data []byte, contentType string) (*CandidateProfile, error)
}
