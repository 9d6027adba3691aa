package enhance

import (
	"context"
	"fmt"
	"strings"

	"go-jobboard-backend/internal/domain"
)

// RuleEnhancer produces profile improvement suggestions from a fixed
// rule set. It stands in for a model-backed service behind the same
// interface.
type RuleEnhancer struct{}

func NewRuleEnhancer() *RuleEnhancer {
	return &RuleEnhancer{}
}

func (e *RuleEnhancer) Enhance(_ context.Context, profile *domain.CandidateProfile) (string, error) {
	var suggestions []string

	if len(profile.Headline) < 20 {
		suggestions = append(suggestions, "Expand your headline with your specialty and seniority, for example \"Backend Engineer, 5y Go and PostgreSQL\".")
	}
	if profile.Bio == nil || len(*profile.Bio) < 100 {
		suggestions = append(suggestions, "Add a summary of 2-3 sentences covering your strongest projects and the impact they had.")
	}
	if len(profile.Skills) < 5 {
		suggestions = append(suggestions, fmt.Sprintf("You list %d skills. Profiles with 5 or more specific skills rank higher in employer matching.", len(profile.Skills)))
	}
	if profile.Location == nil {
		suggestions = append(suggestions, "Add a location so postings in your area rank higher for you.")
	}
	if profile.YearsExperience == 0 {
		suggestions = append(suggestions, "Set your years of experience; it is a common employer filter.")
	}

	if len(suggestions) == 0 {
		return "Your profile covers all the fields employers search on. Keep skills current as you take on new work.", nil
	}
	return strings.Join(suggestions, "\n"), nil
}
