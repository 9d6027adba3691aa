package domain

import "context"

// RepoSet bundles the repositories that may take part in one unit of
// work.
type RepoSet struct {
	Users         UserRepository
	Sessions      SessionRepository
	Jobs          JobRepository
	Applications  ApplicationRepository
	Notifications NotificationRepository
	CvParses      CvParseRepository
	Profiles      ProfileRepository
	Embeddings    EmbeddingRepository
	Enhancements  EnhancementRepository
}

// UnitOfWork runs fn against transaction-scoped repositories. Either
// every write inside fn commits, or none do; side effects written
// through the RepoSet are never observable if the commit fails.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r RepoSet) error) error
}
