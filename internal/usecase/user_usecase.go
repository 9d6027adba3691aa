package usecase

import (
	"context"
	"errors"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
)

type userAdminUsecase struct {
	userRepo domain.UserRepository
	uow      domain.UnitOfWork
	revoker  domain.SessionRevoker
}

// NewUserAdminUsecase creates the admin account-management usecase
func NewUserAdminUsecase(userRepo domain.UserRepository, uow domain.UnitOfWork, revoker domain.SessionRevoker) domain.UserAdminUsecase {
	return &userAdminUsecase{userRepo: userRepo, uow: uow, revoker: revoker}
}

func requireAdmin(role string) error {
	if role != domain.RoleAdmin {
		return apperror.Forbidden("Only admins can manage user accounts")
	}
	return nil
}

func (u *userAdminUsecase) ListUsers(ctx context.Context, actorRole string, filter domain.UserFilter, page, pageSize int) (*domain.PaginatedResult[domain.UserAccount], error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}

	page, pageSize = domain.ClampPage(page, pageSize)
	offset := (page - 1) * pageSize

	users, total, err := u.userRepo.Search(ctx, filter, pageSize, offset)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return domain.NewPaginatedResult(users, total, page, pageSize), nil
}

// SuspendUser blocks the account and revokes every live session. Both
// writes share one transaction: if either fails, neither is visible.
func (u *userAdminUsecase) SuspendUser(ctx context.Context, actorID, actorRole, userID string) (*domain.UserAccount, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}
	if actorID == userID {
		return nil, apperror.DomainRule("Admins cannot suspend their own account")
	}

	var suspended *domain.UserAccount
	var revokedSessions []domain.Session

	err := u.uow.Do(ctx, func(r domain.RepoSet) error {
		user, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := user.Suspend(); err != nil {
			return err
		}
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		revokedSessions, err = r.Sessions.RevokeAllForUser(ctx, userID)
		if err != nil {
			return err
		}
		suspended = user
		return nil
	})
	if err != nil {
		return nil, mapDomainErr(err, "User")
	}

	// Denylist push happens only after the commit; the session rows are
	// already revoked durably if this best-effort step fails.
	for _, s := range revokedSessions {
		if err := u.revoker.Revoke(ctx, s.TokenID, s.ExpiresAt); err != nil {
			logger.Log.Warn("Failed to denylist revoked token", "token_id", s.TokenID, "error", err)
		}
	}
	return suspended, nil
}

func (u *userAdminUsecase) ReinstateUser(ctx context.Context, actorID, actorRole, userID string) (*domain.UserAccount, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapDomainErr(err, "User")
	}
	if err := user.Reinstate(); err != nil {
		return nil, mapDomainErr(err, "User")
	}
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, mapDomainErr(err, "User")
	}
	return user, nil
}

func (u *userAdminUsecase) SoftDeleteUser(ctx context.Context, actorID, actorRole, userID string) (*domain.UserAccount, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}
	if actorID == userID {
		return nil, apperror.DomainRule("Admins cannot delete their own account")
	}

	var deleted *domain.UserAccount
	var revokedSessions []domain.Session

	err := u.uow.Do(ctx, func(r domain.RepoSet) error {
		user, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := user.SoftDelete(); err != nil {
			return err
		}
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		revokedSessions, err = r.Sessions.RevokeAllForUser(ctx, userID)
		if err != nil {
			return err
		}
		deleted = user
		return nil
	})
	if err != nil {
		return nil, mapDomainErr(err, "User")
	}

	for _, s := range revokedSessions {
		if err := u.revoker.Revoke(ctx, s.TokenID, s.ExpiresAt); err != nil {
			logger.Log.Warn("Failed to denylist revoked token", "token_id", s.TokenID, "error", err)
		}
	}
	return deleted, nil
}

// mapDomainErr converts domain-level failures into the HTTP error
// taxonomy. Anything unrecognized is an internal error.
func mapDomainErr(err error, entity string) *apperror.AppError {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var transErr *domain.InvalidTransitionError
	if errors.As(err, &transErr) {
		return apperror.InvalidTransition(transErr.Error())
	}
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(entity + " not found")
	}
	if errors.Is(err, domain.ErrDuplicate) {
		return apperror.Conflict(entity + " already exists")
	}
	return apperror.Internal(err)
}
