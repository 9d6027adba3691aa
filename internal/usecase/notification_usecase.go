package usecase

import (
	"context"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type notificationUsecase struct {
	notificationRepo domain.NotificationRepository
}

func NewNotificationUsecase(notificationRepo domain.NotificationRepository) domain.NotificationUsecase {
	return &notificationUsecase{notificationRepo: notificationRepo}
}

func (u *notificationUsecase) List(ctx context.Context, recipientID string, unreadOnly bool, page, pageSize int) (*domain.PaginatedResult[domain.Notification], error) {
	page, pageSize = domain.ClampPage(page, pageSize)
	offset := (page - 1) * pageSize

	notifications, total, err := u.notificationRepo.ListByRecipient(ctx, recipientID, unreadOnly, pageSize, offset)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return domain.NewPaginatedResult(notifications, total, page, pageSize), nil
}

func (u *notificationUsecase) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	count, err := u.notificationRepo.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return count, nil
}

// MarkAsRead is idempotent: marking an already-read notification
// succeeds and keeps its original ReadAt.
func (u *notificationUsecase) MarkAsRead(ctx context.Context, recipientID, notificationID string) (*domain.Notification, error) {
	n, err := u.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, mapDomainErr(err, "Notification")
	}
	if n.RecipientID != recipientID {
		return nil, apperror.Forbidden("This notification belongs to another user")
	}
	if n.IsRead {
		return n, nil
	}

	n.MarkAsRead()
	if err := u.notificationRepo.Update(ctx, n); err != nil {
		return nil, mapDomainErr(err, "Notification")
	}
	return n, nil
}

func (u *notificationUsecase) MarkAllAsRead(ctx context.Context, recipientID string) error {
	if err := u.notificationRepo.MarkAllRead(ctx, recipientID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
