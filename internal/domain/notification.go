package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeApplicationStatus NotificationType = "application_status"
	NotificationTypeCvParsed          NotificationType = "cv_parsed"
	NotificationTypeEnhancementReady  NotificationType = "enhancement_ready"
	NotificationTypeSystem            NotificationType = "system"
)

// Notification is delivered to exactly one recipient. Read state is
// one-way: once read it stays read, and ReadAt keeps its first value.
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Body        string           `json:"body"`
	IsRead      bool             `json:"is_read"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

func NewNotification(recipientID string, nType NotificationType, title, body string) *Notification {
	return &Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Type:        nType,
		Title:       title,
		Body:        body,
		CreatedAt:   time.Now(),
	}
}

// MarkAsRead is idempotent: repeated calls leave ReadAt at its
// first-set value.
func (n *Notification) MarkAsRead() {
	if n.IsRead {
		return
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	Update(ctx context.Context, n *Notification) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]Notification, int64, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	MarkAllRead(ctx context.Context, recipientID string) error
}

type NotificationUsecase interface {
	List(ctx context.Context, recipientID string, unreadOnly bool, page, pageSize int) (*PaginatedResult[Notification], error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkAsRead(ctx context.Context, recipientID, notificationID string) (*Notification, error)
	MarkAllAsRead(ctx context.Context, recipientID string) error
}
