package postgres

import (
	"context"
	"time"

	"go-jobboard-backend/internal/domain"
)

type notificationRepo struct {
	db Querier
}

// NewNotificationRepository creates a notification repository
func NewNotificationRepository(db Querier) domain.NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, type, title, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		n.ID, n.RecipientID, n.Type, n.Title, n.Body, n.IsRead, n.CreatedAt,
	)
	return mapError(err)
}

func (r *notificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	query := `
		SELECT id, recipient_id, type, title, body, is_read, read_at, created_at
		FROM notifications WHERE id = $1`

	var n domain.Notification
	err := r.db.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Body, &n.IsRead, &n.ReadAt, &n.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &n, nil
}

func (r *notificationRepo) Update(ctx context.Context, n *domain.Notification) error {
	query := `UPDATE notifications SET is_read = $2, read_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, n.ID, n.IsRead, n.ReadAt)
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepo) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]domain.Notification, int64, error) {
	where := `recipient_id = $1`
	if unreadOnly {
		where += ` AND is_read = FALSE`
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM notifications WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, recipientID).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := `
		SELECT id, recipient_id, type, title, body, is_read, read_at, created_at
		FROM notifications
		WHERE ` + where + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Body, &n.IsRead, &n.ReadAt, &n.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n)
	}
	return notifications, total, rows.Err()
}

func (r *notificationRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`
	var count int64
	err := r.db.QueryRow(ctx, query, recipientID).Scan(&count)
	return count, mapError(err)
}

// MarkAllRead only touches unread rows, so already-read notifications
// keep their original read_at.
func (r *notificationRepo) MarkAllRead(ctx context.Context, recipientID string) error {
	query := `
		UPDATE notifications SET is_read = TRUE, read_at = $2
		WHERE recipient_id = $1 AND is_read = FALSE`
	_, err := r.db.Exec(ctx, query, recipientID, time.Now())
	return mapError(err)
}
