package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type NotificationRepo struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{
		db: db,
	}
}

func (r *NotificationRepo) Create(ctx context.Context, userID int64, t domain.NotificationType, content string) error {
	query := `
		INSERT INTO notifications (user_id, type, content, is_read, created_at)
		VALUES ($1, $2, $3, false, $4)
	`

	_, err := r.db.Exec(ctx, query, userID, t, content, time.Now())
	if err != nil {
		return storeErr("ошибка создания уведомления", err)
	}

	return nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID int64, onlyUnread bool, limit int) ([]domain.Notification, error) {
	query := `
		SELECT id, user_id, type, content, is_read, created_at
		FROM notifications
		WHERE user_id = $1
	`
	if onlyUnread {
		query += " AND is_read = false"
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, storeErr("ошибка получения уведомлений", err)
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Type,
			&n.Content,
			&n.IsRead,
			&n.CreatedAt,
		); err != nil {
			return nil, storeErr("ошибка сканирования уведомления", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("ошибка при итерации по строкам", err)
	}

	return notifications, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	query := `
		UPDATE notifications
		SET is_read = true
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return storeErr("ошибка пометки уведомления прочитанным", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID int64) error {
	query := `
		UPDATE notifications
		SET is_read = true
		WHERE user_id = $1 AND is_read = false
	`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return storeErr("ошибка пометки уведомлений прочитанными", err)
	}

	return nil
}
