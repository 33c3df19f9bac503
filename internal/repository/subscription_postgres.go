package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type SubscriptionRepo struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepo {
	return &SubscriptionRepo{
		db: db,
	}
}

func (r *SubscriptionRepo) Create(ctx context.Context, professionalID int64, start, end time.Time) (int64, error) {
	query := `
		INSERT INTO subscriptions (professional_id, status, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		professionalID,
		domain.SubscriptionStatusActive,
		start,
		end,
		time.Now(),
	).Scan(&id)

	if err != nil {
		return 0, storeErr("ошибка создания подписки", err)
	}

	return id, nil
}

func (r *SubscriptionRepo) HasActive(ctx context.Context, professionalID int64, on time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM subscriptions
			WHERE professional_id = $1
			AND status = $2
			AND start_date <= $3
			AND end_date >= $3
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, professionalID, domain.SubscriptionStatusActive, on).Scan(&exists)
	if err != nil {
		return false, storeErr("ошибка проверки подписки", err)
	}

	return exists, nil
}

func (r *SubscriptionRepo) ListByProfessional(ctx context.Context, professionalID int64) ([]domain.Subscription, error) {
	query := `
		SELECT id, professional_id, status, start_date, end_date, created_at, updated_at
		FROM subscriptions
		WHERE professional_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, professionalID)
	if err != nil {
		return nil, storeErr("ошибка получения подписок", err)
	}
	defer rows.Close()

	subscriptions := make([]domain.Subscription, 0)
	for rows.Next() {
		var s domain.Subscription
		if err := rows.Scan(
			&s.ID,
			&s.ProfessionalID,
			&s.Status,
			&s.StartDate,
			&s.EndDate,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, storeErr("ошибка сканирования подписки", err)
		}
		subscriptions = append(subscriptions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("ошибка при итерации по строкам", err)
	}

	return subscriptions, nil
}
