package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type EventRepo struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepo {
	return &EventRepo{
		db: db,
	}
}

func (r *EventRepo) Create(ctx context.Context, event domain.SystemEventType, professionalID int64, entityID *int64) error {
	query := `
		INSERT INTO system_events (event, professional_id, entity_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, event, professionalID, entityID, time.Now())
	if err != nil {
		return storeErr("ошибка записи события", err)
	}

	return nil
}

func (r *EventRepo) CountByProfessional(ctx context.Context, professionalID int64) (map[domain.SystemEventType]int, error) {
	query := `
		SELECT event, COUNT(*)
		FROM system_events
		WHERE professional_id = $1
		GROUP BY event
	`

	rows, err := r.db.Query(ctx, query, professionalID)
	if err != nil {
		return nil, storeErr("ошибка подсчета событий", err)
	}
	defer rows.Close()

	counts := make(map[domain.SystemEventType]int)
	for rows.Next() {
		var event domain.SystemEventType
		var count int
		if err := rows.Scan(&event, &count); err != nil {
			return nil, storeErr("ошибка сканирования события", err)
		}
		counts[event] = count
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("ошибка при итерации по строкам", err)
	}

	return counts, nil
}

func (r *EventRepo) ListByProfessional(ctx context.Context, professionalID int64, limit int) ([]domain.SystemEvent, error) {
	query := `
		SELECT id, event, professional_id, entity_id, created_at
		FROM system_events
		WHERE professional_id = $1
		ORDER BY created_at DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.Query(ctx, query, professionalID)
	if err != nil {
		return nil, storeErr("ошибка получения событий", err)
	}
	defer rows.Close()

	events := make([]domain.SystemEvent, 0)
	for rows.Next() {
		var e domain.SystemEvent
		if err := rows.Scan(
			&e.ID,
			&e.Event,
			&e.ProfessionalID,
			&e.EntityID,
			&e.CreatedAt,
		); err != nil {
			return nil, storeErr("ошибка сканирования события", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("ошибка при итерации по строкам", err)
	}

	return events, nil
}
