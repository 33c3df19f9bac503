package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type AvailabilityRepo struct {
	db *pgxpool.Pool
}

func NewAvailabilityRepository(db *pgxpool.Pool) *AvailabilityRepo {
	return &AvailabilityRepo{
		db: db,
	}
}

func (r *AvailabilityRepo) CreateRule(ctx context.Context, professionalID int64, dto domain.CreateAvailabilityRuleDTO) (int64, error) {
	query := `
		INSERT INTO availability_rules (professional_id, weekday, start_time, end_time, slot_duration_min, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		professionalID,
		dto.Weekday,
		dto.StartTime,
		dto.EndTime,
		dto.SlotDurationMin,
		time.Now(),
	).Scan(&id)

	if err != nil {
		return 0, storeErr("ошибка создания правила доступности", err)
	}

	return id, nil
}

func (r *AvailabilityRepo) GetRuleByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error) {
	query := `
		SELECT id, professional_id, weekday, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), slot_duration_min, created_at, updated_at
		FROM availability_rules
		WHERE id = $1 AND deleted_at IS NULL
	`

	var rule domain.AvailabilityRule
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rule.ID,
		&rule.ProfessionalID,
		&rule.Weekday,
		&rule.StartTime,
		&rule.EndTime,
		&rule.SlotDurationMin,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)

	if err != nil {
		return nil, storeErr("ошибка получения правила доступности", err)
	}

	return &rule, nil
}

func (r *AvailabilityRepo) UpdateRule(ctx context.Context, id int64, dto domain.UpdateAvailabilityRuleDTO) error {
	var updateFields []string
	var args []interface{}

	argCount := 1

	if dto.Weekday != nil {
		updateFields = append(updateFields, fmt.Sprintf("weekday = $%d", argCount))
		args = append(args, *dto.Weekday)
		argCount++
	}

	if dto.StartTime != nil {
		updateFields = append(updateFields, fmt.Sprintf("start_time = $%d", argCount))
		args = append(args, *dto.StartTime)
		argCount++
	}

	if dto.EndTime != nil {
		updateFields = append(updateFields, fmt.Sprintf("end_time = $%d", argCount))
		args = append(args, *dto.EndTime)
		argCount++
	}

	if dto.SlotDurationMin != nil {
		updateFields = append(updateFields, fmt.Sprintf("slot_duration_min = $%d", argCount))
		args = append(args, *dto.SlotDurationMin)
		argCount++
	}

	if len(updateFields) == 0 {
		return nil
	}

	updateFields = append(updateFields, fmt.Sprintf("updated_at = $%d", argCount))
	args = append(args, time.Now())
	argCount++

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE availability_rules
		SET %s
		WHERE id = $%d AND deleted_at IS NULL
	`, strings.Join(updateFields, ", "), argCount)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return storeErr("ошибка обновления правила доступности", err)
	}

	return nil
}

func (r *AvailabilityRepo) DeleteRule(ctx context.Context, id int64) error {
	query := `
		UPDATE availability_rules
		SET deleted_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`

	_, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return storeErr("ошибка удаления правила доступности", err)
	}

	return nil
}

func (r *AvailabilityRepo) ListRules(ctx context.Context, professionalID int64) ([]domain.AvailabilityRule, error) {
	query := `
		SELECT id, professional_id, weekday, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), slot_duration_min, created_at, updated_at
		FROM availability_rules
		WHERE professional_id = $1 AND deleted_at IS NULL
		ORDER BY weekday, start_time
	`

	return r.listRules(ctx, query, professionalID)
}

func (r *AvailabilityRepo) ListRulesByWeekday(ctx context.Context, professionalID int64, weekday int) ([]domain.AvailabilityRule, error) {
	query := `
		SELECT id, professional_id, weekday, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), slot_duration_min, created_at, updated_at
		FROM availability_rules
		WHERE professional_id = $1 AND weekday = $2 AND deleted_at IS NULL
		ORDER BY start_time
	`

	return r.listRules(ctx, query, professionalID, weekday)
}

func (r *AvailabilityRepo) listRules(ctx context.Context, query string, args ...interface{}) ([]domain.AvailabilityRule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("ошибка получения правил доступности", err)
	}
	defer rows.Close()

	rules := make([]domain.AvailabilityRule, 0)
	for rows.Next() {
		var rule domain.AvailabilityRule
		if err := rows.Scan(
			&rule.ID,
			&rule.ProfessionalID,
			&rule.Weekday,
			&rule.StartTime,
			&rule.EndTime,
			&rule.SlotDurationMin,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, storeErr("ошибка сканирования правила доступности", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("ошибка при итерации по строкам", err)
	}

	return rules, nil
}

func (r *AvailabilityRepo) CreateBlackout(ctx context.Context, professionalID int64, dto domain.CreateBlackoutDTO) (int64, error) {
	query := `
		INSERT INTO blackout_periods (professional_id, start_at, end_at, reason, created_at, updated_at)
		VALUES ($1, $2, $3, COALESCE($4, ''), $5, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		professionalID,
		dto.StartAt,
		dto.EndAt,
		dto.Reason,
		time.Now(),
	).Scan(&id)

	if err != nil {
		return 0, storeErr("ошибка создания блокировки агенды", err)
	}

	return id, nil
}

func (r *AvailabilityRepo) GetBlackoutByID(ctx context.Context, id int64) (*domain.BlackoutPeriod, error) {
	query := `
		SELECT id, professional_id, start_at, end_at, reason, created_at, updated_at
		FROM blackout_periods
		WHERE id = $1 AND deleted_at IS NULL
	`

	var b domain.BlackoutPeriod
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.ProfessionalID,
		&b.StartAt,
		&b.EndAt,
		&b.Reason,
		&b.CreatedAt,
		&b.UpdatedAt,
	)

	if err != nil {
		return nil, storeErr("ошибка получения блокировки", err)
	}

	return &b, nil
}

func (r *AvailabilityRepo) DeleteBlackout(ctx context.Context, id int64) error {
	query := `
		UPDATE blackout_periods
		SET deleted_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`

	_, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return storeErr("ошибка удаления блокировки", err)
	}

	return nil
}

func (r *AvailabilityRepo) ListBlackouts(ctx context.Context, professionalID int64) ([]domain.BlackoutPeriod, error) {
	query := `
		SELECT id, professional_id, start_at, end_at, reason, created_at, updated_at
		FROM blackout_periods
		WHERE professional_id = $1 AND deleted_at IS NULL
		ORDER BY start_at
	`

	return r.listBlackouts(ctx, query, professionalID)
}

func (r *AvailabilityRepo) ListBlackoutsInRange(ctx context.Context, professionalID int64, from, to time.Time) ([]domain.BlackoutPeriod, error) {
	query := `
		SELECT id, professional_id, start_at, end_at, reason, created_at, updated_at
		FROM blackout_periods
		WHERE professional_id = $1
		AND deleted_at IS NULL
		AND end_at > $2
		AND start_at < $3
		ORDER BY start_at
	`

	return r.listBlackouts(ctx, query, professionalID, from, to)
}

func (r *AvailabilityRepo) listBlackouts(ctx context.Context, query string, args ...interface{}) ([]domain.BlackoutPeriod, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("ошибка получения блокировок", err)
	}
	defer rows.Close()

	blackouts := make([]domain.BlackoutPeriod, 0)
	for rows.Next() {
		var b domain.BlackoutPeriod
		if err := rows.Scan(
			&b.ID,
			&b.ProfessionalID,
			&b.StartAt,
			&b.EndAt,
			&b.Reason,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			return nil, storeErr("ошибка сканирования блокировки", err)
		}
		blackouts = append(blackouts, b)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("ошибка при итерации по строкам", err)
	}

	return blackouts, nil
}
