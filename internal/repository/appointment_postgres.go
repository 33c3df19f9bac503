package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{
		db: db,
	}
}

// Create вставляет запись со статусом scheduled. Защита от двойного
// бронирования — exclusion-ограничение в БД по (professional_id,
// tstzrange(start_at, end_at)) для неотмененных записей: проверка и вставка
// атомарны, check-then-act на уровне приложения не используется.
func (r *AppointmentRepo) Create(ctx context.Context, patientID int64, dto domain.CreateAppointmentDTO) (*domain.Appointment, error) {
	query := `
		INSERT INTO appointments (professional_id, patient_id, start_at, end_at, status, origin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id, professional_id, patient_id, start_at, end_at, status, origin, created_at, updated_at
	`

	origin := dto.Origin
	if origin == "" {
		origin = domain.AppointmentOriginForm
	}

	var a domain.Appointment
	err := r.db.QueryRow(ctx, query,
		dto.ProfessionalID,
		patientID,
		dto.StartAt,
		dto.EndAt,
		domain.AppointmentStatusScheduled,
		origin,
		time.Now(),
	).Scan(
		&a.ID,
		&a.ProfessionalID,
		&a.PatientID,
		&a.StartAt,
		&a.EndAt,
		&a.Status,
		&a.Origin,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		if isExclusionViolation(err) {
			return nil, fmt.Errorf("интервал [%s, %s): %w",
				dto.StartAt.Format(time.RFC3339), dto.EndAt.Format(time.RFC3339), domain.ErrSlotConflict)
		}
		return nil, storeErr("ошибка создания записи", err)
	}

	return &a, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	query := `
		SELECT a.id, a.professional_id, a.patient_id, a.start_at, a.end_at, a.status, a.origin, a.created_at, a.updated_at,
		       pt.name AS patient_name,
		       pr.name AS professional_name
		FROM appointments a
		JOIN patients pt ON a.patient_id = pt.id
		JOIN professionals pr ON a.professional_id = pr.id
		WHERE a.id = $1 AND a.deleted_at IS NULL
	`

	var a domain.Appointment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.ProfessionalID,
		&a.PatientID,
		&a.StartAt,
		&a.EndAt,
		&a.Status,
		&a.Origin,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.PatientName,
		&a.ProfessionalName,
	)

	if err != nil {
		return nil, storeErr("ошибка получения записи", err)
	}

	return &a, nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return storeErr("ошибка обновления статуса записи", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func appointmentFilterConditions(filter domain.AppointmentFilter, prefix string) ([]string, []interface{}) {
	conditions := []string{prefix + "deleted_at IS NULL"}
	var args []interface{}
	argCount := 1

	if filter.ProfessionalID != nil {
		conditions = append(conditions, fmt.Sprintf("%sprofessional_id = $%d", prefix, argCount))
		args = append(args, *filter.ProfessionalID)
		argCount++
	}

	if filter.PatientID != nil {
		conditions = append(conditions, fmt.Sprintf("%spatient_id = $%d", prefix, argCount))
		args = append(args, *filter.PatientID)
		argCount++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("%sstatus = $%d", prefix, argCount))
		args = append(args, *filter.Status)
		argCount++
	}

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("%send_at > $%d", prefix, argCount))
		args = append(args, *filter.StartDate)
		argCount++
	}

	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("%sstart_at < $%d", prefix, argCount))
		args = append(args, *filter.EndDate)
		argCount++
	}

	return conditions, args
}

func (r *AppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	conditions, args := appointmentFilterConditions(filter, "a.")

	query := fmt.Sprintf(`
		SELECT a.id, a.professional_id, a.patient_id, a.start_at, a.end_at, a.status, a.origin, a.created_at, a.updated_at,
		       pt.name AS patient_name,
		       pr.name AS professional_name
		FROM appointments a
		JOIN patients pt ON a.patient_id = pt.id
		JOIN professionals pr ON a.professional_id = pr.id
		WHERE %s
		ORDER BY a.start_at
	`, strings.Join(conditions, " AND "))

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("ошибка получения списка записей", err)
	}
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(
			&a.ID,
			&a.ProfessionalID,
			&a.PatientID,
			&a.StartAt,
			&a.EndAt,
			&a.Status,
			&a.Origin,
			&a.CreatedAt,
			&a.UpdatedAt,
			&a.PatientName,
			&a.ProfessionalName,
		); err != nil {
			return nil, storeErr("ошибка сканирования строки записи", err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("ошибка при итерации по строкам", err)
	}

	return appointments, nil
}

func (r *AppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	conditions, args := appointmentFilterConditions(filter, "")

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM appointments
		WHERE %s
	`, strings.Join(conditions, " AND "))

	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, storeErr("ошибка подсчета записей", err)
	}

	return count, nil
}

// ListOccupied возвращает интервалы записей, занимающих время (статусы
// scheduled и completed), пересекающих [from, to) полуоткрытым тестом.
func (r *AppointmentRepo) ListOccupied(ctx context.Context, professionalID int64, from, to time.Time) ([]domain.Interval, error) {
	query := `
		SELECT start_at, end_at
		FROM appointments
		WHERE professional_id = $1
		AND status IN ($2, $3)
		AND deleted_at IS NULL
		AND end_at > $4
		AND start_at < $5
		ORDER BY start_at
	`

	rows, err := r.db.Query(ctx, query,
		professionalID,
		domain.AppointmentStatusScheduled,
		domain.AppointmentStatusCompleted,
		from,
		to,
	)
	if err != nil {
		return nil, storeErr("ошибка получения занятых интервалов", err)
	}
	defer rows.Close()

	intervals := make([]domain.Interval, 0)
	for rows.Next() {
		var iv domain.Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, storeErr("ошибка сканирования интервала", err)
		}
		intervals = append(intervals, iv)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("ошибка при итерации по строкам", err)
	}

	return intervals, nil
}
