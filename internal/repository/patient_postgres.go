package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type PatientRepo struct {
	db *pgxpool.Pool
}

func NewPatientRepository(db *pgxpool.Pool) *PatientRepo {
	return &PatientRepo{
		db: db,
	}
}

func (r *PatientRepo) Create(ctx context.Context, userID int64, dto domain.CreatePatientDTO) (int64, error) {
	query := `
		INSERT INTO patients (user_id, name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, userID, dto.Name, dto.Phone, time.Now()).Scan(&id)
	if err != nil {
		return 0, storeErr("ошибка создания профиля пациента", err)
	}

	return id, nil
}

func (r *PatientRepo) GetByID(ctx context.Context, id int64) (*domain.Patient, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *PatientRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Patient, error) {
	return r.getOne(ctx, "user_id = $1", userID)
}

func (r *PatientRepo) getOne(ctx context.Context, condition string, arg interface{}) (*domain.Patient, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, phone, created_at, updated_at
		FROM patients
		WHERE %s AND deleted_at IS NULL
	`, condition)

	var p domain.Patient
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Phone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		return nil, storeErr("ошибка получения пациента", err)
	}

	return &p, nil
}

func (r *PatientRepo) Update(ctx context.Context, id int64, dto domain.UpdatePatientDTO) error {
	var updateFields []string
	var args []interface{}

	argCount := 1

	if dto.Name != nil {
		updateFields = append(updateFields, fmt.Sprintf("name = $%d", argCount))
		args = append(args, *dto.Name)
		argCount++
	}

	if dto.Phone != nil {
		updateFields = append(updateFields, fmt.Sprintf("phone = $%d", argCount))
		args = append(args, *dto.Phone)
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
		UPDATE patients
		SET %s
		WHERE id = $%d AND deleted_at IS NULL
	`, strings.Join(updateFields, ", "), argCount)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return storeErr("ошибка обновления пациента", err)
	}

	return nil
}
