package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type ProfessionalRepo struct {
	db *pgxpool.Pool
}

func NewProfessionalRepository(db *pgxpool.Pool) *ProfessionalRepo {
	return &ProfessionalRepo{
		db: db,
	}
}

const professionalColumns = `id, user_id, name, specialty, slug, timezone, is_active, COALESCE(profile_photo_url, ''), created_at, updated_at`

func (r *ProfessionalRepo) Create(ctx context.Context, userID int64, name, specialty, slug, timezone string) (int64, error) {
	query := `
		INSERT INTO professionals (user_id, name, specialty, slug, timezone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id
	`

	var id int64
	now := time.Now()
	err := r.db.QueryRow(ctx, query, userID, name, specialty, slug, timezone, true, now).Scan(&id)
	if err != nil {
		return 0, storeErr("ошибка создания профиля профессионала", err)
	}

	return id, nil
}

func (r *ProfessionalRepo) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *ProfessionalRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Professional, error) {
	return r.getOne(ctx, "user_id = $1", userID)
}

func (r *ProfessionalRepo) GetBySlug(ctx context.Context, slug string) (*domain.Professional, error) {
	return r.getOne(ctx, "slug = $1 AND is_active = true", slug)
}

func (r *ProfessionalRepo) getOne(ctx context.Context, condition string, arg interface{}) (*domain.Professional, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM professionals
		WHERE %s AND deleted_at IS NULL
	`, professionalColumns, condition)

	var p domain.Professional
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Specialty,
		&p.Slug,
		&p.Timezone,
		&p.IsActive,
		&p.ProfilePhotoURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		return nil, storeErr("ошибка получения профессионала", err)
	}

	return &p, nil
}

func (r *ProfessionalRepo) Update(ctx context.Context, id int64, dto domain.UpdateProfessionalDTO) error {
	var updateFields []string
	var args []interface{}

	argCount := 1

	if dto.Name != nil {
		updateFields = append(updateFields, fmt.Sprintf("name = $%d", argCount))
		args = append(args, *dto.Name)
		argCount++
	}

	if dto.Specialty != nil {
		updateFields = append(updateFields, fmt.Sprintf("specialty = $%d", argCount))
		args = append(args, *dto.Specialty)
		argCount++
	}

	if dto.Timezone != nil {
		updateFields = append(updateFields, fmt.Sprintf("timezone = $%d", argCount))
		args = append(args, *dto.Timezone)
		argCount++
	}

	if dto.IsActive != nil {
		updateFields = append(updateFields, fmt.Sprintf("is_active = $%d", argCount))
		args = append(args, *dto.IsActive)
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
		UPDATE professionals
		SET %s
		WHERE id = $%d AND deleted_at IS NULL
	`, strings.Join(updateFields, ", "), argCount)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return storeErr("ошибка обновления профессионала", err)
	}

	return nil
}

func (r *ProfessionalRepo) UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error {
	query := `
		UPDATE professionals
		SET profile_photo_url = NULLIF($1, ''), updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`

	_, err := r.db.Exec(ctx, query, photoURL, time.Now(), id)
	if err != nil {
		return storeErr("ошибка обновления фото профиля", err)
	}

	return nil
}

func (r *ProfessionalRepo) Delete(ctx context.Context, id int64) error {
	query := `
		UPDATE professionals
		SET deleted_at = $1, is_active = false
		WHERE id = $2 AND deleted_at IS NULL
	`

	_, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return storeErr("ошибка удаления профессионала", err)
	}

	return nil
}

func (r *ProfessionalRepo) List(ctx context.Context, limit, offset int) ([]domain.Professional, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM professionals
		WHERE deleted_at IS NULL
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, professionalColumns)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, storeErr("ошибка получения списка профессионалов", err)
	}
	defer rows.Close()

	professionals := make([]domain.Professional, 0)
	for rows.Next() {
		var p domain.Professional
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Name,
			&p.Specialty,
			&p.Slug,
			&p.Timezone,
			&p.IsActive,
			&p.ProfilePhotoURL,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, storeErr("ошибка сканирования строки профессионала", err)
		}
		professionals = append(professionals, p)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("ошибка при итерации по строкам", err)
	}

	return professionals, nil
}
