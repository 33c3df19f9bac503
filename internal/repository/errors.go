package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"agenda/internal/domain"
)

// Код SQLSTATE нарушения exclusion-ограничения Postgres.
const pgExclusionViolation = "23P01"

// storeErr переводит ошибку pgx в таксономию домена: отсутствие строки —
// ErrNotFound, всё остальное — ErrStoreUnavailable с исходным текстом.
func storeErr(msg string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", msg, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", msg, domain.ErrStoreUnavailable, err)
}

// isExclusionViolation распознает отказ ограничения непересечения записей.
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}
