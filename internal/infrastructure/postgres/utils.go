package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool { return pgCode(err) == pgUniqueViolation }

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool { return pgCode(err) == pgForeignKeyViolation }

// mapWriteError traduce violaciones de constraints a errores de dominio.
func mapWriteError(err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isForeignKeyViolation(err):
		return domain.ErrConflict
	}
	return err
}

// limitArg convierte limit <= 0 en NULL (LIMIT NULL = sin límite).
func limitArg(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
