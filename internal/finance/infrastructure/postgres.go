package infrastructure

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// validID guards uuid columns: postgres rejects malformed uuid text with an
// error instead of simply matching nothing.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
