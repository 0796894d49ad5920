package postgres

import (
	"strings"

	"skillswap/internal/errors"

	"gorm.io/gorm"
)

// These helpers depend on gorm.Config.TranslateError being enabled.

func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

// Postgres reports "violates check constraint", SQLite "CHECK constraint failed".
func isCheckConstraintViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "check constraint")
}
