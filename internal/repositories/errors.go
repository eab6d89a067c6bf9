package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrRecordNotFound is returned by non-SQL stores for unknown ids.
	ErrRecordNotFound = errors.New("record not found")
	// ErrNoRowsAffected is returned when a write matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")
)

// IsNotFoundError recognises not-found errors from every store implementation.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrRecordNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
