package postgres

import (
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"id":         true,
}

// SharedHelpers holds query helpers used by every gorm repository.
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyPaginationAndSort clamps the limit and only sorts on whitelisted columns.
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	if !sortableColumns[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	query = query.Limit(limit)

	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

// CheckAffected turns a zero-row write into ErrNoRowsAffected.
func (h *SharedHelpers) CheckAffected(result *gorm.DB, what string, id interface{}) error {
	if result.Error != nil {
		return fmt.Errorf("failed to %s %v: %w", what, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to %s %v: %w", what, id, repositories.ErrNoRowsAffected)
	}
	return nil
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}
