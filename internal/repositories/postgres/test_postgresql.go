package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type TestPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewTestPostgreSQL(db *gorm.DB) repositories.TestRepository {
	return &TestPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

// Create creates a test; gorm inserts the nested questions and answers.
func (t *TestPostgreSQL) Create(ctx context.Context, test *models.Test) error {
	if err := t.db.WithContext(ctx).Create(test).Error; err != nil {
		return fmt.Errorf("failed to create test: %w", err)
	}
	return nil
}

func (t *TestPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Test, error) {
	var test models.Test
	if err := t.db.WithContext(ctx).First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (t *TestPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint, includeDeleted bool) (*models.Test, error) {
	var test models.Test
	err := t.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			if !includeDeleted {
				db = db.Where("is_deleted = ?", false)
			}
			return orderByPosition(db)
		}).
		Preload("Questions.Answers", orderByPosition).
		First(&test, id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (t *TestPostgreSQL) Update(ctx context.Context, test *models.Test) error {
	result := t.db.WithContext(ctx).
		Model(&models.Test{}).
		Where("id = ?", test.ID).
		Updates(map[string]interface{}{
			"title":                  test.Title,
			"description":            test.Description,
			"is_public":              test.IsPublic,
			"tags":                   test.Tags,
			"shuffle_questions":      test.ShuffleQuestions,
			"shuffle_answers":        test.ShuffleAnswers,
			"one_question_at_a_time": test.OneQuestionAtATime,
		})
	return t.helpers.CheckAffected(result, "update test", test.ID)
}

func (t *TestPostgreSQL) SoftDelete(ctx context.Context, id uint) error {
	result := t.db.WithContext(ctx).
		Model(&models.Test{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	return t.helpers.CheckAffected(result, "delete test", id)
}

func (t *TestPostgreSQL) List(ctx context.Context, filters repositories.TestFilters) ([]*models.Test, int64, error) {
	var tests []*models.Test
	var total int64

	// apply filter first
	query := t.db.WithContext(ctx).Model(&models.Test{}).Where("is_deleted = ?", false)
	if filters.OwnerID != nil {
		query = query.Where("owner_id = ?", *filters.OwnerID)
	}
	if filters.PublicOnly {
		query = query.Where("is_public = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tests: %w", err)
	}

	// then apply pagination and sorting
	query = t.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Find(&tests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tests: %w", err)
	}

	return tests, total, nil
}
