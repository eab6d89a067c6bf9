package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	if err := q.db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).Preload("Answers", orderByPosition).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	result := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", question.ID).
		Updates(map[string]interface{}{
			"content":     question.Content,
			"type":        question.Type,
			"render_math": question.RenderMath,
			"position":    question.Position,
		})
	return q.helpers.CheckAffected(result, "update question", question.ID)
}

func (q *QuestionPostgreSQL) SoftDelete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", id).
		Update("is_deleted", true)
	return q.helpers.CheckAffected(result, "delete question", id)
}

type AnswerPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (a *AnswerPostgreSQL) Create(ctx context.Context, answer *models.Answer) error {
	if err := a.db.WithContext(ctx).Create(answer).Error; err != nil {
		return fmt.Errorf("failed to create answer: %w", err)
	}
	return nil
}

func (a *AnswerPostgreSQL) Update(ctx context.Context, answer *models.Answer) error {
	result := a.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("id = ?", answer.ID).
		Updates(map[string]interface{}{
			"content":    answer.Content,
			"is_correct": answer.IsCorrect,
			"position":   answer.Position,
		})
	return a.helpers.CheckAffected(result, "update answer", answer.ID)
}

// Delete removes the answer row; answers carry no soft-delete state.
func (a *AnswerPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := a.db.WithContext(ctx).Delete(&models.Answer{}, id)
	return a.helpers.CheckAffected(result, "delete answer", id)
}
