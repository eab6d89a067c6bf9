package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type SessionPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (s *SessionPostgreSQL) Create(ctx context.Context, session *models.TestSession) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *SessionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.TestSession, error) {
	var session models.TestSession
	if err := s.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) Update(ctx context.Context, session *models.TestSession) error {
	result := s.db.WithContext(ctx).
		Model(&models.TestSession{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"shuffle_questions":      session.ShuffleQuestions,
			"shuffle_answers":        session.ShuffleAnswers,
			"one_question_at_a_time": session.OneQuestionAtATime,
			"is_completed":           session.IsCompleted,
			"score":                  session.Score,
			"max_score":              session.MaxScore,
			"completed_at":           session.CompletedAt,
		})
	return s.helpers.CheckAffected(result, "update session", session.ID)
}

func (s *SessionPostgreSQL) ListByTest(ctx context.Context, testID uint) ([]*models.TestSession, error) {
	var sessions []*models.TestSession
	if err := s.db.WithContext(ctx).Where("test_id = ?", testID).Order("id ASC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions for test %d: %w", testID, err)
	}
	return sessions, nil
}

func (s *SessionPostgreSQL) ListByUser(ctx context.Context, userID string) ([]*models.TestSession, error) {
	var sessions []*models.TestSession
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions for user %s: %w", userID, err)
	}
	return sessions, nil
}

type CapturedAnswerPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewCapturedAnswerPostgreSQL(db *gorm.DB) repositories.CapturedAnswerRepository {
	return &CapturedAnswerPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (c *CapturedAnswerPostgreSQL) Create(ctx context.Context, captured *models.CapturedAnswer) error {
	if err := c.db.WithContext(ctx).Create(captured).Error; err != nil {
		return fmt.Errorf("failed to create captured answer: %w", err)
	}
	return nil
}

func (c *CapturedAnswerPostgreSQL) Update(ctx context.Context, captured *models.CapturedAnswer) error {
	result := c.db.WithContext(ctx).
		Model(&models.CapturedAnswer{}).
		Where("id = ?", captured.ID).
		Updates(map[string]interface{}{
			"answer_id": captured.AnswerID,
			"value":     captured.Value,
		})
	return c.helpers.CheckAffected(result, "update captured answer", captured.ID)
}

func (c *CapturedAnswerPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Delete(&models.CapturedAnswer{}, id)
	return c.helpers.CheckAffected(result, "delete captured answer", id)
}

func (c *CapturedAnswerPostgreSQL) ListBySession(ctx context.Context, sessionID uint) ([]*models.CapturedAnswer, error) {
	var rows []*models.CapturedAnswer
	if err := c.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list captured answers for session %d: %w", sessionID, err)
	}
	return rows, nil
}
