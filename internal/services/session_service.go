package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/grading"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/shuffle"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

type sessionService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	opts      Options
}

func NewSessionService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
	opts Options,
) SessionService {
	if opts.CleanupPolicy == "" {
		opts.CleanupPolicy = CleanupChoiceOnly
	}
	return &sessionService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		opts:      opts,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, testID uint, overrides *models.Presentation, userID string) (uint, error) {
	s.logger.Info("Creating session", "test_id", testID, "user_id", userID)

	if userID == "" {
		return 0, validationError("user_id", "is required", "required", userID)
	}

	test, err := s.repo.Test().GetByID(ctx, testID)
	if err != nil {
		return 0, mapRepoError(err, ErrTestNotFound)
	}
	if test.IsDeleted {
		return 0, ErrTestNotFound
	}
	if !test.IsPublic && test.OwnerID != userID {
		return 0, NewPermissionError(userID, testID, "test", "take", "test is private")
	}

	presentation := test.Presentation()
	if overrides != nil {
		presentation = *overrides
	}

	session := &models.TestSession{TestID: test.ID, UserID: userID}
	session.SetPresentation(presentation)

	if err := s.repo.Session().Create(ctx, session); err != nil {
		return 0, fmt.Errorf("failed to create session: %w", mapRepoError(err, ErrTestNotFound))
	}

	s.logger.Info("Session created successfully", "session_id", session.ID, "test_id", testID, "user_id", userID)
	return session.ID, nil
}

func (s *sessionService) RenderSession(ctx context.Context, sessionID uint, userID string) (*models.RenderedTest, error) {
	session, err := loadOwnedSession(ctx, s.repo, sessionID, userID, "view")
	if err != nil {
		return nil, err
	}

	test, err := s.repo.Test().GetByIDWithQuestions(ctx, session.TestID, false)
	if err != nil {
		return nil, mapRepoError(err, ErrTestNotFound)
	}

	captured, err := s.repo.CapturedAnswer().ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load captured answers: %w", err)
	}

	return renderSession(session, test, derefCaptured(captured), s.shuffleSource(session)), nil
}

func (s *sessionService) SaveAnswers(ctx context.Context, sessionID uint, answers []models.SubmittedAnswer, finish bool, userID string) error {
	return s.save(ctx, sessionID, answers, finish, userID, true)
}

func (s *sessionService) SaveOneAnswer(ctx context.Context, sessionID uint, answer models.SubmittedAnswer, finish bool, userID string) error {
	return s.save(ctx, sessionID, []models.SubmittedAnswer{answer}, finish, userID, false)
}

func (s *sessionService) ListSessionsByUser(ctx context.Context, userID string) ([]*models.TestSession, error) {
	sessions, err := s.repo.Session().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for user %s: %w", userID, err)
	}
	return listedSessions(sessions), nil
}

func (s *sessionService) ListSessionsByTest(ctx context.Context, testID uint, actingUserID string) ([]*models.TestSession, error) {
	test, err := s.repo.Test().GetByID(ctx, testID)
	if err != nil {
		return nil, mapRepoError(err, ErrTestNotFound)
	}
	if actingUserID != "" && test.OwnerID != actingUserID {
		return nil, NewPermissionError(actingUserID, testID, "test", "list sessions of", "not the test owner")
	}

	sessions, err := s.repo.Session().ListByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for test %d: %w", testID, err)
	}
	return listedSessions(sessions), nil
}

// save captures answers and optionally completes the session. A batch save
// also cleans up rows of active questions the batch leaves out.
func (s *sessionService) save(ctx context.Context, sessionID uint, answers []models.SubmittedAnswer, finish bool, userID string, batch bool) error {
	start := time.Now()
	s.logger.Info("Saving answers", "session_id", sessionID, "user_id", userID, "count", len(answers), "finish", finish)

	if err := s.validator.ValidateAnswers(answers); err != nil {
		err = validationFailure(err)
		logOutcome(ctx, s.logger, "save_answers", start, err, "session_id", sessionID)
		return err
	}

	var completed *models.TestSession
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		session, err := loadOwnedSession(ctx, tx, sessionID, userID, "answer")
		if err != nil {
			return err
		}
		if session.IsCompleted {
			return ErrSessionCompleted
		}

		test, err := tx.Test().GetByIDWithQuestions(ctx, session.TestID, false)
		if err != nil {
			return mapRepoError(err, ErrTestNotFound)
		}
		active := test.ActiveQuestions()
		questions := indexQuestions(active)

		existing, err := tx.CapturedAnswer().ListBySession(ctx, session.ID)
		if err != nil {
			return err
		}
		rows := groupRows(existing)

		submitted := make(map[uint]bool, len(answers))
		for i, a := range answers {
			q, ok := questions[a.QuestionID]
			if !ok {
				return fmt.Errorf("%w: question %d is not part of test %d", ErrQuestionNotFound, a.QuestionID, test.ID)
			}
			submitted[q.ID] = true

			current, err := captureAnswer(ctx, tx, session.ID, q, a, rows[q.ID], i)
			if err != nil {
				return err
			}
			rows[q.ID] = current
		}

		if batch {
			if err := cleanupOmitted(ctx, tx, questions, rows, submitted, s.opts.CleanupPolicy); err != nil {
				return err
			}
		}

		if !finish {
			return nil
		}

		final, err := tx.CapturedAnswer().ListBySession(ctx, session.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		session.Score, session.MaxScore = grading.Score(active, derefCaptured(final))
		session.IsCompleted = true
		session.CompletedAt = &now
		if err := tx.Session().Update(ctx, session); err != nil {
			return mapRepoError(err, ErrSessionNotFound)
		}
		completed = session
		return nil
	})
	logOutcome(ctx, s.logger, "save_answers", start, err, "session_id", sessionID)
	if err != nil {
		return err
	}

	if completed != nil {
		publish(ctx, s.publisher, s.logger, events.NewEvent(events.EventSessionCompleted, events.SessionCompletedEvent{
			SessionID: completed.ID,
			TestID:    completed.TestID,
			UserID:    completed.UserID,
			Score:     completed.Score,
			MaxScore:  completed.MaxScore,
		}))
		s.logger.Info("Session completed successfully", "session_id", sessionID,
			"score", completed.Score, "max_score", completed.MaxScore)
	}

	s.logger.Info("Answers saved successfully", "session_id", sessionID, "count", len(answers))
	return nil
}

func (s *sessionService) shuffleSource(session *models.TestSession) shuffle.Source {
	if s.opts.ShuffleSeedPerSession {
		return shuffle.Seeded(uint64(session.ID))
	}
	return shuffle.Unseeded()
}

func loadOwnedSession(ctx context.Context, repo repositories.Repository, sessionID uint, userID, action string) (*models.TestSession, error) {
	session, err := repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		return nil, mapRepoError(err, ErrSessionNotFound)
	}
	if session.UserID != userID {
		return nil, NewPermissionError(userID, sessionID, "session", action, "not the session owner")
	}
	return session, nil
}
