package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/cache"
	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

type testService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	opts      Options
}

func NewTestService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
	opts Options,
) TestService {
	if cacheService == nil {
		cacheService = cache.NewNoopCache()
	}
	return &testService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		opts:      opts,
	}
}

// ===== AUTHORING =====

func (s *testService) CreateTest(ctx context.Context, edit *models.TestEdit, ownerID string) (uint, error) {
	if edit == nil {
		return 0, fmt.Errorf("%w: test content is required", ErrValidationFailed)
	}
	s.logger.Info("Creating test", "owner_id", ownerID, "title", edit.Title)

	if ownerID == "" {
		return 0, validationError("owner_id", "is required", "required", ownerID)
	}
	if err := s.validator.ValidateTestEdit(edit); err != nil {
		return 0, validationFailure(err)
	}

	test := newTestFromEdit(edit, ownerID)
	if err := s.repo.Test().Create(ctx, test); err != nil {
		return 0, fmt.Errorf("failed to create test: %w", mapRepoError(err, ErrTestNotFound))
	}

	s.invalidatePublicListing(ctx)

	s.logger.Info("Test created successfully", "test_id", test.ID, "owner_id", ownerID, "questions", len(test.Questions))
	return test.ID, nil
}

func (s *testService) EditTest(ctx context.Context, id uint, edit *models.TestEdit, actingUserID string) (*models.Test, error) {
	start := time.Now()
	s.logger.Info("Editing test", "test_id", id, "user_id", actingUserID)

	test, rescored, err := s.reconcile(ctx, id, edit, actingUserID)
	logOutcome(ctx, s.logger, "edit_test", start, err, "test_id", id)
	if err != nil {
		return nil, err
	}

	s.invalidatePublicListing(ctx)

	publish(ctx, s.publisher, s.logger, events.NewEvent(events.EventTestEdited, events.TestEditedEvent{
		TestID:           test.ID,
		OwnerID:          test.OwnerID,
		EditedBy:         actingUserID,
		QuestionCount:    len(test.Questions),
		SessionsRescored: len(rescored),
	}))
	for _, r := range rescored {
		publish(ctx, s.publisher, s.logger, events.NewEvent(events.EventSessionRescored, events.SessionRescoredEvent{
			SessionID:        r.session.ID,
			TestID:           test.ID,
			UserID:           r.session.UserID,
			PreviousScore:    r.prevScore,
			PreviousMaxScore: r.prevMax,
			Score:            r.session.Score,
			MaxScore:         r.session.MaxScore,
		}))
	}

	s.logger.Info("Test edited successfully", "test_id", id, "questions", len(test.Questions), "sessions_rescored", len(rescored))
	return test, nil
}

func (s *testService) DuplicateTest(ctx context.Context, id uint, actingUserID string) (uint, error) {
	s.logger.Info("Duplicating test", "test_id", id, "user_id", actingUserID)

	if actingUserID == "" {
		return 0, validationError("user_id", "is required", "required", actingUserID)
	}

	source, err := s.loadActiveTest(ctx, id)
	if err != nil {
		return 0, err
	}
	if !source.IsPublic && source.OwnerID != actingUserID {
		return 0, NewPermissionError(actingUserID, id, "test", "duplicate", "test is private")
	}

	dup := duplicateOf(source, actingUserID)
	if err := s.repo.Test().Create(ctx, dup); err != nil {
		return 0, fmt.Errorf("failed to duplicate test: %w", mapRepoError(err, ErrTestNotFound))
	}

	s.logger.Info("Test duplicated successfully", "source_id", id, "test_id", dup.ID, "owner_id", actingUserID)
	return dup.ID, nil
}

func (s *testService) DeleteTest(ctx context.Context, id uint) (bool, error) {
	s.logger.Info("Deleting test", "test_id", id)

	if err := s.repo.Test().SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNoRowsAffected) || repositories.IsNotFoundError(err) {
			s.logger.Warn("Test not deleted", "test_id", id, "reason", "missing or already deleted")
			return false, nil
		}
		return false, fmt.Errorf("failed to delete test: %w", err)
	}

	s.invalidatePublicListing(ctx)

	s.logger.Info("Test deleted successfully", "test_id", id)
	return true, nil
}

func (s *testService) DeleteOwnedTest(ctx context.Context, id uint, actingUserID string) (bool, error) {
	test, err := s.repo.Test().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load test: %w", err)
	}
	if test.IsDeleted {
		return false, nil
	}
	if test.OwnerID != actingUserID {
		return false, NewPermissionError(actingUserID, id, "test", "delete", "not the test owner")
	}
	return s.DeleteTest(ctx, id)
}

// ===== READS =====

func (s *testService) GetTest(ctx context.Context, id uint, userID string) (*models.Test, error) {
	test, err := s.loadActiveTest(ctx, id)
	if err != nil {
		return nil, err
	}
	if test.OwnerID == userID {
		return test, nil
	}
	if !test.IsPublic {
		return nil, NewPermissionError(userID, id, "test", "view", "test is private")
	}
	redactAnswers(test)
	return test, nil
}

func (s *testService) ListPublicTests(ctx context.Context, limit, offset int) (*TestListResponse, error) {
	limit, offset = normalizePage(limit, offset)
	key := cache.PublicTestsKey(limit, offset)

	var cached TestListResponse
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Failed to read public test cache", "key", key, "error", err)
	}

	tests, total, err := s.repo.Test().List(ctx, repositories.TestFilters{
		PublicOnly: true,
		Limit:      limit,
		Offset:     offset,
		SortBy:     "created_at",
		SortOrder:  "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list public tests: %w", err)
	}

	resp := newListResponse(tests, total, limit, offset)
	if err := s.cache.Set(ctx, key, resp, s.opts.CacheTTL); err != nil {
		s.logger.Warn("Failed to cache public tests", "key", key, "error", err)
	}
	return resp, nil
}

func (s *testService) ListTestsByOwner(ctx context.Context, ownerID string, limit, offset int) (*TestListResponse, error) {
	limit, offset = normalizePage(limit, offset)

	tests, total, err := s.repo.Test().List(ctx, repositories.TestFilters{
		OwnerID:   &ownerID,
		Limit:     limit,
		Offset:    offset,
		SortBy:    "updated_at",
		SortOrder: "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tests for owner %s: %w", ownerID, err)
	}
	return newListResponse(tests, total, limit, offset), nil
}

// loadActiveTest returns the test with its non-deleted questions; soft-deleted
// tests are reported as not found.
func (s *testService) loadActiveTest(ctx context.Context, id uint) (*models.Test, error) {
	test, err := s.repo.Test().GetByIDWithQuestions(ctx, id, false)
	if err != nil {
		return nil, mapRepoError(err, ErrTestNotFound)
	}
	if test.IsDeleted {
		return nil, ErrTestNotFound
	}
	return test, nil
}

func (s *testService) invalidatePublicListing(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, cache.PublicTestsPattern()); err != nil {
		s.logger.Warn("Failed to invalidate public test cache", "error", err)
	}
}
