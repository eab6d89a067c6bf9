package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/cache"
	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

// ===== SERVICE INTERFACES =====

type TestService interface {
	CreateTest(ctx context.Context, edit *models.TestEdit, ownerID string) (uint, error)
	// EditTest reconciles edit into the persisted test. An empty actingUserID
	// skips the ownership check.
	EditTest(ctx context.Context, id uint, edit *models.TestEdit, actingUserID string) (*models.Test, error)
	DuplicateTest(ctx context.Context, id uint, actingUserID string) (uint, error)
	// DeleteTest reports false when the test is missing or already deleted.
	DeleteTest(ctx context.Context, id uint) (bool, error)
	// DeleteOwnedTest is DeleteTest restricted to the test owner.
	DeleteOwnedTest(ctx context.Context, id uint, actingUserID string) (bool, error)

	GetTest(ctx context.Context, id uint, userID string) (*models.Test, error)
	ListPublicTests(ctx context.Context, limit, offset int) (*TestListResponse, error)
	ListTestsByOwner(ctx context.Context, ownerID string, limit, offset int) (*TestListResponse, error)
}

type SessionService interface {
	// CreateSession copies the test's presentation defaults when overrides is nil.
	CreateSession(ctx context.Context, testID uint, overrides *models.Presentation, userID string) (uint, error)
	RenderSession(ctx context.Context, sessionID uint, userID string) (*models.RenderedTest, error)
	// SaveAnswers treats answers as the full set for the session: rows for
	// omitted questions are cleaned up according to the capture cleanup policy.
	SaveAnswers(ctx context.Context, sessionID uint, answers []models.SubmittedAnswer, finish bool, userID string) error
	SaveOneAnswer(ctx context.Context, sessionID uint, answer models.SubmittedAnswer, finish bool, userID string) error

	ListSessionsByUser(ctx context.Context, userID string) ([]*models.TestSession, error)
	ListSessionsByTest(ctx context.Context, testID uint, actingUserID string) ([]*models.TestSession, error)
}

type ImportExportService interface {
	ExportTest(ctx context.Context, testID uint, userID string) ([]byte, error)
	ImportTest(ctx context.Context, reader io.Reader, userID string) (uint, error)
	ExportTestResults(ctx context.Context, testID uint, userID string) ([]byte, error)
}

// ===== OPTIONS =====

// CleanupPolicy selects which captured rows a batch save removes for
// questions that are absent from the batch.
type CleanupPolicy string

const (
	// CleanupChoiceOnly removes only selection rows; typed values stay.
	CleanupChoiceOnly CleanupPolicy = "choice_only"
	// CleanupAll removes typed values as well.
	CleanupAll CleanupPolicy = "all"
)

type Options struct {
	// ShuffleSeedPerSession makes render order stable for a session.
	ShuffleSeedPerSession bool
	CleanupPolicy         CleanupPolicy
	CacheTTL              time.Duration
}

func DefaultOptions() Options {
	return Options{
		CleanupPolicy: CleanupChoiceOnly,
		CacheTTL:      5 * time.Minute,
	}
}

// ===== RESPONSE TYPES =====

type TestSummary struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	OwnerID     string    `json:"owner_id"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TestListResponse struct {
	Tests  []TestSummary `json:"tests"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// ===== SERVICE MANAGER =====

// Services bundles every service built over one repository.
type Services struct {
	Test         TestService
	Session      SessionService
	ImportExport ImportExportService
}

func NewServices(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
	opts Options,
) *Services {
	testService := NewTestService(repo, cacheService, publisher, logger, validator, opts)
	return &Services{
		Test:         testService,
		Session:      NewSessionService(repo, publisher, logger, validator, opts),
		ImportExport: NewImportExportService(repo, testService, logger),
	}
}

// publish sends an event without failing the caller.
func publish(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, event *events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "event_type", event.Type, "error", err)
	}
}
