package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type TestFilters struct {
	OwnerID    *string `json:"owner_id"`
	PublicOnly bool    `json:"public_only"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
	SortBy     string  `json:"sort_by"`    // "created_at", "title", "updated_at"
	SortOrder  string  `json:"sort_order"` // "asc", "desc"
}

// ===== REPOSITORY INTERFACES =====

// TestRepository persists test rows. Soft-deleted tests are still returned by
// the GetBy* methods; callers decide whether to treat them as missing.
type TestRepository interface {
	// Create inserts the test together with any nested questions and answers.
	Create(ctx context.Context, test *models.Test) error
	GetByID(ctx context.Context, id uint) (*models.Test, error)
	// GetByIDWithQuestions loads questions and answers ordered by position.
	GetByIDWithQuestions(ctx context.Context, id uint, includeDeleted bool) (*models.Test, error)
	// Update writes the test's own columns, never its children.
	Update(ctx context.Context, test *models.Test) error
	// SoftDelete returns ErrNoRowsAffected when the test is missing or already deleted.
	SoftDelete(ctx context.Context, id uint) error
	List(ctx context.Context, filters TestFilters) ([]*models.Test, int64, error)
}

type QuestionRepository interface {
	// Create inserts the question and its answers.
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	SoftDelete(ctx context.Context, id uint) error
}

type AnswerRepository interface {
	Create(ctx context.Context, answer *models.Answer) error
	Update(ctx context.Context, answer *models.Answer) error
	Delete(ctx context.Context, id uint) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.TestSession) error
	GetByID(ctx context.Context, id uint) (*models.TestSession, error)
	Update(ctx context.Context, session *models.TestSession) error
	ListByTest(ctx context.Context, testID uint) ([]*models.TestSession, error)
	ListByUser(ctx context.Context, userID string) ([]*models.TestSession, error)
}

type CapturedAnswerRepository interface {
	Create(ctx context.Context, captured *models.CapturedAnswer) error
	Update(ctx context.Context, captured *models.CapturedAnswer) error
	Delete(ctx context.Context, id uint) error
	ListBySession(ctx context.Context, sessionID uint) ([]*models.CapturedAnswer, error)
}

// UserRepository is read-mostly; accounts are owned by the identity provider.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}

// Repository aggregates every gateway behind one handle so services can run
// several writes in a single transaction.
type Repository interface {
	Test() TestRepository
	Question() QuestionRepository
	Answer() AnswerRepository
	Session() SessionRepository
	CapturedAnswer() CapturedAnswerRepository
	User() UserRepository

	// WithTransaction runs fn against a transactional view of the store. Any
	// error returned by fn rolls every write back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}
