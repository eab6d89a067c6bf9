package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

// Repository is the gorm-backed repositories.Repository.
type Repository struct {
	db             *gorm.DB
	test           repositories.TestRepository
	question       repositories.QuestionRepository
	answer         repositories.AnswerRepository
	session        repositories.SessionRepository
	capturedAnswer repositories.CapturedAnswerRepository
	user           repositories.UserRepository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:             db,
		test:           NewTestPostgreSQL(db),
		question:       NewQuestionPostgreSQL(db),
		answer:         NewAnswerPostgreSQL(db),
		session:        NewSessionPostgreSQL(db),
		capturedAnswer: NewCapturedAnswerPostgreSQL(db),
		user:           NewUserPostgreSQL(db),
	}
}

func (r *Repository) Test() repositories.TestRepository                     { return r.test }
func (r *Repository) Question() repositories.QuestionRepository             { return r.question }
func (r *Repository) Answer() repositories.AnswerRepository                 { return r.answer }
func (r *Repository) Session() repositories.SessionRepository               { return r.session }
func (r *Repository) CapturedAnswer() repositories.CapturedAnswerRepository { return r.capturedAnswer }
func (r *Repository) User() repositories.UserRepository                     { return r.user }

func (r *Repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}
	return sqlDB.Close()
}

// AutoMigrate creates or updates every table used by the service.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Test{},
		&models.Question{},
		&models.Answer{},
		&models.TestSession{},
		&models.CapturedAnswer{},
	)
}
