package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/quiz-service/internal/cache"
	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/memory"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

const (
	owner = "owner-1"
	taker = "taker-1"
)

type testEnv struct {
	store     *memory.Store
	cache     cache.CacheService
	publisher *events.MockEventPublisher
	svc       *Services
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T, configure ...func(*Options)) *testEnv {
	t.Helper()
	opts := DefaultOptions()
	for _, fn := range configure {
		fn(&opts)
	}
	env := &testEnv{
		store:     memory.NewStore(),
		cache:     cache.NewMemoryCache(),
		publisher: events.NewMockEventPublisher(testLogger()),
	}
	env.svc = NewServices(env.store, env.cache, env.publisher, testLogger(), validator.New(), opts)
	return env
}

func strPtr(s string) *string { return &s }

// singleChoiceEdit is a public test with one question: A is correct, B is not.
func singleChoiceEdit() *models.TestEdit {
	return &models.TestEdit{
		Title:    "Capitals",
		IsPublic: true,
		Tags:     []string{"geo"},
		Questions: []models.QuestionEdit{{
			Content: "Capital of France?",
			Type:    models.SingleChoice,
			Answers: []models.AnswerEdit{
				{Content: "Paris", IsCorrect: true},
				{Content: "Rome"},
			},
		}},
	}
}

// editFrom rebuilds the edit a client would send back for test unchanged.
func editFrom(test *models.Test) *models.TestEdit {
	edit := &models.TestEdit{
		Title:              test.Title,
		Description:        test.Description,
		IsPublic:           test.IsPublic,
		ShuffleQuestions:   test.ShuffleQuestions,
		ShuffleAnswers:     test.ShuffleAnswers,
		OneQuestionAtATime: test.OneQuestionAtATime,
		Tags:               test.TagList(),
	}
	for _, q := range test.Questions {
		qe := models.QuestionEdit{ID: q.ID, Content: q.Content, Type: q.Type, RenderMath: q.RenderMath}
		for _, a := range q.Answers {
			qe.Answers = append(qe.Answers, models.AnswerEdit{ID: a.ID, Content: a.Content, IsCorrect: a.IsCorrect})
		}
		edit.Questions = append(edit.Questions, qe)
	}
	return edit
}

func (e *testEnv) createTest(t *testing.T, edit *models.TestEdit) *models.Test {
	t.Helper()
	id, err := e.svc.Test.CreateTest(context.Background(), edit, owner)
	require.NoError(t, err)
	test, err := e.svc.Test.GetTest(context.Background(), id, owner)
	require.NoError(t, err)
	return test
}

func (e *testEnv) startSession(t *testing.T, testID uint) uint {
	t.Helper()
	id, err := e.svc.Session.CreateSession(context.Background(), testID, nil, taker)
	require.NoError(t, err)
	return id
}

func (e *testEnv) session(t *testing.T, id uint) *models.TestSession {
	t.Helper()
	sess, err := e.store.Session().GetByID(context.Background(), id)
	require.NoError(t, err)
	return sess
}

func answerByContent(t *testing.T, q models.Question, content string) uint {
	t.Helper()
	for _, a := range q.Answers {
		if a.Content == content {
			return a.ID
		}
	}
	t.Fatalf("answer %q not found in question %d", content, q.ID)
	return 0
}

func questionIDs(test *models.Test) []uint {
	ids := make([]uint, 0, len(test.Questions))
	for _, q := range test.Questions {
		ids = append(ids, q.ID)
	}
	return ids
}
