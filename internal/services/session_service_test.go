package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/SAP-F-2025/quiz-service/internal/errors"
	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
)

func mixedEdit() *models.TestEdit {
	edit := singleChoiceEdit()
	edit.Questions = append(edit.Questions,
		models.QuestionEdit{
			Content: "Half of one?", Type: models.ShortAnswer,
			Answers: []models.AnswerEdit{{Content: "0.5"}},
		},
		models.QuestionEdit{
			Content: "Primes", Type: models.MultipleChoice,
			Answers: []models.AnswerEdit{
				{Content: "2", IsCorrect: true},
				{Content: "3", IsCorrect: true},
				{Content: "4"},
			},
		},
	)
	return edit
}

func TestSession_CorrectSelectionScoresOneOfOne(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, singleChoiceEdit())
	sessionID := env.startSession(t, test.ID)
	q := test.Questions[0]

	err := env.svc.Session.SaveAnswers(ctx, sessionID,
		[]models.SubmittedAnswer{{QuestionID: q.ID, AnswerIDs: []uint{answerByContent(t, q, "Paris")}}}, true, taker)
	require.NoError(t, err)

	rendered, err := env.svc.Session.RenderSession(ctx, sessionID, taker)
	require.NoError(t, err)
	assert.True(t, rendered.IsCompleted)
	assert.Equal(t, 1, rendered.Score)
	assert.Equal(t, 1, rendered.MaxScore)

	completed := env.publisher.EventsOfType(events.EventSessionCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, 1, completed[0].Data.(events.SessionCompletedEvent).Score)
}

func TestSession_EmptySelectionScoresZero(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, singleChoiceEdit())
	sessionID := env.startSession(t, test.ID)

	err := env.svc.Session.SaveAnswers(ctx, sessionID,
		[]models.SubmittedAnswer{{QuestionID: test.Questions[0].ID}}, true, taker)
	require.NoError(t, err)

	sess := env.session(t, sessionID)
	assert.True(t, sess.IsCompleted)
	assert.NotNil(t, sess.CompletedAt)
	assert.Equal(t, 0, sess.Score)
	assert.Equal(t, 1, sess.MaxScore)
}

func TestSession_MixedKindsScoring(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, mixedEdit())
	sessionID := env.startSession(t, test.ID)
	choice, short, multi := test.Questions[0], test.Questions[1], test.Questions[2]

	err := env.svc.Session.SaveAnswers(ctx, sessionID, []models.SubmittedAnswer{
		{QuestionID: choice.ID, AnswerIDs: []uint{answerByContent(t, choice, "Rome")}},
		{QuestionID: short.ID, Value: strPtr(" 1/2 ")},
		{QuestionID: multi.ID, AnswerIDs: []uint{answerByContent(t, multi, "3"), answerByContent(t, multi, "2")}},
	}, true, taker)
	require.NoError(t, err)

	sess := env.session(t, sessionID)
	assert.Equal(t, 2, sess.Score)
	assert.Equal(t, 3, sess.MaxScore)
	assert.GreaterOrEqual(t, sess.Score, 0)
	assert.LessOrEqual(t, sess.Score, sess.MaxScore)
}

func TestSession_PartialMultipleChoiceIsWrong(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, mixedEdit())
	sessionID := env.startSession(t, test.ID)
	multi := test.Questions[2]

	err := env.svc.Session.SaveAnswers(ctx, sessionID, []models.SubmittedAnswer{
		{QuestionID: multi.ID, AnswerIDs: []uint{answerByContent(t, multi, "2")}},
	}, true, taker)
	require.NoError(t, err)

	assert.Equal(t, 0, env.session(t, sessionID).Score)
}

func TestSession_CompletedSessionRejectsWrites(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, singleChoiceEdit())
	sessionID := env.startSession(t, test.ID)
	q := test.Questions[0]

	require.NoError(t, env.svc.Session.SaveAnswers(ctx, sessionID, nil, true, taker))

	err := env.svc.Session.SaveOneAnswer(ctx, sessionID,
		models.SubmittedAnswer{QuestionID: q.ID, AnswerIDs: []uint{answerByContent(t, q, "Paris")}}, false, taker)
	assert.ErrorIs(t, err, ErrSessionCompleted)
	assert.True(t, IsConflict(err))
	assert.Equal(t, 0, env.session(t, sessionID).Score)
}

func TestSession_OnlyOwnerMayAnswerOrRender(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, singleChoiceEdit())
	sessionID := env.startSession(t, test.ID)

	err := env.svc.Session.SaveAnswers(ctx, sessionID, nil, true, "someone-else")
	assert.True(t, IsUnauthorized(err))

	_, err = env.svc.Session.RenderSession(ctx, sessionID, "someone-else")
	assert.True(t, IsUnauthorized(err))

	_, err = env.svc.Session.RenderSession(ctx, 9999, taker)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSession_UnknownAnswerRollsBack(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, mixedEdit())
	sessionID := env.startSession(t, test.ID)
	choice, multi := test.Questions[0], test.Questions[2]

	err := env.svc.Session.SaveAnswers(ctx, sessionID, []models.SubmittedAnswer{
		{QuestionID: choice.ID, AnswerIDs: []uint{answerByContent(t, choice, "Paris")}},
		{QuestionID: multi.ID, AnswerIDs: []uint{answerByContent(t, choice, "Rome")}},
	}, false, taker)

	var ve apperrors.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.HasRule(apperrors.ReasonUnknownAnswer))

	rows, err := env.store.CapturedAnswer().ListBySession(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSession_QuestionOutsideTest(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, singleChoiceEdit())
	other := env.createTest(t, singleChoiceEdit())
	sessionID := env.startSession(t, test.ID)

	err := env.svc.Session.SaveOneAnswer(ctx, sessionID,
		models.SubmittedAnswer{QuestionID: other.Questions[0].ID}, false, taker)
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	err = env.svc.Session.SaveOneAnswer(ctx, sessionID, models.SubmittedAnswer{}, false, taker)
	assert.True(t, IsValidation(err))
}

func TestSession_SelectionIsReplaced(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, singleChoiceEdit())
	sessionID := env.startSession(t, test.ID)
	q := test.Questions[0]

	save := func(content string) {
		require.NoError(t, env.svc.Session.SaveOneAnswer(ctx, sessionID,
			models.SubmittedAnswer{QuestionID: q.ID, AnswerIDs: []uint{answerByContent(t, q, content)}}, false, taker))
	}
	save("Rome")
	save("Paris")

	rows, err := env.store.CapturedAnswer().ListBySession(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, answerByContent(t, q, "Paris"), *rows[0].AnswerID)
}

func TestSession_ShortAnswerValueKeptWhenNil(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, mixedEdit())
	sessionID := env.startSession(t, test.ID)
	short := test.Questions[1]

	require.NoError(t, env.svc.Session.SaveOneAnswer(ctx, sessionID,
		models.SubmittedAnswer{QuestionID: short.ID, Value: strPtr("0.4")}, false, taker))
	require.NoError(t, env.svc.Session.SaveOneAnswer(ctx, sessionID,
		models.SubmittedAnswer{QuestionID: short.ID, Value: strPtr("2/4")}, false, taker))
	require.NoError(t, env.svc.Session.SaveOneAnswer(ctx, sessionID,
		models.SubmittedAnswer{QuestionID: short.ID}, true, taker))

	rows, err := env.store.CapturedAnswer().ListBySession(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2/4", *rows[0].Value)
	assert.Equal(t, 1, env.session(t, sessionID).Score)
}

func TestSession_BatchCleanupPolicies(t *testing.T) {
	tests := []struct {
		name       string
		policy     CleanupPolicy
		wantValues int
	}{
		{name: "choice only keeps typed values", policy: CleanupChoiceOnly, wantValues: 1},
		{name: "all removes typed values", policy: CleanupAll, wantValues: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t, func(o *Options) { o.CleanupPolicy = tt.policy })
			test := env.createTest(t, mixedEdit())
			sessionID := env.startSession(t, test.ID)
			choice, short, multi := test.Questions[0], test.Questions[1], test.Questions[2]

			require.NoError(t, env.svc.Session.SaveAnswers(ctx, sessionID, []models.SubmittedAnswer{
				{QuestionID: choice.ID, AnswerIDs: []uint{answerByContent(t, choice, "Paris")}},
				{QuestionID: short.ID, Value: strPtr("0.5")},
			}, false, taker))

			require.NoError(t, env.svc.Session.SaveAnswers(ctx, sessionID, []models.SubmittedAnswer{
				{QuestionID: multi.ID, AnswerIDs: []uint{answerByContent(t, multi, "2")}},
			}, false, taker))

			rows, err := env.store.CapturedAnswer().ListBySession(ctx, sessionID)
			require.NoError(t, err)

			var selections, values int
			for _, r := range rows {
				if r.IsFreeText() {
					values++
					continue
				}
				selections++
				assert.Equal(t, multi.ID, r.QuestionID)
			}
			assert.Equal(t, 1, selections)
			assert.Equal(t, tt.wantValues, values)
		})
	}
}

func TestSession_SingleSaveDoesNotCleanUp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, mixedEdit())
	sessionID := env.startSession(t, test.ID)
	choice, multi := test.Questions[0], test.Questions[2]

	require.NoError(t, env.svc.Session.SaveOneAnswer(ctx, sessionID,
		models.SubmittedAnswer{QuestionID: choice.ID, AnswerIDs: []uint{answerByContent(t, choice, "Paris")}}, false, taker))
	require.NoError(t, env.svc.Session.SaveOneAnswer(ctx, sessionID,
		models.SubmittedAnswer{QuestionID: multi.ID, AnswerIDs: []uint{answerByContent(t, multi, "4")}}, false, taker))

	rows, err := env.store.CapturedAnswer().ListBySession(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	edit := singleChoiceEdit()
	edit.ShuffleAnswers = true
	test := env.createTest(t, edit)

	id := env.startSession(t, test.ID)
	sess := env.session(t, id)
	assert.True(t, sess.ShuffleAnswers)
	assert.False(t, sess.ShuffleQuestions)
	assert.False(t, sess.IsCompleted)

	id, err := env.svc.Session.CreateSession(ctx, test.ID, &models.Presentation{OneQuestionAtATime: true}, taker)
	require.NoError(t, err)
	sess = env.session(t, id)
	assert.False(t, sess.ShuffleAnswers)
	assert.True(t, sess.OneQuestionAtATime)

	_, err = env.svc.Session.CreateSession(ctx, 404, nil, taker)
	assert.ErrorIs(t, err, ErrTestNotFound)

	private := singleChoiceEdit()
	private.IsPublic = false
	privateTest := env.createTest(t, private)
	_, err = env.svc.Session.CreateSession(ctx, privateTest.ID, nil, taker)
	assert.True(t, IsUnauthorized(err))
}

func TestRenderSession_HidesResultsUntilCompleted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, mixedEdit())
	sessionID := env.startSession(t, test.ID)
	choice, short := test.Questions[0], test.Questions[1]
	paris := answerByContent(t, choice, "Paris")

	require.NoError(t, env.svc.Session.SaveAnswers(ctx, sessionID, []models.SubmittedAnswer{
		{QuestionID: choice.ID, AnswerIDs: []uint{paris}},
		{QuestionID: short.ID, Value: strPtr("0.5")},
	}, false, taker))

	rendered, err := env.svc.Session.RenderSession(ctx, sessionID, taker)
	require.NoError(t, err)
	assert.False(t, rendered.IsCompleted)
	assert.Zero(t, rendered.Score)
	assert.Zero(t, rendered.MaxScore)
	require.Len(t, rendered.Questions, 3)

	for _, a := range rendered.Questions[0].Answers {
		assert.Nil(t, a.IsCorrect)
		assert.Equal(t, a.ID == paris, a.Selected)
	}
	assert.Empty(t, rendered.Questions[1].Answers)
	require.NotNil(t, rendered.Questions[1].Value)
	assert.Equal(t, "0.5", *rendered.Questions[1].Value)

	require.NoError(t, env.svc.Session.SaveAnswers(ctx, sessionID, []models.SubmittedAnswer{
		{QuestionID: choice.ID, AnswerIDs: []uint{paris}},
	}, true, taker))

	done, err := env.svc.Session.RenderSession(ctx, sessionID, taker)
	require.NoError(t, err)
	assert.Equal(t, 2, done.Score)
	assert.Equal(t, 3, done.MaxScore)
	for _, a := range done.Questions[0].Answers {
		require.NotNil(t, a.IsCorrect)
		assert.Equal(t, a.ID == paris, *a.IsCorrect)
	}
	require.Len(t, done.Questions[1].Answers, 1)
	assert.Equal(t, "0.5", done.Questions[1].Answers[0].Content)
}

func TestRenderSession_SeededShuffleIsStable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, func(o *Options) { o.ShuffleSeedPerSession = true })
	edit := &models.TestEdit{Title: "Many", IsPublic: true, ShuffleQuestions: true, ShuffleAnswers: true}
	for i := 0; i < 8; i++ {
		edit.Questions = append(edit.Questions, models.QuestionEdit{
			Content: "Q", Type: models.MultipleChoice,
			Answers: []models.AnswerEdit{{Content: "a", IsCorrect: true}, {Content: "b"}, {Content: "c"}, {Content: "d"}},
		})
	}
	test := env.createTest(t, edit)
	sessionID := env.startSession(t, test.ID)

	first, err := env.svc.Session.RenderSession(ctx, sessionID, taker)
	require.NoError(t, err)
	second, err := env.svc.Session.RenderSession(ctx, sessionID, taker)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	seen := make(map[uint]bool)
	for _, q := range first.Questions {
		seen[q.ID] = true
		assert.Len(t, q.Answers, 4)
	}
	assert.Len(t, seen, len(test.Questions))
}

func TestRenderSession_DoesNotMutateSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, singleChoiceEdit())
	sessionID := env.startSession(t, test.ID)
	before := env.session(t, sessionID)

	_, err := env.svc.Session.RenderSession(ctx, sessionID, taker)
	require.NoError(t, err)

	after := env.session(t, sessionID)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	assert.Equal(t, before.Score, after.Score)
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, singleChoiceEdit())
	env.startSession(t, test.ID)
	env.startSession(t, test.ID)

	mine, err := env.svc.Session.ListSessionsByUser(ctx, taker)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	byTest, err := env.svc.Session.ListSessionsByTest(ctx, test.ID, owner)
	require.NoError(t, err)
	assert.Len(t, byTest, 2)

	_, err = env.svc.Session.ListSessionsByTest(ctx, test.ID, taker)
	assert.True(t, IsUnauthorized(err))
}

func TestRenderSession_UnseededShuffleVariesBetweenRenders(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	edit := &models.TestEdit{Title: "Many", IsPublic: true, ShuffleQuestions: true, ShuffleAnswers: true}
	for i := 0; i < 8; i++ {
		edit.Questions = append(edit.Questions, models.QuestionEdit{
			Content: "Q", Type: models.MultipleChoice,
			Answers: []models.AnswerEdit{{Content: "a", IsCorrect: true}, {Content: "b"}, {Content: "c"}, {Content: "d"}},
		})
	}
	test := env.createTest(t, edit)
	sessionID := env.startSession(t, test.ID)

	first, err := env.svc.Session.RenderSession(ctx, sessionID, taker)
	require.NoError(t, err)
	assert.Len(t, first.Questions, len(test.Questions))

	varied := false
	for i := 0; i < 10 && !varied; i++ {
		next, err := env.svc.Session.RenderSession(ctx, sessionID, taker)
		require.NoError(t, err)
		varied = !assert.ObjectsAreEqual(first.Questions, next.Questions)
	}
	assert.True(t, varied, "renders without a per-session seed should reshuffle")
}

func TestListSessions_InProgressScoreReadsZeroAfterEdit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, singleChoiceEdit())
	sessionID := env.startSession(t, test.ID)
	q := test.Questions[0]

	err := env.svc.Session.SaveAnswers(ctx, sessionID,
		[]models.SubmittedAnswer{{QuestionID: q.ID, AnswerIDs: []uint{answerByContent(t, q, "Paris")}}}, false, taker)
	require.NoError(t, err)

	edit := editFrom(test)
	edit.Title = "Capitals, revised"
	_, err = env.svc.Test.EditTest(ctx, test.ID, edit, owner)
	require.NoError(t, err)

	mine, err := env.svc.Session.ListSessionsByUser(ctx, taker)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.False(t, mine[0].IsCompleted)
	assert.Zero(t, mine[0].Score)
	assert.Zero(t, mine[0].MaxScore)

	byTest, err := env.svc.Session.ListSessionsByTest(ctx, test.ID, "")
	require.NoError(t, err)
	require.Len(t, byTest, 1)
	assert.Zero(t, byTest[0].Score)
	assert.Zero(t, byTest[0].MaxScore)

	err = env.svc.Session.SaveOneAnswer(ctx, sessionID,
		models.SubmittedAnswer{QuestionID: q.ID, AnswerIDs: []uint{answerByContent(t, q, "Paris")}}, true, taker)
	require.NoError(t, err)

	mine, err = env.svc.Session.ListSessionsByUser(ctx, taker)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].IsCompleted)
	assert.Equal(t, 1, mine[0].Score)
	assert.Equal(t, 1, mine[0].MaxScore)
}

func TestSaveAnswers_MissingQuestionIDIsValidationError(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	test := env.createTest(t, singleChoiceEdit())
	sessionID := env.startSession(t, test.ID)

	err := env.svc.Session.SaveAnswers(ctx, sessionID, []models.SubmittedAnswer{{AnswerIDs: []uint{1}}}, false, taker)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
