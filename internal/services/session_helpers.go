package services

import (
	"context"
	"fmt"

	apperrors "github.com/SAP-F-2025/quiz-service/internal/errors"
	"github.com/SAP-F-2025/quiz-service/internal/grading"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/shuffle"
)

// ===== CAPTURE =====

// captureAnswer writes one submitted answer and returns the question's rows as
// they stand afterwards. Choice selections replace earlier ones; a short answer
// with a nil value leaves the stored text alone.
func captureAnswer(
	ctx context.Context,
	tx repositories.Repository,
	sessionID uint,
	q *models.Question,
	a models.SubmittedAnswer,
	rows []*models.CapturedAnswer,
	index int,
) ([]*models.CapturedAnswer, error) {
	if q.Type == models.ShortAnswer {
		return captureValue(ctx, tx, sessionID, q.ID, a.Value, rows)
	}

	valid := make(map[uint]bool, len(q.Answers))
	for _, ans := range q.Answers {
		valid[ans.ID] = true
	}
	for _, id := range a.AnswerIDs {
		if !valid[id] {
			return nil, validationError(
				fmt.Sprintf("answers[%d].answer_ids", index),
				fmt.Sprintf("answer %d does not belong to question %d", id, q.ID),
				apperrors.ReasonUnknownAnswer, id)
		}
	}

	for _, r := range rows {
		if err := tx.CapturedAnswer().Delete(ctx, r.ID); err != nil {
			return nil, mapRepoError(err, ErrSessionNotFound)
		}
	}

	seen := make(map[uint]bool, len(a.AnswerIDs))
	current := make([]*models.CapturedAnswer, 0, len(a.AnswerIDs))
	for _, id := range a.AnswerIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		answerID := id
		row := &models.CapturedAnswer{SessionID: sessionID, QuestionID: q.ID, AnswerID: &answerID}
		if err := tx.CapturedAnswer().Create(ctx, row); err != nil {
			return nil, fmt.Errorf("failed to capture answer: %w", mapRepoError(err, ErrSessionNotFound))
		}
		current = append(current, row)
	}
	return current, nil
}

func captureValue(
	ctx context.Context,
	tx repositories.Repository,
	sessionID, questionID uint,
	value *string,
	rows []*models.CapturedAnswer,
) ([]*models.CapturedAnswer, error) {
	if value == nil {
		return rows, nil
	}
	text := *value

	for _, r := range rows {
		if !r.IsFreeText() {
			continue
		}
		r.Value = &text
		if err := tx.CapturedAnswer().Update(ctx, r); err != nil {
			return nil, mapRepoError(err, ErrSessionNotFound)
		}
		return rows, nil
	}

	row := &models.CapturedAnswer{SessionID: sessionID, QuestionID: questionID, Value: &text}
	if err := tx.CapturedAnswer().Create(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to capture answer: %w", mapRepoError(err, ErrSessionNotFound))
	}
	return append(rows, row), nil
}

// cleanupOmitted removes rows of active questions that a batch did not mention.
// Under CleanupChoiceOnly typed values survive.
func cleanupOmitted(
	ctx context.Context,
	tx repositories.Repository,
	questions map[uint]*models.Question,
	rows map[uint][]*models.CapturedAnswer,
	submitted map[uint]bool,
	policy CleanupPolicy,
) error {
	for questionID, list := range rows {
		if submitted[questionID] {
			continue
		}
		if _, active := questions[questionID]; !active {
			continue
		}
		for _, r := range list {
			if policy == CleanupChoiceOnly && r.IsFreeText() {
				continue
			}
			if err := tx.CapturedAnswer().Delete(ctx, r.ID); err != nil {
				return mapRepoError(err, ErrSessionNotFound)
			}
		}
	}
	return nil
}

func indexQuestions(questions []models.Question) map[uint]*models.Question {
	out := make(map[uint]*models.Question, len(questions))
	for i := range questions {
		out[questions[i].ID] = &questions[i]
	}
	return out
}

func groupRows(rows []*models.CapturedAnswer) map[uint][]*models.CapturedAnswer {
	out := make(map[uint][]*models.CapturedAnswer)
	for _, r := range rows {
		out[r.QuestionID] = append(out[r.QuestionID], r)
	}
	return out
}

// listedSessions copies sessions for listing. In-progress sessions may carry a
// live tally from a re-score, so their score reads as zero until completion.
func listedSessions(sessions []*models.TestSession) []*models.TestSession {
	out := make([]*models.TestSession, 0, len(sessions))
	for _, session := range sessions {
		listed := *session
		if !listed.IsCompleted {
			listed.Score = 0
			listed.MaxScore = 0
		}
		out = append(out, &listed)
	}
	return out
}

// ===== RENDER =====

// renderSession builds the taker's view from the live test content. Scores and
// correctness are only exposed once the session is completed.
func renderSession(session *models.TestSession, test *models.Test, captured []models.CapturedAnswer, src shuffle.Source) *models.RenderedTest {
	byQuestion := grading.GroupByQuestion(captured)

	questions := test.ActiveQuestions()
	if session.ShuffleQuestions {
		questions = shuffle.With(src, questions)
	}

	out := &models.RenderedTest{
		SessionID:    session.ID,
		TestID:       test.ID,
		Title:        test.Title,
		Description:  test.Description,
		Presentation: session.Presentation(),
		IsCompleted:  session.IsCompleted,
		Questions:    make([]models.RenderedQuestion, 0, len(questions)),
	}
	if session.IsCompleted {
		out.Score = session.Score
		out.MaxScore = session.MaxScore
	}

	for i := range questions {
		out.Questions = append(out.Questions, renderQuestion(&questions[i], byQuestion[questions[i].ID], session, src))
	}
	return out
}

func renderQuestion(q *models.Question, rows []models.CapturedAnswer, session *models.TestSession, src shuffle.Source) models.RenderedQuestion {
	rq := models.RenderedQuestion{
		ID:         q.ID,
		Content:    q.Content,
		Type:       q.Type,
		RenderMath: q.RenderMath,
		Answers:    []models.RenderedAnswer{},
	}

	if q.Type == models.ShortAnswer {
		for _, r := range rows {
			if r.IsFreeText() {
				text := *r.Value
				rq.Value = &text
				break
			}
		}
		if session.IsCompleted {
			for _, a := range q.Answers {
				correct := true
				rq.Answers = append(rq.Answers, models.RenderedAnswer{ID: a.ID, Content: a.Content, IsCorrect: &correct})
			}
		}
		return rq
	}

	selected := make(map[uint]bool, len(rows))
	for _, r := range rows {
		if r.AnswerID != nil {
			selected[*r.AnswerID] = true
		}
	}

	answers := q.Answers
	if session.ShuffleAnswers {
		answers = shuffle.With(src, answers)
	}
	for _, a := range answers {
		ra := models.RenderedAnswer{ID: a.ID, Content: a.Content, Selected: selected[a.ID]}
		if session.IsCompleted {
			correct := a.IsCorrect
			ra.IsCorrect = &correct
		}
		rq.Answers = append(rq.Answers, ra)
	}
	return rq
}
