package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/grading"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxTitleRunes   = 200
	copySuffix      = " (copy)"
)

type rescoredSession struct {
	session   *models.TestSession
	prevScore int
	prevMax   int
}

// reconcile merges edit into the persisted test and re-scores every session
// of the test over the merged question set, soft-deleted questions included.
// Nothing is written unless authorization and validation pass.
func (s *testService) reconcile(ctx context.Context, id uint, edit *models.TestEdit, actingUserID string) (*models.Test, []rescoredSession, error) {
	persisted, err := s.repo.Test().GetByIDWithQuestions(ctx, id, true)
	if err != nil {
		return nil, nil, mapRepoError(err, ErrTestNotFound)
	}
	if persisted.IsDeleted {
		return nil, nil, ErrTestNotFound
	}

	if actingUserID != "" && actingUserID != persisted.OwnerID {
		return nil, nil, NewPermissionError(actingUserID, id, "test", "edit", "not the test owner")
	}

	if edit == nil {
		return nil, nil, fmt.Errorf("%w: test content is required", ErrValidationFailed)
	}
	if err := s.validator.ValidateTestEdit(edit); err != nil {
		return nil, nil, validationFailure(err)
	}

	var (
		result   *models.Test
		rescored []rescoredSession
	)
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		applyTestFields(persisted, edit)
		if err := tx.Test().Update(ctx, persisted); err != nil {
			return mapRepoError(err, ErrTestNotFound)
		}

		active := persisted.ActiveQuestions()
		res, err := mergeChildren(active, edit.Questions, questionMergeOps(ctx, tx, persisted.ID))
		if err != nil {
			return err
		}
		s.logger.Debug("Merged questions", "test_id", id,
			"updated", res.Updated, "inserted", res.Inserted, "soft_deleted", res.Removed)

		merged, err := tx.Test().GetByIDWithQuestions(ctx, id, true)
		if err != nil {
			return mapRepoError(err, ErrTestNotFound)
		}

		rescored, err = rescoreSessions(ctx, tx, merged)
		if err != nil {
			return err
		}

		merged.Questions = merged.ActiveQuestions()
		result = merged
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return result, rescored, nil
}

func questionMergeOps(ctx context.Context, tx repositories.Repository, testID uint) mergeOps[models.Question, models.QuestionEdit] {
	return mergeOps[models.Question, models.QuestionEdit]{
		persistedKey: func(q models.Question) uint { return q.ID },
		incomingKey:  func(q models.QuestionEdit) uint { return q.ID },
		update: func(q models.Question, in models.QuestionEdit, position int) error {
			q.Content = in.Content
			q.Type = in.Type
			q.RenderMath = in.RenderMath
			q.Position = position
			if err := tx.Question().Update(ctx, &q); err != nil {
				return mapRepoError(err, ErrQuestionNotFound)
			}
			_, err := mergeChildren(q.Answers, in.Answers, answerMergeOps(ctx, tx, q.ID))
			return err
		},
		insert: func(in models.QuestionEdit, position int) error {
			q := newQuestionFromEdit(in, position)
			q.TestID = testID
			if err := tx.Question().Create(ctx, &q); err != nil {
				return fmt.Errorf("failed to insert question: %w", mapRepoError(err, ErrTestNotFound))
			}
			return nil
		},
		remove: func(q models.Question) error {
			return mapRepoError(tx.Question().SoftDelete(ctx, q.ID), ErrQuestionNotFound)
		},
	}
}

func answerMergeOps(ctx context.Context, tx repositories.Repository, questionID uint) mergeOps[models.Answer, models.AnswerEdit] {
	return mergeOps[models.Answer, models.AnswerEdit]{
		persistedKey: func(a models.Answer) uint { return a.ID },
		incomingKey:  func(a models.AnswerEdit) uint { return a.ID },
		update: func(a models.Answer, in models.AnswerEdit, position int) error {
			a.Content = in.Content
			a.IsCorrect = in.IsCorrect
			a.Position = position
			return mapRepoError(tx.Answer().Update(ctx, &a), ErrQuestionNotFound)
		},
		insert: func(in models.AnswerEdit, position int) error {
			a := newAnswerFromEdit(in, position)
			a.QuestionID = questionID
			if err := tx.Answer().Create(ctx, &a); err != nil {
				return fmt.Errorf("failed to insert answer: %w", mapRepoError(err, ErrQuestionNotFound))
			}
			return nil
		},
		remove: func(a models.Answer) error {
			return mapRepoError(tx.Answer().Delete(ctx, a.ID), ErrQuestionNotFound)
		},
	}
}

// rescoreSessions replays every session's captured answers against the test's
// questions and stores changed results. Completion flags are left as they are.
func rescoreSessions(ctx context.Context, tx repositories.Repository, test *models.Test) ([]rescoredSession, error) {
	sessions, err := tx.Session().ListByTest(ctx, test.ID)
	if err != nil {
		return nil, err
	}

	var changed []rescoredSession
	for _, sess := range sessions {
		rows, err := tx.CapturedAnswer().ListBySession(ctx, sess.ID)
		if err != nil {
			return nil, err
		}

		score, max := grading.Score(test.Questions, derefCaptured(rows))
		if score == sess.Score && max == sess.MaxScore {
			continue
		}

		r := rescoredSession{session: sess, prevScore: sess.Score, prevMax: sess.MaxScore}
		sess.Score, sess.MaxScore = score, max
		if err := tx.Session().Update(ctx, sess); err != nil {
			return nil, mapRepoError(err, ErrSessionNotFound)
		}
		changed = append(changed, r)
	}
	return changed, nil
}

// ===== BUILDERS =====

func newTestFromEdit(edit *models.TestEdit, ownerID string) *models.Test {
	test := &models.Test{OwnerID: ownerID}
	applyTestFields(test, edit)
	for i, q := range edit.Questions {
		test.Questions = append(test.Questions, newQuestionFromEdit(q, i))
	}
	return test
}

func applyTestFields(test *models.Test, edit *models.TestEdit) {
	test.Title = edit.Title
	test.Description = edit.Description
	test.IsPublic = edit.IsPublic
	test.ShuffleQuestions = edit.ShuffleQuestions
	test.ShuffleAnswers = edit.ShuffleAnswers
	test.OneQuestionAtATime = edit.OneQuestionAtATime
	test.Tags = models.EncodeTags(edit.Tags)
}

func newQuestionFromEdit(in models.QuestionEdit, position int) models.Question {
	q := models.Question{
		Content:    in.Content,
		Type:       in.Type,
		RenderMath: in.RenderMath,
		Position:   position,
	}
	for i, a := range in.Answers {
		q.Answers = append(q.Answers, newAnswerFromEdit(a, i))
	}
	return q
}

func newAnswerFromEdit(in models.AnswerEdit, position int) models.Answer {
	return models.Answer{
		Content:   in.Content,
		IsCorrect: in.IsCorrect,
		Position:  position,
	}
}

// duplicateOf deep-copies the active tree of source into a new private test.
func duplicateOf(source *models.Test, ownerID string) *models.Test {
	dup := &models.Test{
		Title:              copyTitle(source.Title),
		Description:        source.Description,
		IsPublic:           false,
		ShuffleQuestions:   source.ShuffleQuestions,
		ShuffleAnswers:     source.ShuffleAnswers,
		OneQuestionAtATime: source.OneQuestionAtATime,
		Tags:               append([]byte(nil), source.Tags...),
		OwnerID:            ownerID,
	}
	for i, q := range source.ActiveQuestions() {
		nq := models.Question{
			Content:    q.Content,
			Type:       q.Type,
			RenderMath: q.RenderMath,
			Position:   i,
		}
		for j, a := range q.Answers {
			nq.Answers = append(nq.Answers, models.Answer{Content: a.Content, IsCorrect: a.IsCorrect, Position: j})
		}
		dup.Questions = append(dup.Questions, nq)
	}
	return dup
}

func copyTitle(title string) string {
	runes := []rune(title)
	keep := maxTitleRunes - len([]rune(copySuffix))
	if len(runes) > keep {
		runes = runes[:keep]
	}
	return string(runes) + copySuffix
}

// redactAnswers hides correctness and short-answer references from non-owners.
func redactAnswers(test *models.Test) {
	for i := range test.Questions {
		q := &test.Questions[i]
		if q.Type == models.ShortAnswer {
			q.Answers = nil
			continue
		}
		for j := range q.Answers {
			q.Answers[j].IsCorrect = false
		}
	}
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func newListResponse(tests []*models.Test, total int64, limit, offset int) *TestListResponse {
	resp := &TestListResponse{
		Tests:  make([]TestSummary, 0, len(tests)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, t := range tests {
		resp.Tests = append(resp.Tests, TestSummary{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			IsPublic:    t.IsPublic,
			OwnerID:     t.OwnerID,
			Tags:        t.TagList(),
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		})
	}
	return resp
}

func derefCaptured(rows []*models.CapturedAnswer) []models.CapturedAnswer {
	out := make([]models.CapturedAnswer, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}
