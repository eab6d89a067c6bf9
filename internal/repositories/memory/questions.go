package memory

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

// insertQuestion stores q and its answers, filling in ids; callers hold mu.
func (s *Store) insertQuestion(q *models.Question) {
	q.ID = s.id()
	stamp(&q.CreatedAt, &q.UpdatedAt)
	s.data.questions[q.ID] = stripQuestion(*q)

	for i := range q.Answers {
		q.Answers[i].QuestionID = q.ID
		s.insertAnswer(&q.Answers[i])
	}
}

func (s *Store) insertAnswer(a *models.Answer) {
	a.ID = s.id()
	stamp(&a.CreatedAt, &a.UpdatedAt)
	s.data.answers[a.ID] = *a
}

// assembleQuestion attaches the question's answers in position order; callers hold mu.
func (s *Store) assembleQuestion(q models.Question) models.Question {
	q = stripQuestion(q)
	for _, a := range s.data.answers {
		if a.QuestionID == q.ID {
			q.Answers = append(q.Answers, a)
		}
	}
	byPosition(q.Answers, func(a models.Answer) (int, uint) { return a.Position, a.ID })
	return q
}

type questionRepo struct{ s *Store }

func (r questionRepo) Create(ctx context.Context, question *models.Question) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.tests[question.TestID]; !ok {
		return fmt.Errorf("failed to create question: test %d: %w", question.TestID, repositories.ErrRecordNotFound)
	}
	r.s.insertQuestion(question)
	return nil
}

func (r questionRepo) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q, ok := r.s.data.questions[id]
	if !ok {
		return nil, fmt.Errorf("question %d: %w", id, repositories.ErrRecordNotFound)
	}
	q = r.s.assembleQuestion(q)
	return &q, nil
}

func (r questionRepo) Update(ctx context.Context, question *models.Question) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.data.questions[question.ID]
	if !ok {
		return fmt.Errorf("failed to update question %d: %w", question.ID, repositories.ErrNoRowsAffected)
	}
	cur.Content = question.Content
	cur.Type = question.Type
	cur.RenderMath = question.RenderMath
	cur.Position = question.Position
	stamp(&cur.CreatedAt, &cur.UpdatedAt)
	r.s.data.questions[question.ID] = cur
	return nil
}

func (r questionRepo) SoftDelete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.data.questions[id]
	if !ok {
		return fmt.Errorf("failed to delete question %d: %w", id, repositories.ErrNoRowsAffected)
	}
	cur.IsDeleted = true
	r.s.data.questions[id] = cur
	return nil
}

type answerRepo struct{ s *Store }

func (r answerRepo) Create(ctx context.Context, answer *models.Answer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.questions[answer.QuestionID]; !ok {
		return fmt.Errorf("failed to create answer: question %d: %w", answer.QuestionID, repositories.ErrRecordNotFound)
	}
	r.s.insertAnswer(answer)
	return nil
}

func (r answerRepo) Update(ctx context.Context, answer *models.Answer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.data.answers[answer.ID]
	if !ok {
		return fmt.Errorf("failed to update answer %d: %w", answer.ID, repositories.ErrNoRowsAffected)
	}
	cur.Content = answer.Content
	cur.IsCorrect = answer.IsCorrect
	cur.Position = answer.Position
	stamp(&cur.CreatedAt, &cur.UpdatedAt)
	r.s.data.answers[answer.ID] = cur
	return nil
}

func (r answerRepo) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.answers[id]; !ok {
		return fmt.Errorf("failed to delete answer %d: %w", id, repositories.ErrNoRowsAffected)
	}
	delete(r.s.data.answers, id)
	return nil
}
