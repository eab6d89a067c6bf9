package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

type sessionRepo struct{ s *Store }

func (r sessionRepo) Create(ctx context.Context, session *models.TestSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.tests[session.TestID]; !ok {
		return fmt.Errorf("failed to create session: test %d: %w", session.TestID, repositories.ErrRecordNotFound)
	}
	session.ID = r.s.id()
	stamp(&session.CreatedAt, &session.UpdatedAt)
	r.s.data.sessions[session.ID] = copySession(*session)
	return nil
}

func (r sessionRepo) GetByID(ctx context.Context, id uint) (*models.TestSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sess, ok := r.s.data.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %d: %w", id, repositories.ErrRecordNotFound)
	}
	sess = copySession(sess)
	return &sess, nil
}

func (r sessionRepo) Update(ctx context.Context, session *models.TestSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.data.sessions[session.ID]
	if !ok {
		return fmt.Errorf("failed to update session %d: %w", session.ID, repositories.ErrNoRowsAffected)
	}
	next := copySession(*session)
	next.TestID = cur.TestID
	next.UserID = cur.UserID
	next.CreatedAt = cur.CreatedAt
	stamp(&next.CreatedAt, &next.UpdatedAt)
	r.s.data.sessions[session.ID] = next
	return nil
}

func (r sessionRepo) ListByTest(ctx context.Context, testID uint) ([]*models.TestSession, error) {
	return r.list(func(s models.TestSession) bool { return s.TestID == testID }), nil
}

func (r sessionRepo) ListByUser(ctx context.Context, userID string) ([]*models.TestSession, error) {
	return r.list(func(s models.TestSession) bool { return s.UserID == userID }), nil
}

func (r sessionRepo) list(keep func(models.TestSession) bool) []*models.TestSession {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.TestSession
	for _, sess := range r.s.data.sessions {
		if keep(sess) {
			row := copySession(sess)
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type capturedRepo struct{ s *Store }

func (r capturedRepo) Create(ctx context.Context, captured *models.CapturedAnswer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.sessions[captured.SessionID]; !ok {
		return fmt.Errorf("failed to capture answer: session %d: %w", captured.SessionID, repositories.ErrRecordNotFound)
	}
	captured.ID = r.s.id()
	stamp(&captured.CreatedAt, &captured.UpdatedAt)
	r.s.data.captured[captured.ID] = copyCaptured(*captured)
	return nil
}

func (r capturedRepo) Update(ctx context.Context, captured *models.CapturedAnswer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.data.captured[captured.ID]
	if !ok {
		return fmt.Errorf("failed to update captured answer %d: %w", captured.ID, repositories.ErrNoRowsAffected)
	}
	next := copyCaptured(*captured)
	cur.AnswerID = next.AnswerID
	cur.Value = next.Value
	stamp(&cur.CreatedAt, &cur.UpdatedAt)
	r.s.data.captured[captured.ID] = cur
	return nil
}

func (r capturedRepo) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.captured[id]; !ok {
		return fmt.Errorf("failed to delete captured answer %d: %w", id, repositories.ErrNoRowsAffected)
	}
	delete(r.s.data.captured, id)
	return nil
}

func (r capturedRepo) ListBySession(ctx context.Context, sessionID uint) ([]*models.CapturedAnswer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.CapturedAnswer
	for _, c := range r.s.data.captured {
		if c.SessionID == sessionID {
			row := copyCaptured(c)
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
