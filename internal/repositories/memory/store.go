// Package memory is an in-process repositories.Repository used by tests and
// by the service when STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

type tables struct {
	nextID    uint
	tests     map[uint]models.Test
	questions map[uint]models.Question
	answers   map[uint]models.Answer
	sessions  map[uint]models.TestSession
	captured  map[uint]models.CapturedAnswer
	users     map[string]models.User
}

func newTables() tables {
	return tables{
		tests:     map[uint]models.Test{},
		questions: map[uint]models.Question{},
		answers:   map[uint]models.Answer{},
		sessions:  map[uint]models.TestSession{},
		captured:  map[uint]models.CapturedAnswer{},
		users:     map[string]models.User{},
	}
}

// clone copies the maps; row values hold no shared slices once stored.
func (t tables) clone() tables {
	return tables{
		nextID:    t.nextID,
		tests:     maps.Clone(t.tests),
		questions: maps.Clone(t.questions),
		answers:   maps.Clone(t.answers),
		sessions:  maps.Clone(t.sessions),
		captured:  maps.Clone(t.captured),
		users:     maps.Clone(t.users),
	}
}

// Store keeps every table in maps guarded by one lock. Rows are stored by
// value with children stripped, and copied on the way in and out.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data tables
}

func NewStore() *Store {
	return &Store{data: newTables()}
}

// id hands out ids from a single sequence shared by all tables; callers hold mu.
func (s *Store) id() uint {
	s.data.nextID++
	return s.data.nextID
}

func (s *Store) Test() repositories.TestRepository                     { return testRepo{s} }
func (s *Store) Question() repositories.QuestionRepository             { return questionRepo{s} }
func (s *Store) Answer() repositories.AnswerRepository                 { return answerRepo{s} }
func (s *Store) Session() repositories.SessionRepository               { return sessionRepo{s} }
func (s *Store) CapturedAnswer() repositories.CapturedAnswerRepository { return capturedRepo{s} }
func (s *Store) User() repositories.UserRepository                     { return userRepo{s} }

// WithTransaction serializes transactions and restores a snapshot of every
// table when fn fails. Writes made outside a transaction while one is running
// are lost on rollback.
func (s *Store) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(txView{s}); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close() error                   { return nil }

// txView is handed to transaction bodies; nested transactions join the outer one.
type txView struct {
	*Store
}

func (v txView) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(v)
}

// ===== row copies =====

func stripTest(t models.Test) models.Test {
	t.Questions = nil
	t.Sessions = nil
	t.Tags = append([]byte(nil), t.Tags...)
	return t
}

func stripQuestion(q models.Question) models.Question {
	q.Answers = nil
	return q
}

func copySession(s models.TestSession) models.TestSession {
	s.CapturedAnswers = nil
	if s.CompletedAt != nil {
		at := *s.CompletedAt
		s.CompletedAt = &at
	}
	return s
}

func copyCaptured(c models.CapturedAnswer) models.CapturedAnswer {
	if c.AnswerID != nil {
		id := *c.AnswerID
		c.AnswerID = &id
	}
	if c.Value != nil {
		v := *c.Value
		c.Value = &v
	}
	return c
}

func byPosition[T any](rows []T, pos func(T) (int, uint)) {
	sort.Slice(rows, func(i, j int) bool {
		pi, ii := pos(rows[i])
		pj, ij := pos(rows[j])
		if pi != pj {
			return pi < pj
		}
		return ii < ij
	})
}

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
