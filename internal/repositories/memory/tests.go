package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

type testRepo struct{ s *Store }

func (r testRepo) Create(ctx context.Context, test *models.Test) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	test.ID = r.s.id()
	stamp(&test.CreatedAt, &test.UpdatedAt)
	r.s.data.tests[test.ID] = stripTest(*test)

	for i := range test.Questions {
		test.Questions[i].TestID = test.ID
		r.s.insertQuestion(&test.Questions[i])
	}
	return nil
}

func (r testRepo) GetByID(ctx context.Context, id uint) (*models.Test, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.data.tests[id]
	if !ok {
		return nil, fmt.Errorf("test %d: %w", id, repositories.ErrRecordNotFound)
	}
	t = stripTest(t)
	return &t, nil
}

func (r testRepo) GetByIDWithQuestions(ctx context.Context, id uint, includeDeleted bool) (*models.Test, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.data.tests[id]
	if !ok {
		return nil, fmt.Errorf("test %d: %w", id, repositories.ErrRecordNotFound)
	}
	t = stripTest(t)

	for _, q := range r.s.data.questions {
		if q.TestID != id || (q.IsDeleted && !includeDeleted) {
			continue
		}
		t.Questions = append(t.Questions, r.s.assembleQuestion(q))
	}
	byPosition(t.Questions, func(q models.Question) (int, uint) { return q.Position, q.ID })
	return &t, nil
}

func (r testRepo) Update(ctx context.Context, test *models.Test) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.data.tests[test.ID]
	if !ok {
		return fmt.Errorf("failed to update test %d: %w", test.ID, repositories.ErrNoRowsAffected)
	}
	cur.Title = test.Title
	cur.Description = test.Description
	cur.IsPublic = test.IsPublic
	cur.Tags = append([]byte(nil), test.Tags...)
	cur.ShuffleQuestions = test.ShuffleQuestions
	cur.ShuffleAnswers = test.ShuffleAnswers
	cur.OneQuestionAtATime = test.OneQuestionAtATime
	stamp(&cur.CreatedAt, &cur.UpdatedAt)
	r.s.data.tests[test.ID] = cur
	return nil
}

func (r testRepo) SoftDelete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.data.tests[id]
	if !ok || cur.IsDeleted {
		return fmt.Errorf("failed to delete test %d: %w", id, repositories.ErrNoRowsAffected)
	}
	cur.IsDeleted = true
	r.s.data.tests[id] = cur
	return nil
}

func (r testRepo) List(ctx context.Context, filters repositories.TestFilters) ([]*models.Test, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []*models.Test
	for _, t := range r.s.data.tests {
		if t.IsDeleted {
			continue
		}
		if filters.OwnerID != nil && t.OwnerID != *filters.OwnerID {
			continue
		}
		if filters.PublicOnly && !t.IsPublic {
			continue
		}
		row := stripTest(t)
		matched = append(matched, &row)
	}

	sortTests(matched, filters.SortBy, filters.SortOrder)
	total := int64(len(matched))

	offset := filters.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if filters.Limit > 0 && filters.Limit < len(matched) {
		matched = matched[:filters.Limit]
	}
	return matched, total, nil
}

func sortTests(tests []*models.Test, sortBy, sortOrder string) {
	less := func(a, b *models.Test) bool {
		switch sortBy {
		case "title":
			if c := strings.Compare(a.Title, b.Title); c != 0 {
				return c < 0
			}
		case "updated_at":
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.Before(b.UpdatedAt)
			}
		}
		return a.ID < b.ID
	}
	sort.Slice(tests, func(i, j int) bool {
		if sortOrder == "asc" {
			return less(tests[i], tests[j])
		}
		return less(tests[j], tests[i])
	})
}
