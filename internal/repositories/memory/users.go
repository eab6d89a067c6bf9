package memory

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

type userRepo struct{ s *Store }

func (r userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repositories.ErrRecordNotFound)
	}
	return &u, nil
}

func (r userRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.User
	for _, id := range ids {
		if u, ok := r.s.data.users[id]; ok {
			out = append(out, &u)
		}
	}
	return out, nil
}

func (r userRepo) Upsert(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if cur, ok := r.s.data.users[user.ID]; ok {
		user.CreatedAt = cur.CreatedAt
	}
	stamp(&user.CreatedAt, &user.UpdatedAt)
	r.s.data.users[user.ID] = *user
	return nil
}
