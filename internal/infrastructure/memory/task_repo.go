package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/task-manager/internal/domain"
)

type TaskRepo struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
}

func NewTaskRepo() *TaskRepo {
	return &TaskRepo{tasks: make(map[string]domain.Task)}
}

func (r *TaskRepo) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	if t.UserID == "" {
		return domain.Task{}, domain.ErrMissingField("user_id")
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = domain.TaskPending
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = t
	return t, nil
}

// ListByUser returns the user's tasks, oldest first.
func (r *TaskRepo) ListByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *TaskRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, t := range r.tasks {
		if t.UserID == userID {
			delete(r.tasks, id)
			n++
		}
	}
	return n, nil
}
