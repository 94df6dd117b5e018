package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/baechuer/task-manager/internal/domain"
)

type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	if strings.TrimSpace(t.UserID) == "" {
		return domain.Task{}, domain.ErrMissingField("user_id")
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = domain.TaskPending
	}

	const q = `
INSERT INTO tasks (id, title, description, status, user_id)
VALUES ($1,$2,$3,$4,$5)
RETURNING created_at;
`
	if err := r.db.QueryRowContext(ctx, q, t.ID, t.Title, t.Description, string(t.Status), t.UserID).Scan(&t.CreatedAt); err != nil {
		return domain.Task{}, domain.ErrDBUnavailable(err)
	}
	return t, nil
}

// DeleteByUser removes every task owned by userID and reports how many went.
func (r *TaskRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, domain.ErrMissingField("user_id")
	}

	const q = `DELETE FROM tasks WHERE user_id = $1;`

	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ListByUser returns the user's tasks, oldest first.
func (r *TaskRepo) ListByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	const q = `
SELECT id, title, description, status, user_id, created_at
FROM tasks
WHERE user_id = $1
ORDER BY created_at ASC;
`
	rows, err := r.db.QueryContext(ctx, q, strings.TrimSpace(userID))
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		var (
			t      domain.Task
			status string
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &status, &t.UserID, &t.CreatedAt); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		t.Status = domain.TaskStatus(status)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}
