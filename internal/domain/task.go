package domain

import "time"

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Task is owned by a single user. Deleting the owner deletes its tasks.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	UserID      string
	CreatedAt   time.Time
}
