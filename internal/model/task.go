package model

import "time"

// Status of a task row
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Task is one row of the task sheet
type Task struct {
	ID             int       `json:"id"` // 1-based row position within the fetch
	Category       string    `json:"category"`
	Title          string    `json:"title"`
	DueDate        string    `json:"due_date"` // raw cell text
	Status         Status    `json:"status"`
	Details        string    `json:"details"`
	DeadlineStatus Bucket    `json:"deadline_status"` // computed once at projection
	CreatedAt      time.Time `json:"created_at"`      // fetch time
}

// IsCompleted returns true if the task is done
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsOverdue returns true if the task is pending and past its due date
func (t *Task) IsOverdue() bool {
	return t.Status == StatusPending && t.DeadlineStatus == BucketOverdue
}
