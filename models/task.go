package models

import (
	"fmt"
	"math/rand"
	"time"
)

// TaskStatus represents the status of an async refresh task
type TaskStatus string

const (
	TaskStatusQueued     TaskStatus = "queued"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// RefreshTask represents an async product refresh
type RefreshTask struct {
	ID          string           `json:"id"`
	ProductID   int              `json:"product_id"`
	Status      TaskStatus       `json:"status"`
	Message     string           `json:"message"`
	Result      *ProductSnapshot `json:"result,omitempty"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// NewRefreshTask creates a new queued refresh task
func NewRefreshTask(productID int) *RefreshTask {
	return &RefreshTask{
		ID:        generateTaskID(),
		ProductID: productID,
		Status:    TaskStatusQueued,
		Message:   "Task queued for processing",
		CreatedAt: time.Now(),
	}
}

// Start marks the task as processing
func (t *RefreshTask) Start() {
	t.Status = TaskStatusProcessing
	t.Message = "Refreshing product..."
	now := time.Now()
	t.StartedAt = &now
}

// Complete marks the task as completed with the fresh snapshot
func (t *RefreshTask) Complete(result *ProductSnapshot) {
	t.Status = TaskStatusCompleted
	t.Message = "Refresh completed successfully"
	t.Result = result
	now := time.Now()
	t.CompletedAt = &now
}

// Fail marks the task as failed with an error message
func (t *RefreshTask) Fail(errMsg string) {
	t.Status = TaskStatusFailed
	t.Message = "Refresh failed"
	t.Error = errMsg
	now := time.Now()
	t.CompletedAt = &now
}

// IsCompleted returns true if the task is in a final state
func (t *RefreshTask) IsCompleted() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}

// IsActive returns true if the task is still running
func (t *RefreshTask) IsActive() bool {
	return t.Status == TaskStatusQueued || t.Status == TaskStatusProcessing
}

// Duration returns how long the task has been (or was) running
func (t *RefreshTask) Duration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}

	endTime := time.Now()
	if t.CompletedAt != nil {
		endTime = *t.CompletedAt
	}

	return endTime.Sub(*t.StartedAt)
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return fmt.Sprintf("task_%s_%06d", time.Now().Format("20060102150405"), rand.Intn(1000000))
}
