package entity

import "time"

// TaskStatus is the lifecycle state of a SyncTask.
type TaskStatus string

const (
	TaskPending TaskStatus = "PENDING"
	TaskRunning TaskStatus = "RUNNING"
	TaskSuccess TaskStatus = "SUCCESS"
	TaskFailed  TaskStatus = "FAILED"
)

// Terminal reports whether s is SUCCESS or FAILED.
func (s TaskStatus) Terminal() bool {
	return s == TaskSuccess || s == TaskFailed
}

// SyncTask is the audit record of one extractor run.
type SyncTask struct {
	ID           string
	Market       string // source label, e.g. "NASDAQ", "BINANCE_TOP"
	Status       TaskStatus
	TotalCount   int
	SuccessCount int
	FailedCount  int
	ErrorMessage string
	StartedAt    time.Time
	CompletedAt  *time.Time // set only on terminal status
}
