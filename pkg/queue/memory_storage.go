package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage implements the enqueuer and worker repositories in memory.
// Tasks do not survive a process restart; a durable implementation can be
// substituted without touching the enqueuer or worker.
type MemoryStorage struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*Task
}

// NewMemoryStorage creates a new in-memory task storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{tasks: make(map[uuid.UUID]*Task)}
}

func (ms *MemoryStorage) CreateTask(ctx context.Context, task *Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.tasks[task.ID]; exists {
		return fmt.Errorf("task with ID %s already exists", task.ID)
	}

	cp := *task
	ms.tasks[task.ID] = &cp
	return nil
}

// ClaimTask returns the earliest due pending task, marking it processing.
func (ms *MemoryStorage) ClaimTask(ctx context.Context, workerID uuid.UUID) (*Task, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	var due *Task
	for _, t := range ms.tasks {
		if t.Status != TaskStatusPending || t.ScheduledAt.After(now) {
			continue
		}
		if due == nil || t.ScheduledAt.Before(due.ScheduledAt) {
			due = t
		}
	}
	if due == nil {
		return nil, nil
	}

	due.Status = TaskStatusProcessing
	cp := *due
	return &cp, nil
}

func (ms *MemoryStorage) CompleteTask(ctx context.Context, taskID uuid.UUID) error {
	return ms.finish(taskID, TaskStatusCompleted, nil)
}

func (ms *MemoryStorage) FailTask(ctx context.Context, taskID uuid.UUID, errorMsg string) error {
	return ms.finish(taskID, TaskStatusFailed, &errorMsg)
}

func (ms *MemoryStorage) finish(taskID uuid.UUID, status TaskStatus, errMsg *string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	t, ok := ms.tasks[taskID]
	if !ok {
		return fmt.Errorf("task %s not found", taskID)
	}
	now := time.Now()
	t.Status = status
	t.ProcessedAt = &now
	t.Error = errMsg
	return nil
}

// Pending returns the number of tasks still waiting to run. Intended for
// tests and diagnostics.
func (ms *MemoryStorage) Pending() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	count := 0
	for _, t := range ms.tasks {
		if t.Status == TaskStatusPending {
			count++
		}
	}
	return count
}
