package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnqueuerRepository defines the interface for task creation.
type EnqueuerRepository interface {
	CreateTask(ctx context.Context, task *Task) error
}

// Enqueuer schedules one-shot tasks.
type Enqueuer struct {
	repo EnqueuerRepository
}

// NewEnqueuer creates a new Enqueuer.
func NewEnqueuer(repo EnqueuerRepository) (*Enqueuer, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}
	return &Enqueuer{repo: repo}, nil
}

// EnqueueOption customizes a single enqueue call.
type EnqueueOption func(*enqueueOptions)

type enqueueOptions struct {
	taskName    string
	delay       time.Duration
	scheduledAt *time.Time
}

// WithTaskName overrides the task name derived from the payload type.
func WithTaskName(name string) EnqueueOption {
	return func(o *enqueueOptions) { o.taskName = name }
}

// WithDelay schedules the task delay after now.
func WithDelay(delay time.Duration) EnqueueOption {
	return func(o *enqueueOptions) { o.delay = delay }
}

// WithScheduledAt schedules the task for an absolute time, taking
// precedence over WithDelay.
func WithScheduledAt(at time.Time) EnqueueOption {
	return func(o *enqueueOptions) { o.scheduledAt = &at }
}

// Enqueue stores a new one-shot task for later execution. The task name
// defaults to the qualified struct name of the payload, matching handler
// registration via NewTaskHandler.
func (e *Enqueuer) Enqueue(ctx context.Context, payload any, opts ...EnqueueOption) error {
	if payload == nil {
		return ErrPayloadNil
	}

	options := &enqueueOptions{}
	for _, opt := range opts {
		opt(options)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload of type %T: %w", payload, err)
	}

	taskName := options.taskName
	if taskName == "" {
		taskName = qualifiedStructName(payload)
	}

	scheduledAt := time.Now()
	if options.scheduledAt != nil {
		scheduledAt = *options.scheduledAt
	} else if options.delay > 0 {
		scheduledAt = scheduledAt.Add(options.delay)
	}

	task := &Task{
		ID:          uuid.New(),
		TaskName:    taskName,
		Payload:     payloadBytes,
		Status:      TaskStatusPending,
		ScheduledAt: scheduledAt,
		CreatedAt:   time.Now(),
	}

	if err := e.repo.CreateTask(ctx, task); err != nil {
		return fmt.Errorf("failed to create task %q: %w", task.TaskName, err)
	}
	return nil
}

// qualifiedStructName derives a stable task name from the payload type,
// e.g. "dispatch.deferredEmailTask".
func qualifiedStructName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name := t.String()
	return strings.TrimPrefix(name, "*")
}
