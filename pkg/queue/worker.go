package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WorkerRepository defines the interface for worker operations.
type WorkerRepository interface {
	// ClaimTask atomically claims the next due pending task, or returns
	// nil when none is due.
	ClaimTask(ctx context.Context, workerID uuid.UUID) (*Task, error)

	// CompleteTask marks the task as completed.
	CompleteTask(ctx context.Context, taskID uuid.UUID) error

	// FailTask marks the task as failed with the given error message.
	FailTask(ctx context.Context, taskID uuid.UUID, errorMsg string) error
}

// Worker polls the repository for due tasks and runs registered handlers.
// Each task is attempted exactly once.
type Worker struct {
	repo     WorkerRepository
	handlers map[string]Handler
	workerID uuid.UUID
	mu       sync.RWMutex

	pullInterval time.Duration
	logger       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithPullInterval sets how often the worker polls for due tasks.
func WithPullInterval(interval time.Duration) WorkerOption {
	return func(w *Worker) {
		if interval > 0 {
			w.pullInterval = interval
		}
	}
}

// WithWorkerLogger sets the worker's logger.
func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWorker creates a new task worker.
func NewWorker(repo WorkerRepository, opts ...WorkerOption) (*Worker, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}

	w := &Worker{
		repo:         repo,
		handlers:     make(map[string]Handler),
		workerID:     uuid.New(),
		pullInterval: time.Second,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// RegisterHandlers registers task handlers by name.
func (w *Worker) RegisterHandlers(handlers ...Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, h := range handlers {
		if h != nil {
			w.handlers[h.Name()] = h
		}
	}
}

// Start begins processing tasks in the background until Stop is called or
// the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return fmt.Errorf("worker already started")
	}
	if len(w.handlers) == 0 {
		w.mu.Unlock()
		return ErrNoHandlers
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run()

	w.logger.Info("queue worker started",
		slog.String("worker_id", w.workerID.String()),
		slog.Duration("pull_interval", w.pullInterval))
	return nil
}

// Stop halts task processing and waits for the in-flight task to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *Worker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pullInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.processDue()
		}
	}
}

// processDue drains everything currently due so a burst of deferred emails
// does not wait one pull interval per task.
func (w *Worker) processDue() {
	for {
		task, err := w.repo.ClaimTask(w.ctx, w.workerID)
		if err != nil {
			w.logger.Error("failed to claim task", slog.Any("error", err))
			return
		}
		if task == nil {
			return
		}
		w.process(task)
	}
}

func (w *Worker) process(task *Task) {
	w.mu.RLock()
	handler, ok := w.handlers[task.TaskName]
	w.mu.RUnlock()

	if !ok {
		_ = w.repo.FailTask(w.ctx, task.ID, ErrHandlerNotFound.Error())
		w.logger.Warn("no handler for task",
			slog.String("task_id", task.ID.String()),
			slog.String("task_name", task.TaskName))
		return
	}

	if err := w.runHandler(handler, task); err != nil {
		_ = w.repo.FailTask(w.ctx, task.ID, err.Error())
		w.logger.Warn("task failed",
			slog.String("task_id", task.ID.String()),
			slog.String("task_name", task.TaskName),
			slog.Any("error", err))
		return
	}

	_ = w.repo.CompleteTask(w.ctx, task.ID)
}

func (w *Worker) runHandler(handler Handler, task *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task handler panicked: %v", r)
		}
	}()
	return handler.Handle(w.ctx, task.Payload)
}
