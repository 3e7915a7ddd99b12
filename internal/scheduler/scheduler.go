package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"flatbot/pkg/logger"
	"flatbot/pkg/models"
)

var ErrInvalidDelay = errors.New("invalid reminder delay")

// DeliverFunc hands a fired reminder to the transport layer.
type DeliverFunc func(target, message string)

// Scheduler owns every reminder task for its whole lifetime. A single
// mutex guards the table; Schedule, Cancel and the firing sweep each take
// it, so a task fires XOR is cancelled, never both. Delivery runs outside
// the lock. All tasks are process-local and lost on restart.
type Scheduler struct {
	mu       sync.Mutex
	tasks    map[uuid.UUID]*models.ReminderTask
	maxDelay time.Duration
	interval time.Duration
	deliver  DeliverFunc
	now      func() time.Time
}

type Option func(*Scheduler)

// WithClock swaps the time source, so tests can drive Sweep directly.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

func New(maxDelay, sweepInterval time.Duration, deliver DeliverFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		tasks:    make(map[uuid.UUID]*models.ReminderTask),
		maxDelay: maxDelay,
		interval: sweepInterval,
		deliver:  deliver,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule registers a pending task firing after delay. The call returns
// immediately; firing happens later on the sweep goroutine.
func (s *Scheduler) Schedule(target string, delay time.Duration, message string) (uuid.UUID, error) {
	if delay <= 0 || delay > s.maxDelay {
		return uuid.Nil, ErrInvalidDelay
	}

	task := &models.ReminderTask{
		ID:      uuid.New(),
		Target:  target,
		FireAt:  s.now().Add(delay),
		Message: message,
		Status:  models.TaskPending,
	}

	s.mu.Lock()
	s.tasks[task.ID] = task
	s.mu.Unlock()

	log.Info().
		Str(logger.TaskIDField, task.ID.String()).
		Str(logger.SenderField, target).
		Time("fire_at", task.FireAt).
		Msg("reminder scheduled")
	return task.ID, nil
}

// Cancel transitions a pending task to cancelled and guarantees it will
// not fire. Absent or already-terminal tasks return false; cancelling
// mid-fire is a no-op, never a retraction.
func (s *Scheduler) Cancel(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.Status != models.TaskPending {
		return false
	}
	task.Status = models.TaskCancelled
	log.Info().Str(logger.TaskIDField, id.String()).Msg("reminder cancelled")
	return true
}

// Pending returns a snapshot of not-yet-resolved tasks, soonest first.
func (s *Scheduler) Pending() []models.ReminderTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]models.ReminderTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.Status == models.TaskPending {
			pending = append(pending, *task)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].FireAt.Before(pending[j].FireAt) })
	return pending
}

// Run drives the firing sweep until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

// Sweep fires every pending task whose deadline has elapsed. The
// pending->fired transition happens under the lock, so each task is
// delivered at most once no matter how often Sweep runs.
func (s *Scheduler) Sweep(now time.Time) {
	s.mu.Lock()
	var due []*models.ReminderTask
	for id, task := range s.tasks {
		switch {
		case task.Status == models.TaskCancelled:
			delete(s.tasks, id)
		case task.Status == models.TaskPending && !task.FireAt.After(now):
			task.Status = models.TaskFired
			due = append(due, task)
			delete(s.tasks, id)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].FireAt.Before(due[j].FireAt) })
	for _, task := range due {
		log.Info().
			Str(logger.TaskIDField, task.ID.String()).
			Str(logger.SenderField, task.Target).
			Msg("reminder fired")
		s.deliver(task.Target, task.Message)
	}
}
