package application

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bnema/rt-cli/internal/ports"
	"github.com/bnema/rt-cli/internal/protocol"
	"go.uber.org/zap"
)

// worker owns one operator session and processes tasks from the shared
// queue one at a time until it is killed or outlives its lifetime.
type worker struct {
	id       int
	operator ports.Operator
	queue    *taskQueue
	clock    ports.Clock
	logger   *zap.Logger

	startedAt time.Time
	lifetime  time.Duration
	killed    atomic.Bool
	done      chan struct{}
}

func newWorker(id int, operator ports.Operator, queue *taskQueue, lifetime time.Duration, clock ports.Clock, logger *zap.Logger) *worker {
	return &worker{
		id:        id,
		operator:  operator,
		queue:     queue,
		clock:     clock,
		logger:    logger.With(zap.Int("worker", id)),
		startedAt: clock.Now(),
		lifetime:  lifetime,
		done:      make(chan struct{}),
	}
}

// isDead reports whether the worker was killed or has expired. A
// non-positive lifetime never expires.
func (w *worker) isDead() bool {
	return w.killed.Load() || w.expired()
}

func (w *worker) expired() bool {
	if w.lifetime <= 0 {
		return false
	}
	return !w.clock.Now().Before(w.startedAt.Add(w.lifetime))
}

func (w *worker) kill() {
	w.killed.Store(true)
}

func (w *worker) run(ctx context.Context) {
	defer close(w.done)
	defer w.dispose(ctx)

	// A worker always takes at least one task, so a successor started for a
	// dead worker cannot spin.
	for {
		task, ok := w.queue.pop()
		if !ok {
			return
		}
		w.logger.Debug("task received", zap.Stringer("task_id", task.ID), zap.Stringer("task", task))

		result, err := w.perform(ctx, task)
		if err != nil && protocol.IsAuthenticationError(err) {
			// The session most likely expired; start a new one and try once more.
			w.logger.Debug("retrying task after authentication failure", zap.Stringer("task_id", task.ID), zap.Error(err))
			if _, logoutErr := w.operator.Logout(ctx); logoutErr != nil {
				err = fmt.Errorf("logout before retry: %w", logoutErr)
			} else {
				result, err = w.perform(ctx, task)
			}
		}
		if err != nil {
			result = nil
			w.kill()
			w.logger.Debug("worker killed", zap.Stringer("task_id", task.ID), zap.Error(err))
		}

		if completeErr := task.complete(result, err); completeErr != nil {
			w.logger.Error("task finished twice", zap.Stringer("task_id", task.ID), zap.Error(completeErr))
		}
		if w.isDead() {
			return
		}
	}
}

func (w *worker) perform(ctx context.Context, task *Task) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %s: %v", ErrOperationPanic, task.Operation, r)
		}
	}()

	if !w.operator.LoggedIn() {
		if _, err := w.operator.Login(ctx); err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
	}
	return w.operator.Perform(ctx, task.Operation, task.Args, task.Kwargs)
}

func (w *worker) dispose(ctx context.Context) {
	if _, err := w.operator.Logout(ctx); err != nil {
		w.logger.Warn("logout failed while disposing of worker", zap.Error(err))
	}
}
