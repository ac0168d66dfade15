package application

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bnema/rt-cli/internal/ports"
	"go.uber.org/zap"
)

const DefaultWorkers = 2

type DispatcherOptions struct {
	Workers int
	// WorkerLifetime is how long a worker serves before it is replaced.
	// Zero means workers never expire.
	WorkerLifetime time.Duration
	Clock          ports.Clock
	Logger         *zap.Logger
}

// Dispatcher runs operations on a fixed-size pool of workers, each with its
// own operator session. Callers submit tasks and block on their results.
type Dispatcher struct {
	factory  ports.OperatorFactory
	lifetime time.Duration
	clock    ports.Clock
	logger   *zap.Logger
	queue    *taskQueue

	mu      sync.Mutex
	workers []*worker
	spawned int
	closed  bool
	running sync.WaitGroup
}

func NewDispatcher(factory ports.OperatorFactory, opts DispatcherOptions) (*Dispatcher, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: operator factory is required", ErrInvalidArgument)
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	d := &Dispatcher{
		factory:  factory,
		lifetime: opts.WorkerLifetime,
		clock:    opts.Clock,
		logger:   opts.Logger,
		queue:    newTaskQueue(),
		workers:  make([]*worker, 0, opts.Workers),
	}

	for range opts.Workers {
		w, err := d.startWorker()
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		d.workers = append(d.workers, w)
	}

	return d, nil
}

// startWorker must be called with d.mu held once the dispatcher is shared.
func (d *Dispatcher) startWorker() (*worker, error) {
	operator, err := d.factory()
	if err != nil {
		return nil, fmt.Errorf("create operator: %w", err)
	}

	d.spawned++
	w := newWorker(d.spawned, operator, d.queue, d.lifetime, d.clock, d.logger)
	d.running.Add(1)
	go func() {
		defer d.running.Done()
		w.run(context.Background())
		d.replaceWorker(w)
	}()
	return w, nil
}

// replaceWorker starts a successor for a worker whose loop has ended, so
// tasks already queued are picked up without waiting for the next Submit.
func (d *Dispatcher) replaceWorker(w *worker) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	i := slices.Index(d.workers, w)
	if i < 0 {
		return
	}
	replacement, err := d.startWorker()
	if err != nil {
		d.logger.Error("worker not replaced", zap.Int("old_worker", w.id), zap.Error(err))
		return
	}
	d.logger.Debug("worker replaced", zap.Int("old_worker", w.id), zap.Int("worker", replacement.id))
	d.workers[i] = replacement
}

// checkWorkers replaces every dead worker with a fresh one.
func (d *Dispatcher) checkWorkers() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrPoolClosed
	}
	for i, w := range d.workers {
		if !w.isDead() {
			continue
		}
		replacement, err := d.startWorker()
		if err != nil {
			return fmt.Errorf("replace worker %d: %w", w.id, err)
		}
		d.logger.Debug("worker replaced", zap.Int("old_worker", w.id), zap.Int("worker", replacement.id))
		d.workers[i] = replacement
	}
	return nil
}

// Size is the number of workers the pool keeps running.
func (d *Dispatcher) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.workers)
}

// Submit queues an operation and returns its task without waiting.
func (d *Dispatcher) Submit(operation string, args []any, kwargs map[string]any) (*Task, error) {
	if err := d.checkWorkers(); err != nil {
		return nil, err
	}

	task := newTask(operation, args, kwargs)
	if err := d.queue.push(task); err != nil {
		return nil, err
	}
	return task, nil
}

// Await blocks until task has a result. There is no timeout; select on
// task.Done() to bound the wait.
func (d *Dispatcher) Await(task *Task) (any, error) {
	return task.Wait()
}

func (d *Dispatcher) CallAndWait(operation string, args []any, kwargs map[string]any) (any, error) {
	task, err := d.Submit(operation, args, kwargs)
	if err != nil {
		return nil, err
	}
	return d.Await(task)
}

// Close stops accepting work, fails tasks still queued with ErrPoolClosed
// and waits for running tasks to finish and their sessions to log out.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	for _, task := range d.queue.close() {
		if err := task.complete(nil, ErrPoolClosed); err != nil {
			d.logger.Error("task finished twice", zap.Stringer("task_id", task.ID), zap.Error(err))
		}
	}
	d.running.Wait()
	return nil
}
