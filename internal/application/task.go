package application

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Task is one queued operation and its single-assignment result slot.
type Task struct {
	ID        uuid.UUID
	Operation string
	Args      []any
	Kwargs    map[string]any

	mu     sync.Mutex
	ready  bool
	done   chan struct{}
	result any
	err    error
}

func newTask(operation string, args []any, kwargs map[string]any) *Task {
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return &Task{
		ID:        uuid.New(),
		Operation: operation,
		Args:      args,
		Kwargs:    kwargs,
		done:      make(chan struct{}),
	}
}

// complete stores the outcome and releases waiters. It fails if an outcome
// was already stored; the first one is kept.
func (t *Task) complete(result any, err error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ready {
		return fmt.Errorf("%w: %s", ErrResultAlreadySet, t)
	}
	t.ready = true
	t.result = result
	t.err = err
	close(t.done)
	return nil
}

// Done is closed once the task has a result.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task has a result.
func (t *Task) Wait() (any, error) {
	<-t.done
	return t.result, t.err
}

func (t *Task) String() string {
	parts := make([]string, 0, len(t.Args)+len(t.Kwargs))
	for _, arg := range t.Args {
		parts = append(parts, fmt.Sprintf("%v", arg))
	}
	for _, key := range slices.Sorted(maps.Keys(t.Kwargs)) {
		parts = append(parts, fmt.Sprintf("%s=%v", key, t.Kwargs[key]))
	}
	return fmt.Sprintf("%s(%s)", t.Operation, strings.Join(parts, ", "))
}
