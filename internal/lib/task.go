package lib

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dragon-bot-z/dragonfire-client/internal/interfaces"
)

var ErrTaskRunning = errors.New("task is already running")

// Task runs a function in a separate goroutine. Task can be started once and stopped any number of times.
type Task struct {
	// config
	name    string
	runFunc func(ctx context.Context) error

	// state
	isRunning atomic.Bool
	cancel    context.CancelFunc
	stopCh    chan struct{} // closed when runFunc returned for any reason
	doneCh    chan struct{} // closed when runFunc returned not because of Stop()
	err       error
	mutex     sync.Mutex
}

// NewTask creates a task from Runnable
func NewTask(name string, runnable interfaces.Runnable) *Task {
	return NewTaskFunc(name, runnable.Run)
}

// NewTaskFunc creates a task from function
func NewTaskFunc(name string, f func(ctx context.Context) error) *Task {
	return &Task{
		name:    name,
		runFunc: f,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

func (t *Task) Name() string {
	return t.name
}

func (t *Task) Start(ctx context.Context) error {
	if !t.isRunning.CompareAndSwap(false, true) {
		return ErrTaskRunning
	}

	subCtx, cancel := context.WithCancel(ctx)

	t.mutex.Lock()
	t.cancel = cancel
	t.mutex.Unlock()

	go func() {
		err := t.runFunc(subCtx)
		isContextErr := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		stoppedByCaller := ctx.Err() == nil && subCtx.Err() != nil && (err == nil || isContextErr)

		t.mutex.Lock()
		if !stoppedByCaller {
			t.err = err
		}
		t.mutex.Unlock()

		if !stoppedByCaller {
			close(t.doneCh)
		}
		close(t.stopCh)
		cancel()
	}()

	return nil
}

// Stop cancels the task context and returns a channel that is closed when the task function returns.
// Safe to call on a task that was never started or already exited.
func (t *Task) Stop() <-chan struct{} {
	t.mutex.Lock()
	cancel := t.cancel
	t.mutex.Unlock()

	if cancel == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	cancel()
	return t.stopCh
}

// Done is closed when the task exited on its own or due to cancellation of the parent context.
// It is not closed when the task is stopped with Stop()
func (t *Task) Done() <-chan struct{} {
	return t.doneCh
}

// Err returns the error that caused the task to exit
func (t *Task) Err() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.err
}
