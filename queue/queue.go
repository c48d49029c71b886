package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// ErrStopped is returned when pushing tasks to a stopped queue.
var ErrStopped = errors.New("queue stopped")

// Queue represents a queue where tasks to develop
// tree nodes can be pushed and pulled. A worker uses
// the Pull method to obtain a task, processes it and
// then either completes it or drops it halfway.
//
// All its methods have a context.Context as first
// parameter that implementations may use to allow
// timeouts and cancellations on the Queue operations.
type Queue interface {
	// Push takes a task and stores it in the queue or
	// returns an error. The task will count as pending.
	Push(context.Context, *Task) error
	// Pull returns a task and a context that is cancelled
	// when the queue is stopped, or an error.
	// The pulled task counts as running from then on.
	// If there are no tasks to pull, implementations
	// return 3 nil values.
	Pull(context.Context) (*Task, context.Context, error)
	// Drop takes the ID of a running task and makes it
	// pending again, ahead of any other pending task.
	// Dropping a task that is not running does nothing.
	Drop(context.Context, string) error
	// Complete takes the ID of a running task and
	// removes it from the queue.
	Complete(context.Context, string) error
	// Count returns the number of pending and running
	// tasks in the queue, in that order, or an error.
	Count(context.Context) (int, int, error)
	// Stop cancels the contexts of pulled tasks and
	// rejects any further push.
	Stop(context.Context) error
}

type memQueue struct {
	pending   []*Task
	running   map[string]*Task
	stopped   bool
	lock      sync.Mutex
	ctx       context.Context
	ctxCancel context.CancelFunc
}

// New returns a queue backed only by the process memory.
// It is safe for concurrent use by multiple goroutines.
func New() Queue {
	ctx, cancel := context.WithCancel(context.Background())
	return &memQueue{
		running:   make(map[string]*Task),
		ctx:       ctx,
		ctxCancel: cancel,
	}
}

func (mq *memQueue) Push(ctx context.Context, t *Task) error {
	return mq.withLock(ctx, func() error {
		if mq.stopped {
			return errors.Wrapf(ErrStopped, "pushing task %s", t.ID())
		}
		mq.pending = append(mq.pending, t)
		return nil
	})
}

func (mq *memQueue) Pull(ctx context.Context) (*Task, context.Context, error) {
	var task *Task
	err := mq.withLock(ctx, func() error {
		if len(mq.pending) == 0 {
			return nil
		}
		task = mq.pending[0]
		mq.pending[0] = nil
		mq.pending = mq.pending[1:]
		mq.running[task.ID()] = task
		return nil
	})
	if err != nil || task == nil {
		return nil, nil, err
	}
	return task, mq.ctx, nil
}

func (mq *memQueue) Drop(ctx context.Context, id string) error {
	return mq.withLock(ctx, func() error {
		t, ok := mq.running[id]
		if !ok {
			return nil
		}
		delete(mq.running, id)
		mq.pending = append([]*Task{t}, mq.pending...)
		return nil
	})
}

func (mq *memQueue) Complete(ctx context.Context, id string) error {
	return mq.withLock(ctx, func() error {
		delete(mq.running, id)
		return nil
	})
}

func (mq *memQueue) Count(ctx context.Context) (int, int, error) {
	var pending, running int
	err := mq.withLock(ctx, func() error {
		pending = len(mq.pending)
		running = len(mq.running)
		return nil
	})
	return pending, running, err
}

func (mq *memQueue) Stop(ctx context.Context) error {
	return mq.withLock(ctx, func() error {
		mq.stopped = true
		mq.ctxCancel()
		return nil
	})
}

func (mq *memQueue) String() string {
	mq.lock.Lock()
	defer mq.lock.Unlock()
	return fmt.Sprintf("{Queue pending: %d running: %d}", len(mq.pending), len(mq.running))
}

// withLock runs f holding the queue lock unless ctx is done
// before the lock can be acquired.
func (mq *memQueue) withLock(ctx context.Context, f func() error) error {
	gotLock := make(chan struct{})
	go func() {
		mq.lock.Lock()
		select {
		case <-ctx.Done():
			mq.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer mq.lock.Unlock()
	}
	return f()
}
