package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrQueueClosed is returned by futures submitted after the queue was closed.
var ErrQueueClosed = errors.New("mutation queue closed")

// Future is the single-assignment result of a queued mutation.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the mutation has run or ctx is done. A cancelled ctx does not stop
// the mutation itself; it only stops waiting for it.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// MutationQueue runs submitted tasks one at a time, in submission order, on a single goroutine.
// Every write to the booking store goes through one queue so that the conflict check and the
// insert of a placement can never interleave with another write.
type MutationQueue struct {
	tasks  chan func()
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewMutationQueue starts the worker goroutine. buffer is the number of tasks that may wait
// before Submit blocks.
func NewMutationQueue(buffer int) *MutationQueue {
	if buffer < 0 {
		buffer = 0
	}
	q := &MutationQueue{tasks: make(chan func(), buffer)}
	q.wg.Add(1)
	go q.run()
	return q
}

func (q *MutationQueue) run() {
	defer q.wg.Done()
	for task := range q.tasks {
		task()
	}
}

// Close stops accepting tasks, runs everything already submitted and waits for the worker to exit.
func (q *MutationQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()
	q.wg.Wait()
}

// Submit enqueues fn and returns a future for its result. A panic inside fn is turned into an error
// so the worker keeps running.
func Submit[T any](q *MutationQueue, fn func() (T, error)) *Future[T] {
	f := newFuture[T]()
	task := func() {
		var (
			value T
			err   error
		)
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.resolve(zero, fmt.Errorf("mutation panicked: %v", r))
				return
			}
			f.resolve(value, err)
		}()
		value, err = fn()
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		var zero T
		f.resolve(zero, ErrQueueClosed)
		return f
	}
	q.tasks <- task
	return f
}
