package parametric

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
)

// ErrExecutorClosed is returned for tasks submitted after Close
var ErrExecutorClosed = errors.New("executor is closed")

// Task is a resolved command body ready to run
type Task func(ctx context.Context) error

// Future is the pending result of a submitted task
type Future interface {
	// Wait blocks until the task completes or ctx is done. Giving up because of
	// ctx yields an interrupted InvocationError.
	Wait(ctx context.Context) error
	// Done is closed once the task has completed
	Done() <-chan struct{}
}

// Executor runs command bodies
type Executor interface {
	Submit(ctx context.Context, task Task) Future
}

type future struct {
	done chan struct{}
	err  error
}

func newFuture() *future {
	return &future{done: make(chan struct{})}
}

func (f *future) complete(err error) {
	f.err = err
	close(f.done)
}

func (f *future) Done() <-chan struct{} {
	return f.done
}

func (f *future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	default:
	}
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return derrors.NewInterruptedError(nil, ctx.Err())
	}
}

// PanicError carries a value recovered from a panicking body
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("command panicked: %v", e.Value)
}

func run(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return task(ctx)
}

// DirectExecutor runs tasks on the submitting goroutine
type DirectExecutor struct{}

// Submit runs task immediately and returns its completed future
func (DirectExecutor) Submit(ctx context.Context, task Task) Future {
	f := newFuture()
	if err := ctx.Err(); err != nil {
		f.complete(derrors.NewInterruptedError(nil, err))
		return f
	}
	f.complete(run(ctx, task))
	return f
}

type job struct {
	ctx    context.Context
	task   Task
	future *future
}

// PoolExecutor runs tasks on a fixed set of worker goroutines. A pool of one
// worker confines every command body to a single goroutine.
type PoolExecutor struct {
	jobs      chan job
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewPoolExecutor starts workers goroutines; values below one start one
func NewPoolExecutor(workers int) *PoolExecutor {
	workers = max(workers, 1)
	p := &PoolExecutor{
		jobs:   make(chan job),
		closed: make(chan struct{}),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

func (p *PoolExecutor) work() {
	defer p.wg.Done()
	for {
		select {
		case j := <-p.jobs:
			if err := j.ctx.Err(); err != nil {
				j.future.complete(derrors.NewInterruptedError(nil, err))
				continue
			}
			j.future.complete(run(j.ctx, j.task))
		case <-p.closed:
			return
		}
	}
}

// Submit hands task to a worker, waiting for one to be free
func (p *PoolExecutor) Submit(ctx context.Context, task Task) Future {
	f := newFuture()
	select {
	case <-p.closed:
		f.complete(ErrExecutorClosed)
		return f
	default:
	}

	select {
	case p.jobs <- job{ctx: ctx, task: task, future: f}:
	case <-ctx.Done():
		f.complete(derrors.NewInterruptedError(nil, ctx.Err()))
	case <-p.closed:
		f.complete(ErrExecutorClosed)
	}
	return f
}

// Close stops the workers after their current task
func (p *PoolExecutor) Close() error {
	p.closeOnce.Do(func() { close(p.closed) })
	p.wg.Wait()
	return nil
}
