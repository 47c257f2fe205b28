package job

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Func is a job body. It must return promptly once ctx is done.
type Func func(ctx context.Context) error

type Status int

const (
	StatusPending Status = iota
	StatusActive
	StatusCompleted
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

var ErrAlreadyStarted = fmt.Errorf("job: already started")

// Job is a cancellable handle to asynchronous work.
//
// A job is created pending. Start moves it to active and runs the body on
// a Scheduler; the job finishes when the body returns. A pending job that
// is cancelled, or whose parent context ends, finishes without running.
type Job struct {
	id     uuid.UUID
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	status Status
	err    error
	stop   func() bool
}

func New(parent context.Context) *Job {
	ctx, cancel := context.WithCancel(parent)
	j := &Job{
		id:     uuid.New(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	j.stop = context.AfterFunc(ctx, j.abandon)
	return j
}

// NewSupervisor returns an active job without a body. It finishes as
// cancelled when Cancel is called or the parent context ends. Its Context
// is the parent for child jobs.
func NewSupervisor(parent context.Context) *Job {
	ctx, cancel := context.WithCancel(parent)
	j := &Job{
		id:     uuid.New(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		status: StatusActive,
		stop:   func() bool { return false },
	}
	context.AfterFunc(ctx, func() {
		j.finish(ctx.Err())
	})
	return j
}

func (j *Job) ID() uuid.UUID {
	return j.id
}

// Context is cancelled when the job is cancelled.
func (j *Job) Context() context.Context {
	return j.ctx
}

func (j *Job) Start(s Scheduler, fn Func) error {
	j.mu.Lock()
	if j.status != StatusPending {
		j.mu.Unlock()
		return ErrAlreadyStarted
	}
	if err := j.ctx.Err(); err != nil {
		j.mu.Unlock()
		j.finish(err)
		return err
	}
	j.status = StatusActive
	j.mu.Unlock()
	j.stop()

	err := s.Go(func() {
		j.finish(fn(j.ctx))
	})
	if err != nil {
		j.cancel()
		j.finish(err)
	}
	return err
}

func (j *Job) Cancel() {
	j.cancel()
}

func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes or ctx is done.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the body's error, context.Canceled for a cancelled job and
// nil otherwise.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

func (j *Job) IsActive() bool {
	return j.Status() == StatusActive
}

func (j *Job) IsCancelled() bool {
	return j.Status() == StatusCancelled
}

func (j *Job) IsFinished() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

func (j *Job) String() string {
	return fmt.Sprintf("Job(%s, %s)", j.id, j.Status())
}

// abandon finishes a job that never started.
func (j *Job) abandon() {
	j.complete(j.ctx.Err(), true)
}

func (j *Job) finish(err error) {
	j.complete(err, false)
}

func (j *Job) complete(err error, onlyPending bool) {
	j.mu.Lock()
	if j.status >= StatusCompleted || (onlyPending && j.status != StatusPending) {
		j.mu.Unlock()
		return
	}
	switch {
	case err == nil:
		j.status = StatusCompleted
	case j.ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		j.status = StatusCancelled
	default:
		j.status = StatusFailed
	}
	j.err = err
	j.mu.Unlock()

	j.cancel()
	close(j.done)
}
