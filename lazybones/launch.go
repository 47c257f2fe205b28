package lazybones

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/krew-solutions/lazybones-go/lazybones/job"
	"github.com/krew-solutions/lazybones-go/lazybones/lazy"
	"github.com/krew-solutions/lazybones-go/lazybones/lifecycle"
	"github.com/krew-solutions/lazybones-go/lazybones/metrics"
)

var ErrInvalidState = fmt.Errorf("lazybones: repeating jobs need created, started or resumed")

// LaunchWhenCreated runs block once the owner is created. The job is
// cancelled when the owner is destroyed.
func LaunchWhenCreated(owner lifecycle.Owner, block job.Func, opts ...Option) *Property[*job.Job] {
	return launchWhen(owner, lifecycle.StateCreated, block, opts)
}

// LaunchWhenStarted runs block once the owner is started. The job is
// cancelled when the owner stops.
func LaunchWhenStarted(owner lifecycle.Owner, block job.Func, opts ...Option) *Property[*job.Job] {
	return launchWhen(owner, lifecycle.StateStarted, block, opts)
}

// LaunchWhenResumed runs block once the owner is resumed. The job is
// cancelled when the owner pauses.
func LaunchWhenResumed(owner lifecycle.Owner, block job.Func, opts ...Option) *Property[*job.Job] {
	return launchWhen(owner, lifecycle.StateResumed, block, opts)
}

func CollectWhenCreated[T any](owner lifecycle.Owner, flow Flow[T], fn func(T), opts ...Option) *Property[*job.Job] {
	return launchWhen(owner, lifecycle.StateCreated, collect(flow, fn), opts)
}

func CollectWhenStarted[T any](owner lifecycle.Owner, flow Flow[T], fn func(T), opts ...Option) *Property[*job.Job] {
	return launchWhen(owner, lifecycle.StateStarted, collect(flow, fn), opts)
}

func CollectWhenResumed[T any](owner lifecycle.Owner, flow Flow[T], fn func(T), opts ...Option) *Property[*job.Job] {
	return launchWhen(owner, lifecycle.StateResumed, collect(flow, fn), opts)
}

// AddRepeatingJob runs a fresh job every time the owner enters state and
// cancels it every time the owner leaves it. The returned handle stops the
// repetition when cancelled; destroying the owner does the same.
func AddRepeatingJob(owner lifecycle.Owner, state lifecycle.State, block job.Func, opts ...Option) (*Property[*job.Job], error) {
	if state < lifecycle.StateCreated || state > lifecycle.StateResumed {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, state)
	}
	o := newOptions(opts)
	lc := owner.Lifecycle()
	supervisor := job.NewSupervisor(lc.Context())
	r := &repeater{
		min:        state,
		block:      block,
		supervisor: supervisor,
		scheduler:  lc.Scheduler(),
		logger:     o.logger.With(slog.String("job_id", supervisor.ID().String())),
		metrics:    o.metrics,
	}
	d := lc.AddObserver(lifecycle.ObserverFunc(r.onStateChanged))
	context.AfterFunc(supervisor.Context(), d.Dispose)
	return newProperty(owner, lazy.New(func() *job.Job { return supervisor }, o.mode), o.metrics), nil
}

// CollectRepeating collects flow in a fresh job every time the owner enters
// state, and stops collecting when it leaves.
func CollectRepeating[T any](owner lifecycle.Owner, state lifecycle.State, flow Flow[T], fn func(T), opts ...Option) (*Property[*job.Job], error) {
	return AddRepeatingJob(owner, state, collect(flow, fn), opts...)
}

func collect[T any](flow Flow[T], fn func(T)) job.Func {
	return func(ctx context.Context) error {
		return flow.Collect(ctx, fn)
	}
}

func launchWhen(owner lifecycle.Owner, min lifecycle.State, block job.Func, opts []Option) *Property[*job.Job] {
	o := newOptions(opts)
	lc := owner.Lifecycle()
	j := job.New(lc.Context())
	logger := o.logger.With(slog.String("job_id", j.ID().String()), slog.String("state", min.String()))

	d := lc.AddObserver(lifecycle.ObserverFunc(func(_ lifecycle.Owner, event lifecycle.Event) {
		target, _ := event.TargetState()
		switch {
		case event.IsUp() && target.IsAtLeast(min):
			if j.Status() != job.StatusPending {
				return
			}
			logger.Debug("job starting")
			if err := j.Start(lc.Scheduler(), instrument(block, metrics.KindOnce, o.metrics)); err != nil {
				logger.Error("job not started", slog.Any("error", err))
			}
		case event.IsDown() && !target.IsAtLeast(min):
			// A job still waiting for min keeps waiting; destroy abandons it.
			if j.Status() == job.StatusPending || j.IsFinished() {
				return
			}
			j.Cancel()
			<-j.Done()
			if !j.IsCancelled() {
				return
			}
			o.metrics.JobCancelled(metrics.KindOnce)
			logger.Debug("job cancelled", slog.String("event", event.String()))
		}
	}))
	context.AfterFunc(j.Context(), d.Dispose)

	return newProperty(owner, lazy.New(func() *job.Job { return j }, o.mode), o.metrics)
}

func instrument(block job.Func, kind string, m *metrics.Collector) job.Func {
	if m == nil {
		return block
	}
	return func(ctx context.Context) error {
		m.JobStarted(kind)
		defer m.JobFinished()
		return block(ctx)
	}
}

type repeater struct {
	min        lifecycle.State
	block      job.Func
	supervisor *job.Job
	scheduler  job.Scheduler
	logger     *slog.Logger
	metrics    *metrics.Collector

	mu       sync.Mutex
	inWindow bool
	current  *job.Job
}

func (r *repeater) onStateChanged(_ lifecycle.Owner, event lifecycle.Event) {
	target, _ := event.TargetState()
	switch {
	case event.IsUp() && target.IsAtLeast(r.min):
		r.enter()
	case event.IsDown() && !target.IsAtLeast(r.min):
		r.exit(event)
	}
}

func (r *repeater) enter() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inWindow || r.supervisor.Context().Err() != nil {
		return
	}
	r.inWindow = true
	child := job.New(r.supervisor.Context())
	r.current = child
	r.logger.Debug("repeating job starting", slog.String("child_id", child.ID().String()))
	if err := child.Start(r.scheduler, instrument(r.block, metrics.KindRepeating, r.metrics)); err != nil {
		r.logger.Error("repeating job not started", slog.Any("error", err))
	}
}

// exit cancels the running child and waits for it, so the next window
// never overlaps the previous one.
func (r *repeater) exit(event lifecycle.Event) {
	r.mu.Lock()
	child := r.current
	r.current = nil
	r.inWindow = false
	r.mu.Unlock()
	if child == nil || child.IsFinished() {
		return
	}
	child.Cancel()
	<-child.Done()
	if !child.IsCancelled() {
		return
	}
	r.metrics.JobCancelled(metrics.KindRepeating)
	r.logger.Debug("repeating job cancelled",
		slog.String("child_id", child.ID().String()),
		slog.String("event", event.String()))
}
