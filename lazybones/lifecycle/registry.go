package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/krew-solutions/lazybones-go/lazybones/disposable"
	"github.com/krew-solutions/lazybones-go/lazybones/job"
	"github.com/krew-solutions/lazybones-go/lazybones/metrics"
	"github.com/krew-solutions/lazybones-go/lazybones/signals"
)

var (
	ErrInvalidEvent      = errors.New("lifecycle: event cannot be dispatched")
	ErrDestroyed         = errors.New("lifecycle: owner is destroyed")
	ErrInvalidTransition = errors.New("lifecycle: invalid transition")
)

// Transition describes one applied step.
type Transition struct {
	Event Event
	From  State
	To    State
}

type registration struct {
	id       uuid.UUID
	observer Observer
	state    State
	removed  bool
}

// Registry is a reference Lifecycle host. It is also its own Owner.
//
// Transitions must be driven from a single goroutine; observers run on it.
// Calls to HandleEvent or MoveTo made from inside an observer are queued
// and applied after the step being dispatched.
type Registry struct {
	id        ulid.ULID
	ctx       context.Context
	cancel    context.CancelFunc
	scheduler job.Scheduler
	logger    *slog.Logger
	metrics   *metrics.Collector

	transitions *signals.SignalImp[Transition]

	mu            sync.Mutex
	state         State
	registrations []*registration
	dispatching   bool
	pending       []State
}

type RegistryOption func(*Registry)

func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

func WithMetrics(m *metrics.Collector) RegistryOption {
	return func(r *Registry) { r.metrics = m }
}

func WithScheduler(s job.Scheduler) RegistryOption {
	return func(r *Registry) { r.scheduler = s }
}

// WithContext sets the parent of the registry's scope context.
func WithContext(ctx context.Context) RegistryOption {
	return func(r *Registry) { r.ctx = ctx }
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		id:          ulid.Make(),
		ctx:         context.Background(),
		scheduler:   job.GoScheduler{},
		logger:      slog.Default(),
		transitions: signals.NewSignal[Transition](),
		state:       StateInitialized,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.ctx, r.cancel = context.WithCancel(r.ctx)
	r.logger = r.logger.With(slog.String("owner_id", r.id.String()))
	return r
}

func (r *Registry) ID() ulid.ULID {
	return r.id
}

func (r *Registry) Lifecycle() Lifecycle {
	return r
}

func (r *Registry) Context() context.Context {
	return r.ctx
}

func (r *Registry) Scheduler() job.Scheduler {
	return r.scheduler
}

func (r *Registry) Logger() *slog.Logger {
	return r.logger
}

func (r *Registry) CurrentState() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Transitions notifies every applied step after observers have run.
func (r *Registry) Transitions() signals.Signal[Transition] {
	return r.transitions
}

func (r *Registry) ObserverCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.registrations)
}

// AddObserver registers o and replays the up events it missed so it
// reaches the current state. Adding to a destroyed registry is ignored.
func (r *Registry) AddObserver(o Observer) disposable.Disposable {
	r.mu.Lock()
	if r.state == StateDestroyed {
		r.mu.Unlock()
		r.logger.Debug("observer ignored, owner destroyed")
		return disposable.Noop()
	}
	reg := &registration{id: uuid.New(), observer: o, state: StateInitialized}
	r.registrations = append(r.registrations, reg)
	r.mu.Unlock()

	r.catchUp(reg)
	return disposable.NewDisposable(func() {
		r.remove(func(candidate *registration) bool { return candidate == reg })
	})
}

// RemoveObserver unregisters the first registration equal to o. Observers
// of non-comparable types, ObserverFunc included, never match; dispose the
// handle returned by AddObserver instead.
func (r *Registry) RemoveObserver(o Observer) {
	r.remove(func(candidate *registration) bool { return sameObserver(candidate.observer, o) })
}

// HandleEvent moves the registry to the state that follows event.
func (r *Registry) HandleEvent(event Event) error {
	target, ok := event.TargetState()
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidEvent, event)
	}
	return r.MoveTo(target)
}

// MoveTo steps the registry to target, dispatching each intermediate event.
func (r *Registry) MoveTo(target State) error {
	r.mu.Lock()
	if err := r.validate(target); err != nil {
		r.mu.Unlock()
		return err
	}
	if r.dispatching {
		r.pending = append(r.pending, target)
		r.mu.Unlock()
		return nil
	}
	r.dispatching = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.dispatching = false
		r.pending = nil
		r.mu.Unlock()
	}()

	r.sync(target)
	for {
		r.mu.Lock()
		if len(r.pending) == 0 {
			r.mu.Unlock()
			return nil
		}
		next := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		r.sync(next)
	}
}

func (r *Registry) validate(target State) error {
	switch {
	case r.state == StateDestroyed:
		return ErrDestroyed
	case target == StateInitialized && r.state != StateInitialized:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.state, target)
	case target == StateDestroyed && r.state == StateInitialized:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.state, target)
	case target < StateDestroyed || target > StateResumed:
		return fmt.Errorf("%w: %s", ErrUnknownState, target)
	}
	return nil
}

func (r *Registry) sync(target State) {
	for {
		r.mu.Lock()
		from := r.state
		if from == target || from == StateDestroyed {
			r.mu.Unlock()
			return
		}
		var event Event
		if target > from {
			event, _ = UpFrom(from)
		} else {
			event, _ = DownFrom(from)
		}
		to, _ := event.TargetState()
		r.state = to
		snapshot := append([]*registration{}, r.registrations...)
		r.mu.Unlock()

		r.logger.Debug("lifecycle transition",
			slog.String("event", event.String()),
			slog.String("from", from.String()),
			slog.String("to", to.String()))
		r.metrics.ObserveTransition(event.String())

		for _, reg := range snapshot {
			r.deliver(reg, from, to, event)
		}
		r.transitions.Notify(Transition{Event: event, From: from, To: to})

		if to == StateDestroyed {
			r.mu.Lock()
			r.registrations = nil
			r.mu.Unlock()
			r.cancel()
			return
		}
	}
}

// deliver dispatches event to reg if reg is still registered and sits at
// from.
func (r *Registry) deliver(reg *registration, from, to State, event Event) {
	r.mu.Lock()
	if reg.removed || reg.state != from {
		r.mu.Unlock()
		return
	}
	reg.state = to
	r.mu.Unlock()
	reg.observer.OnStateChanged(r, event)
}

func (r *Registry) catchUp(reg *registration) {
	for {
		r.mu.Lock()
		if reg.removed || reg.state >= r.state {
			r.mu.Unlock()
			return
		}
		event, ok := UpFrom(reg.state)
		if !ok {
			r.mu.Unlock()
			return
		}
		reg.state, _ = event.TargetState()
		r.mu.Unlock()
		reg.observer.OnStateChanged(r, event)
	}
}

func (r *Registry) remove(match func(*registration) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, reg := range r.registrations {
		if match(reg) {
			reg.removed = true
			r.registrations = append(r.registrations[:i:i], r.registrations[i+1:]...)
			return
		}
	}
}

func sameObserver(a, b Observer) bool {
	if a == nil || b == nil {
		return false
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.TypeOf(a).Comparable() {
		return false
	}
	return a == b
}
