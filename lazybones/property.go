// Package lazybones provides lifecycle-aware properties: values whose
// callbacks are bound to the transitions of a lifecycle owner, and jobs
// that run only while the owner is in a given state.
//
//	balloon := lazybones.LifecycleAware(activity, newBalloon).
//		OnCreate(func(b *Balloon) { b.Show() }).
//		OnDestroy(func(b *Balloon) { b.Dismiss() }).
//		Lazy()
//
// Callbacks run on the owner's dispatch context, in the order they were
// attached. Panics raised by callbacks or value factories are not
// recovered.
package lazybones

import (
	"sync"

	"github.com/krew-solutions/lazybones-go/lazybones/disposable"
	"github.com/krew-solutions/lazybones-go/lazybones/lazy"
	"github.com/krew-solutions/lazybones-go/lazybones/lifecycle"
	"github.com/krew-solutions/lazybones-go/lazybones/metrics"
)

// Property is a value bound to a lifecycle owner.
type Property[T any] struct {
	owner   lifecycle.Owner
	value   *lazy.Value[T]
	metrics *metrics.Collector

	mu            sync.Mutex
	registrations *disposable.CompositeDisposableImp
}

// NewProperty wraps an already available value.
func NewProperty[T any](owner lifecycle.Owner, value T) *Property[T] {
	return newProperty(owner, lazy.Of(value), nil)
}

func newProperty[T any](owner lifecycle.Owner, value *lazy.Value[T], m *metrics.Collector) *Property[T] {
	return &Property[T]{
		owner:         owner,
		value:         value,
		metrics:       m,
		registrations: disposable.NewCompositeDisposable(),
	}
}

func (p *Property[T]) Owner() lifecycle.Owner {
	return p.owner
}

// Get returns the value, producing it on first access.
func (p *Property[T]) Get() T {
	return p.value.Get()
}

func (p *Property[T]) Set(value T) {
	p.value.Set(value)
}

func (p *Property[T]) IsInitialized() bool {
	return p.value.IsInitialized()
}

// ObserveOn registers receiver for event right away.
func (p *Property[T]) ObserveOn(event lifecycle.Event, receiver func(T)) *Property[T] {
	p.register(event, []func(T){receiver})
	return p
}

func (p *Property[T]) ObserveOnCreate(receiver func(T)) *Property[T] {
	return p.ObserveOn(lifecycle.EventCreate, receiver)
}

func (p *Property[T]) ObserveOnStart(receiver func(T)) *Property[T] {
	return p.ObserveOn(lifecycle.EventStart, receiver)
}

func (p *Property[T]) ObserveOnResume(receiver func(T)) *Property[T] {
	return p.ObserveOn(lifecycle.EventResume, receiver)
}

func (p *Property[T]) ObserveOnPause(receiver func(T)) *Property[T] {
	return p.ObserveOn(lifecycle.EventPause, receiver)
}

func (p *Property[T]) ObserveOnStop(receiver func(T)) *Property[T] {
	return p.ObserveOn(lifecycle.EventStop, receiver)
}

func (p *Property[T]) ObserveOnDestroy(receiver func(T)) *Property[T] {
	return p.ObserveOn(lifecycle.EventDestroy, receiver)
}

func (p *Property[T]) ObserveOnAny(receiver func(T)) *Property[T] {
	return p.ObserveOn(lifecycle.EventAny, receiver)
}

// Observe configures a new property over the same value and owner.
func (p *Property[T]) Observe(block func(b *Builder[T])) *Property[T] {
	b := newBuilder(p.owner, p.value, p.metrics)
	block(b)
	return b.Build()
}

// Dispose unregisters every observer the property added.
func (p *Property[T]) Dispose() {
	p.mu.Lock()
	registrations := p.registrations
	p.registrations = disposable.NewCompositeDisposable()
	p.mu.Unlock()
	registrations.Dispose()
}

func (p *Property[T]) register(event lifecycle.Event, receivers []func(T)) {
	observer := lifecycle.PropertyObserverFor(event, p.value.Get)
	for _, r := range receivers {
		observer.Register(r)
	}
	if p.metrics != nil {
		observer.OnFire(func(e lifecycle.Event) { p.metrics.ObserveCallback(e.String()) })
	}
	d := p.owner.Lifecycle().AddObserver(observer)
	p.mu.Lock()
	p.registrations.Add(d)
	p.mu.Unlock()
}
