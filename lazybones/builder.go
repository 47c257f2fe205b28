package lazybones

import (
	"github.com/krew-solutions/lazybones-go/lazybones/lazy"
	"github.com/krew-solutions/lazybones-go/lazybones/lifecycle"
	"github.com/krew-solutions/lazybones-go/lazybones/metrics"
)

// Builder accumulates callbacks per event and registers them on Build.
type Builder[T any] struct {
	owner     lifecycle.Owner
	value     *lazy.Value[T]
	metrics   *metrics.Collector
	order     []lifecycle.Event
	callbacks map[lifecycle.Event][]func(T)
	property  *Property[T]
}

func NewBuilder[T any](owner lifecycle.Owner, value T) *Builder[T] {
	return newBuilder(owner, lazy.Of(value), nil)
}

// LifecycleAware returns a builder whose value is produced by factory on
// first access, either through Get or when a callback fires.
func LifecycleAware[T any](owner lifecycle.Owner, factory func() T, opts ...Option) *Builder[T] {
	o := newOptions(opts)
	return newBuilder(owner, lazy.New(factory, o.mode), o.metrics)
}

func newBuilder[T any](owner lifecycle.Owner, value *lazy.Value[T], m *metrics.Collector) *Builder[T] {
	return &Builder[T]{
		owner:     owner,
		value:     value,
		metrics:   m,
		callbacks: make(map[lifecycle.Event][]func(T)),
	}
}

// On appends receiver to the callbacks for event. Calls for the same event
// accumulate.
func (b *Builder[T]) On(event lifecycle.Event, receiver func(T)) *Builder[T] {
	if _, ok := b.callbacks[event]; !ok {
		b.order = append(b.order, event)
	}
	b.callbacks[event] = append(b.callbacks[event], receiver)
	return b
}

func (b *Builder[T]) OnCreate(receiver func(T)) *Builder[T] {
	return b.On(lifecycle.EventCreate, receiver)
}

func (b *Builder[T]) OnStart(receiver func(T)) *Builder[T] {
	return b.On(lifecycle.EventStart, receiver)
}

func (b *Builder[T]) OnResume(receiver func(T)) *Builder[T] {
	return b.On(lifecycle.EventResume, receiver)
}

func (b *Builder[T]) OnPause(receiver func(T)) *Builder[T] {
	return b.On(lifecycle.EventPause, receiver)
}

func (b *Builder[T]) OnStop(receiver func(T)) *Builder[T] {
	return b.On(lifecycle.EventStop, receiver)
}

func (b *Builder[T]) OnDestroy(receiver func(T)) *Builder[T] {
	return b.On(lifecycle.EventDestroy, receiver)
}

func (b *Builder[T]) OnAny(receiver func(T)) *Builder[T] {
	return b.On(lifecycle.EventAny, receiver)
}

// Build registers one observer per configured event, in the order events
// were first configured, and returns the property. Later calls return the
// same property without registering again.
func (b *Builder[T]) Build() *Property[T] {
	if b.property != nil {
		return b.property
	}
	p := newProperty(b.owner, b.value, b.metrics)
	for _, event := range b.order {
		p.register(event, b.callbacks[event])
	}
	b.property = p
	return p
}

// Lazy is Build.
func (b *Builder[T]) Lazy() *Property[T] {
	return b.Build()
}
