package lifecycle

import (
	"sync"
)

// EventObserver reacts to a single event.
type EventObserver struct {
	event    Event
	mu       sync.Mutex
	handlers []func(Event)
}

// ObserverFor returns an observer bound to event. EventAny binds to every
// transition.
func ObserverFor(event Event) *EventObserver {
	return &EventObserver{event: event}
}

func (o *EventObserver) Event() Event {
	return o.event
}

// Register appends a handler. Handlers run in registration order and
// receive the dispatched event.
func (o *EventObserver) Register(handler func(Event)) *EventObserver {
	o.mu.Lock()
	o.handlers = append(o.handlers, handler)
	o.mu.Unlock()
	return o
}

func (o *EventObserver) OnStateChanged(_ Owner, event Event) {
	if !o.event.Matches(event) {
		return
	}
	o.mu.Lock()
	handlers := append([]func(Event){}, o.handlers...)
	o.mu.Unlock()
	for _, h := range handlers {
		h(event)
	}
}

// PropertyObserver reacts to a single event by handing the current value to
// its receivers.
type PropertyObserver[T any] struct {
	event     Event
	value     func() T
	mu        sync.Mutex
	receivers []func(T)
	fired     func(Event)
}

// PropertyObserverFor returns an observer bound to event that reads value at
// fire time, so receivers always see the current value.
func PropertyObserverFor[T any](event Event, value func() T) *PropertyObserver[T] {
	return &PropertyObserver[T]{event: event, value: value}
}

func (o *PropertyObserver[T]) Event() Event {
	return o.event
}

func (o *PropertyObserver[T]) Register(receiver func(T)) *PropertyObserver[T] {
	o.mu.Lock()
	o.receivers = append(o.receivers, receiver)
	o.mu.Unlock()
	return o
}

// OnFire installs a hook called once per receiver invocation, used for
// instrumentation.
func (o *PropertyObserver[T]) OnFire(hook func(Event)) *PropertyObserver[T] {
	o.fired = hook
	return o
}

func (o *PropertyObserver[T]) OnStateChanged(_ Owner, event Event) {
	if !o.event.Matches(event) {
		return
	}
	o.mu.Lock()
	receivers := append([]func(T){}, o.receivers...)
	o.mu.Unlock()
	if len(receivers) == 0 {
		return
	}
	value := o.value()
	for _, r := range receivers {
		r(value)
		if o.fired != nil {
			o.fired(event)
		}
	}
}
