package lazy

import (
	"sync"
	"sync/atomic"
)

// Value is a memoized value produced by a factory on first Get.
//
// A factory that panics leaves the Value uninitialized and the panic
// propagates to the caller of Get; the next Get runs the factory again.
type Value[T any] struct {
	mode    Mode
	factory func() T

	// ModeNone
	value       T
	initialized bool

	// ModeSynchronized, ModePublication
	mu        sync.Mutex
	published atomic.Pointer[T]
}

func New[T any](factory func() T, mode Mode) *Value[T] {
	return &Value[T]{factory: factory, mode: mode}
}

// Of returns an already initialized Value.
func Of[T any](value T) *Value[T] {
	v := &Value[T]{mode: ModeSynchronized}
	v.Set(value)
	return v
}

func (v *Value[T]) Mode() Mode {
	return v.mode
}

func (v *Value[T]) Get() T {
	switch v.mode {
	case ModeSynchronized:
		return v.getSynchronized()
	case ModePublication:
		return v.getPublication()
	default:
		return v.getUnsafe()
	}
}

func (v *Value[T]) IsInitialized() bool {
	if v.mode == ModeNone {
		return v.initialized
	}
	return v.published.Load() != nil
}

// Set replaces the value and marks it initialized. The factory is not run
// afterwards.
func (v *Value[T]) Set(value T) {
	if v.mode == ModeNone {
		v.value = value
		v.initialized = true
		v.factory = nil
		return
	}
	v.mu.Lock()
	v.published.Store(&value)
	v.factory = nil
	v.mu.Unlock()
}

func (v *Value[T]) getUnsafe() T {
	if !v.initialized {
		v.value = v.factory()
		v.initialized = true
		v.factory = nil
	}
	return v.value
}

func (v *Value[T]) getSynchronized() T {
	if p := v.published.Load(); p != nil {
		return *p
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if p := v.published.Load(); p != nil {
		return *p
	}
	value := v.factory()
	v.published.Store(&value)
	v.factory = nil
	return value
}

func (v *Value[T]) getPublication() T {
	if p := v.published.Load(); p != nil {
		return *p
	}
	v.mu.Lock()
	factory := v.factory
	v.mu.Unlock()
	if factory == nil {
		// Another caller published between the load and the lock.
		return *v.published.Load()
	}
	value := factory()
	if v.published.CompareAndSwap(nil, &value) {
		v.mu.Lock()
		v.factory = nil
		v.mu.Unlock()
	}
	return *v.published.Load()
}
