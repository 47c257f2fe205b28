// Package lifecycle defines lifecycle events and states, the observer
// factory and the host contract that lifecycle-aware properties consume.
//
// Observers run synchronously on the goroutine that drives the host's
// transitions: the lifecycle owner's dispatch context. Registry is a
// reference host with the usual create/start/resume/pause/stop/destroy
// semantics.
package lifecycle

import (
	"context"

	"github.com/krew-solutions/lazybones-go/lazybones/disposable"
	"github.com/krew-solutions/lazybones-go/lazybones/job"
)

type Observer interface {
	OnStateChanged(owner Owner, event Event)
}

type ObserverFunc func(owner Owner, event Event)

func (f ObserverFunc) OnStateChanged(owner Owner, event Event) {
	f(owner, event)
}

// Lifecycle is implemented by the host.
type Lifecycle interface {
	// AddObserver registers o. Disposing the result unregisters it.
	AddObserver(o Observer) disposable.Disposable
	RemoveObserver(o Observer)
	CurrentState() State
	// Context is cancelled once the lifecycle is destroyed.
	Context() context.Context
	Scheduler() job.Scheduler
}

type Owner interface {
	Lifecycle() Lifecycle
}
