package signals

import (
	"github.com/krew-solutions/lazybones-go/lazybones/disposable"
)

type Observer[E any] func(E)

type Signal[E any] interface {
	Attach(observer Observer[E], observerID ...any) disposable.Disposable
	Detach(observerID any)
	Notify(event E)
	Len() int
}
