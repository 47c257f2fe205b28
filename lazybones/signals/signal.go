package signals

import (
	"sync"

	"github.com/google/uuid"

	"github.com/krew-solutions/lazybones-go/lazybones/disposable"
)

type entry[E any] struct {
	id       any
	observer Observer[E]
}

// SignalImp notifies observers in attach order. Notify works on a snapshot,
// so observers may attach or detach from inside a notification.
type SignalImp[E any] struct {
	mu        sync.RWMutex
	observers []entry[E]
}

func NewSignal[E any]() *SignalImp[E] {
	return &SignalImp[E]{}
}

// Attach registers observer under observerID, or under a generated id when
// none is given. Attaching an id that is already present keeps the first
// observer.
func (s *SignalImp[E]) Attach(observer Observer[E], observerID ...any) disposable.Disposable {
	id := resolveID(observerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.observers {
		if e.id == id {
			return s.detacher(id)
		}
	}
	s.observers = append(s.observers, entry[E]{id: id, observer: observer})
	return s.detacher(id)
}

func (s *SignalImp[E]) Detach(observerID any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.observers {
		if e.id == observerID {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

func (s *SignalImp[E]) Notify(event E) {
	s.mu.RLock()
	snapshot := make([]entry[E], len(s.observers))
	copy(snapshot, s.observers)
	s.mu.RUnlock()

	for _, e := range snapshot {
		e.observer(event)
	}
}

func (s *SignalImp[E]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

func (s *SignalImp[E]) detacher(id any) disposable.Disposable {
	return disposable.NewDisposable(func() {
		s.Detach(id)
	})
}

func resolveID(observerID []any) any {
	if len(observerID) > 0 {
		return observerID[0]
	}
	return uuid.New()
}
