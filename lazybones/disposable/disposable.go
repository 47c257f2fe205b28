package disposable

import "sync"

type DisposableImp struct {
	once    sync.Once
	release func()
}

func NewDisposable(release func()) *DisposableImp {
	return &DisposableImp{release: release}
}

func (d *DisposableImp) Dispose() {
	d.once.Do(func() {
		if d.release != nil {
			d.release()
		}
	})
}

// Noop returns a Disposable that does nothing.
func Noop() Disposable {
	return NewDisposable(nil)
}

type CompositeDisposableImp struct {
	mu        sync.Mutex
	delegates []Disposable
	disposed  bool
}

func NewCompositeDisposable(delegates ...Disposable) *CompositeDisposableImp {
	return &CompositeDisposableImp{delegates: delegates}
}

// Add appends a delegate. Adding to an already disposed composite disposes
// the delegate right away.
func (c *CompositeDisposableImp) Add(d Disposable) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		d.Dispose()
		return
	}
	c.delegates = append(c.delegates, d)
	c.mu.Unlock()
}

func (c *CompositeDisposableImp) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.delegates)
}

func (c *CompositeDisposableImp) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	delegates := c.delegates
	c.delegates = nil
	c.mu.Unlock()

	for _, d := range delegates {
		d.Dispose()
	}
}
