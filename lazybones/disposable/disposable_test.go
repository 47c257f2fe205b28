package disposable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisposable_DisposeRunsReleaseOnce(t *testing.T) {
	count := 0
	d := NewDisposable(func() { count++ })
	d.Dispose()
	d.Dispose()
	assert.Equal(t, 1, count)
}

func TestDisposable_NilRelease(t *testing.T) {
	Noop().Dispose() // should not panic
}

func TestCompositeDisposable_DisposesAllInOrder(t *testing.T) {
	var order []int
	c := NewCompositeDisposable(
		NewDisposable(func() { order = append(order, 1) }),
		NewDisposable(func() { order = append(order, 2) }),
	)
	c.Add(NewDisposable(func() { order = append(order, 3) }))
	assert.Equal(t, 3, c.Len())

	c.Dispose()
	c.Dispose()
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, c.Len())
}

func TestCompositeDisposable_AddAfterDispose(t *testing.T) {
	c := NewCompositeDisposable()
	c.Dispose()
	called := false
	c.Add(NewDisposable(func() { called = true }))
	assert.True(t, called)
}
