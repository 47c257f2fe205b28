package lazy

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_DefersFactoryUntilGet(t *testing.T) {
	for _, mode := range []Mode{ModeNone, ModeSynchronized, ModePublication} {
		t.Run(mode.String(), func(t *testing.T) {
			calls := 0
			v := New(func() string { calls++; return "X" }, mode)
			assert.False(t, v.IsInitialized())
			assert.Equal(t, 0, calls)

			assert.Equal(t, "X", v.Get())
			assert.Equal(t, "X", v.Get())
			assert.True(t, v.IsInitialized())
			assert.Equal(t, 1, calls)
		})
	}
}

func TestValue_SynchronizedRunsFactoryOnceUnderContention(t *testing.T) {
	var calls atomic.Int32
	start := make(chan struct{})
	v := New(func() *int {
		calls.Add(1)
		n := 42
		return &n
	}, ModeSynchronized)

	const readers = 64
	results := make([]*int, readers)
	var wg conc.WaitGroup
	for i := 0; i < readers; i++ {
		i := i
		wg.Go(func() {
			<-start
			results[i] = v.Get()
		})
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestValue_PublicationConvergesOnOneInstance(t *testing.T) {
	var calls atomic.Int32
	var gate sync.WaitGroup
	gate.Add(1)
	v := New(func() *int {
		calls.Add(1)
		gate.Wait()
		n := int(calls.Load())
		return &n
	}, ModePublication)

	const readers = 16
	results := make([]*int, readers)
	var wg conc.WaitGroup
	for i := 0; i < readers; i++ {
		i := i
		wg.Go(func() {
			results[i] = v.Get()
		})
	}
	gate.Done()
	wg.Wait()

	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
	assert.Same(t, results[0], v.Get())
}

func TestValue_PanickingFactoryRetries(t *testing.T) {
	for _, mode := range []Mode{ModeNone, ModeSynchronized, ModePublication} {
		t.Run(mode.String(), func(t *testing.T) {
			fail := true
			v := New(func() int {
				if fail {
					panic("boom")
				}
				return 7
			}, mode)

			assert.PanicsWithValue(t, "boom", func() { v.Get() })
			assert.False(t, v.IsInitialized())

			fail = false
			assert.Equal(t, 7, v.Get())
		})
	}
}

func TestValue_SetSkipsFactory(t *testing.T) {
	for _, mode := range []Mode{ModeNone, ModeSynchronized, ModePublication} {
		t.Run(mode.String(), func(t *testing.T) {
			v := New(func() int { t.Fatal("factory must not run"); return 0 }, mode)
			v.Set(3)
			assert.True(t, v.IsInitialized())
			assert.Equal(t, 3, v.Get())
		})
	}
}

func TestOf(t *testing.T) {
	v := Of("ready")
	assert.True(t, v.IsInitialized())
	assert.Equal(t, "ready", v.Get())
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"":             ModeNone,
		"none":         ModeNone,
		"Synchronized": ModeSynchronized,
		"sync":         ModeSynchronized,
		"publication":  ModePublication,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("eager")
	assert.ErrorIs(t, err, ErrUnknownMode)
}
