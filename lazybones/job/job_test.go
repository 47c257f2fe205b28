package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitTimeout = time.Second

func TestJob_RunsBodyOnScheduler(t *testing.T) {
	j := New(context.Background())
	assert.Equal(t, StatusPending, j.Status())

	ran := make(chan struct{})
	require.NoError(t, j.Start(GoScheduler{}, func(ctx context.Context) error {
		close(ran)
		return nil
	}))

	<-ran
	require.NoError(t, waitJob(t, j))
	assert.Equal(t, StatusCompleted, j.Status())
	assert.True(t, j.IsFinished())
}

func TestJob_StartTwice(t *testing.T) {
	j := New(context.Background())
	require.NoError(t, j.Start(GoScheduler{}, func(ctx context.Context) error { return nil }))
	assert.ErrorIs(t, j.Start(GoScheduler{}, func(ctx context.Context) error { return nil }), ErrAlreadyStarted)
}

func TestJob_CancelPropagatesToBody(t *testing.T) {
	j := New(context.Background())
	started := make(chan struct{})
	require.NoError(t, j.Start(GoScheduler{}, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}))
	<-started

	j.Cancel()
	assert.ErrorIs(t, waitJob(t, j), context.Canceled)
	assert.True(t, j.IsCancelled())
}

func TestJob_CancelPendingFinishesWithoutRunning(t *testing.T) {
	j := New(context.Background())
	j.Cancel()

	select {
	case <-j.Done():
	case <-time.After(waitTimeout):
		t.Fatal("pending job did not finish after cancel")
	}
	assert.True(t, j.IsCancelled())
	assert.Error(t, j.Start(GoScheduler{}, func(ctx context.Context) error {
		t.Fatal("body must not run")
		return nil
	}))
}

func TestJob_ParentCancellationFinishesPendingJob(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	j := New(parent)
	cancel()

	select {
	case <-j.Done():
	case <-time.After(waitTimeout):
		t.Fatal("pending job did not observe parent cancellation")
	}
	assert.Equal(t, StatusCancelled, j.Status())
}

func TestJob_BodyErrorFails(t *testing.T) {
	boom := errors.New("boom")
	j := New(context.Background())
	require.NoError(t, j.Start(GoScheduler{}, func(ctx context.Context) error { return boom }))

	assert.ErrorIs(t, waitJob(t, j), boom)
	assert.Equal(t, StatusFailed, j.Status())
}

func TestJob_WaitHonoursContext(t *testing.T) {
	j := New(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, j.Wait(ctx), context.DeadlineExceeded)
}

func TestSupervisor(t *testing.T) {
	s := NewSupervisor(context.Background())
	assert.True(t, s.IsActive())

	child := New(s.Context())
	s.Cancel()

	<-s.Done()
	<-child.Done()
	assert.True(t, s.IsCancelled())
	assert.True(t, child.IsCancelled())
}

func TestSupervisor_CancelledParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 1000; i++ {
		s := NewSupervisor(parent)
		require.ErrorIs(t, waitJob(t, s), context.Canceled)
		assert.True(t, s.IsCancelled())
		assert.ErrorIs(t, s.Start(GoScheduler{}, func(ctx context.Context) error { return nil }), ErrAlreadyStarted)
	}
}

func TestJob_CancelledParentNeverRuns(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	cancel()

	j := New(parent)
	ran := false
	err := j.Start(GoScheduler{}, func(ctx context.Context) error {
		ran = true
		return nil
	})
	assert.Error(t, err)
	assert.ErrorIs(t, waitJob(t, j), context.Canceled)
	assert.True(t, j.IsCancelled())
	assert.False(t, ran)
}

func TestPoolScheduler(t *testing.T) {
	pool, err := NewPoolScheduler(2, false)
	require.NoError(t, err)
	defer pool.Release()

	jobs := make([]*Job, 5)
	for i := range jobs {
		jobs[i] = New(context.Background())
		require.NoError(t, jobs[i].Start(pool, func(ctx context.Context) error { return nil }))
	}
	for _, j := range jobs {
		require.NoError(t, waitJob(t, j))
	}
}

func TestPoolScheduler_NonblockingOverload(t *testing.T) {
	pool, err := NewPoolScheduler(1, true)
	require.NoError(t, err)
	defer pool.Release()

	release := make(chan struct{})
	busy := New(context.Background())
	require.NoError(t, busy.Start(pool, func(ctx context.Context) error {
		<-release
		return nil
	}))

	rejected := New(context.Background())
	err = rejected.Start(pool, func(ctx context.Context) error { return nil })
	assert.Error(t, err)
	<-rejected.Done()
	assert.Equal(t, StatusFailed, rejected.Status())

	close(release)
	require.NoError(t, waitJob(t, busy))
}

func waitJob(t *testing.T, j *Job) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	err := j.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "job did not finish in time")
	return err
}
