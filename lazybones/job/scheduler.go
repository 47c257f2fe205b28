package job

import (
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
)

// Scheduler runs job bodies. Implementations are supplied by the host.
type Scheduler interface {
	Go(task func()) error
}

// GoScheduler starts one goroutine per task.
type GoScheduler struct{}

func (GoScheduler) Go(task func()) error {
	go task()
	return nil
}

// PoolScheduler runs tasks on a bounded ants pool.
type PoolScheduler struct {
	pool *ants.Pool
}

// NewPoolScheduler creates a pool of the given size. With nonblocking set,
// Go fails with ants.ErrPoolOverload instead of waiting for a free worker.
func NewPoolScheduler(size int, nonblocking bool) (*PoolScheduler, error) {
	pool, err := ants.NewPool(size, ants.WithNonblocking(nonblocking))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create worker pool")
	}
	return &PoolScheduler{pool: pool}, nil
}

func (s *PoolScheduler) Go(task func()) error {
	if err := s.pool.Submit(task); err != nil {
		return errors.Wrap(err, "unable to submit job")
	}
	return nil
}

// Running reports the number of busy workers.
func (s *PoolScheduler) Running() int {
	return s.pool.Running()
}

func (s *PoolScheduler) Release() {
	s.pool.Release()
}
