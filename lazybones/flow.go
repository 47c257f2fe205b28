package lazybones

import "context"

// Flow is a stream of values collected until it ends or ctx is done.
type Flow[T any] interface {
	Collect(ctx context.Context, emit func(T)) error
}

type FlowFunc[T any] func(ctx context.Context, emit func(T)) error

func (f FlowFunc[T]) Collect(ctx context.Context, emit func(T)) error {
	return f(ctx, emit)
}

// FromChan collects values received from ch until ch is closed. Once ctx is
// done no further value is emitted.
func FromChan[T any](ch <-chan T) Flow[T] {
	return FlowFunc[T](func(ctx context.Context, emit func(T)) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case v, ok := <-ch:
				if !ok {
					return nil
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				emit(v)
			}
		}
	})
}
