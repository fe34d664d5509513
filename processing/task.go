package processing

import (
	"context"

	"github.com/pdok/vtcomposite/composite"
	"github.com/pdok/vtcomposite/mvt"
	"github.com/pdok/vtcomposite/tilematrix"
	"github.com/pdok/vtcomposite/vectortile"
)

// Task is the future result of an operation running on its own goroutine.
// Once started an operation always runs to completion, cancelling the
// context given to Wait only stops waiting for it.
type Task[T any] struct {
	done   chan struct{}
	result T
	err    error
}

// Go starts f and returns its Task
func Go[T any](f func() (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.result, t.err = f()
	}()
	return t
}

// Done is closed when the operation finished
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the operation finished or ctx is done
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// CompositeAsync composites on another goroutine. The sources are owned by
// the task until it is done.
func CompositeAsync(dest tilematrix.Coordinate, sources []*vectortile.VectorTile, opts composite.Options) *Task[[]byte] {
	return Go(func() ([]byte, error) {
		return composite.Composite(dest, sources, opts)
	})
}

// ParseAsync parses the tile on another goroutine. The tile is owned by the
// task until it is done.
func ParseAsync(vt *vectortile.VectorTile) *Task[[]mvt.Layer] {
	return Go(func() ([]mvt.Layer, error) {
		if err := vt.Parse(); err != nil {
			return nil, err
		}
		return vt.ToStructured()
	})
}
