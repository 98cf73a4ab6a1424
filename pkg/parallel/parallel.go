// Package parallel runs independent evaluations concurrently and collects
// their results in input order.
//
// Every item gets its own goroutine. By default nothing limits how many run
// at once; a positive limit caps the number in flight without changing the
// results. A failing or panicking evaluation only affects its own item.
package parallel

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Unbounded disables the concurrency limit.
const Unbounded = 0

// Result is the outcome of evaluating one item.
type Result[R any] struct {
	Value R
	Err   error
}

// PanicError records a panic raised while evaluating an item.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Evaluate calls fn for every item concurrently and waits for all calls to
// return. results[i] always belongs to items[i]. limit <= 0 runs every call
// at once.
func Evaluate[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			results[i] = call(ctx, fn, item)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func call[T, R any](ctx context.Context, fn func(context.Context, T) (R, error), item T) (res Result[R]) {
	defer func() {
		if v := recover(); v != nil {
			res = Result[R]{Err: &PanicError{Value: v, Stack: debug.Stack()}}
		}
	}()
	v, err := fn(ctx, item)
	return Result[R]{Value: v, Err: err}
}

// Filter returns the items for which pred reports true, preserving their
// relative order. An item whose predicate returns an error or panics is
// dropped; other items are unaffected.
//
// Filter discards why an item was dropped. Callers that need to report
// failed items, like the scan pipeline, use Evaluate directly.
func Filter[T any](ctx context.Context, items []T, limit int, pred func(context.Context, T) (bool, error)) []T {
	results := Evaluate(ctx, items, limit, pred)

	out := make([]T, 0, len(items))
	for i, r := range results {
		if r.Err == nil && r.Value {
			out = append(out, items[i])
		}
	}
	return out
}
