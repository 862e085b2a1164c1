package worker

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ParallelFunc is a function that can be executed in parallel.
type ParallelFunc func(ctx context.Context) error

// ParallelResult holds the results from parallel operations.
type ParallelResult struct {
	Errors []error
}

// RunParallel executes multiple functions concurrently and returns when all complete.
// If any function returns an error, it is collected but execution continues.
// Context cancellation is respected - all goroutines will be cancelled if the context is cancelled.
func RunParallel(ctx context.Context, funcs []ParallelFunc) ParallelResult {
	if len(funcs) == 0 {
		return ParallelResult{}
	}

	g, ctx := errgroup.WithContext(ctx)
	errors := make([]error, len(funcs))
	var mu sync.Mutex

	for i, fn := range funcs {
		i, fn := i, fn // capture loop variables
		g.Go(func() error {
			if err := fn(ctx); err != nil {
				mu.Lock()
				errors[i] = err
				mu.Unlock()
			}
			return nil // errgroup stops on first error, so we always return nil
		})
	}

	_ = g.Wait()

	var nonNilErrors []error
	for _, err := range errors {
		if err != nil {
			nonNilErrors = append(nonNilErrors, err)
		}
	}

	return ParallelResult{Errors: nonNilErrors}
}

// RunParallelWithResults executes multiple functions concurrently and collects their results.
// Results are returned in the same order as funcs.
func RunParallelWithResults[T any](ctx context.Context, funcs []func(ctx context.Context) (T, error)) ([]T, []error) {
	if len(funcs) == 0 {
		return nil, nil
	}

	results := make([]T, len(funcs))
	errors := make([]error, len(funcs))

	var wg sync.WaitGroup
	wg.Add(len(funcs))

	for i, fn := range funcs {
		i, fn := i, fn // capture loop variables
		go func() {
			defer wg.Done()
			result, err := fn(ctx)
			results[i] = result
			errors[i] = err
		}()
	}

	wg.Wait()

	var nonNilErrors []error
	for _, err := range errors {
		if err != nil {
			nonNilErrors = append(nonNilErrors, err)
		}
	}

	return results, nonNilErrors
}

// FanOutResult pairs a task key with its outcome so callers can match results
// to tasks regardless of completion order.
type FanOutResult[K comparable, V any] struct {
	Key   K
	Value V
	Err   error
}

// FanOutFunc produces the value for a single fan-out task.
type FanOutFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// FanOut runs fn for every key with at most maxConcurrent tasks in flight and
// streams results over the returned channel as each task finishes. The channel
// is closed once every task has completed. A task failure does not stop the
// remaining tasks; the error travels with that task's result.
func FanOut[K comparable, V any](ctx context.Context, keys []K, maxConcurrent int64, fn FanOutFunc[K, V]) <-chan FanOutResult[K, V] {
	out := make(chan FanOutResult[K, V], len(keys))
	if len(keys) == 0 {
		close(out)
		return out
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	sem := semaphore.NewWeighted(maxConcurrent)
	var wg sync.WaitGroup
	wg.Add(len(keys))

	for _, key := range keys {
		key := key
		go func() {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				out <- FanOutResult[K, V]{Key: key, Err: err}
				return
			}
			defer sem.Release(1)
			value, err := fn(ctx, key)
			out <- FanOutResult[K, V]{Key: key, Value: value, Err: err}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
