// Package workerpool fans ESOA rows out across a fixed goroutine pool and
// reassembles results in input order regardless of completion order,
// grounded in the channel + WaitGroup pool shape used across the retrieved
// reference pack's worker code.
package workerpool

import (
	"context"
	"sync"
)

type job[T any] struct {
	index int
	row   T
}

type result[R any] struct {
	index int
	value R
}

// Run processes items with workers goroutines, calling fn once per item,
// and returns results in the same order as items regardless of which
// goroutine finished first. The caller's shared state (e.g. a
// *synonym.Graph or *candidate.Index closed over by fn) must be read-only
// for the duration of Run — no locking is done here because none is needed.
func Run[T any, R any](ctx context.Context, items []T, workers int, fn func(T) R) []R {
	if workers < 1 {
		workers = 1
	}
	if len(items) == 0 {
		return nil
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan job[T], len(items))
	results := make(chan result[R], len(items))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				results <- result[R]{index: j.index, value: fn(j.row)}
			}
		}()
	}

	for i, item := range items {
		jobs <- job[T]{index: i, row: item}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]R, len(items))
	for r := range results {
		out[r.index] = r.value
	}
	return out
}
