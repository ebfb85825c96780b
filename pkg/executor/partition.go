package executor

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Partition splits items into n contiguous parts in order. The first
// len(items)%n parts get one extra element. Parts may be empty when there
// are fewer items than workers.
func Partition[T any](items []T, n int) [][]T {
	if n < 1 {
		n = 1
	}
	size, extra := len(items)/n, len(items)%n

	parts := make([][]T, 0, n)
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < extra {
			end++
		}
		parts = append(parts, items[start:end])
		start = end
	}
	return parts
}

// runPartitioned calls fn for every item, with one worker per partition.
// The first error cancels the shared context; workers check it before each
// item, so nothing new starts after a failure.
func runPartitioned[T any](ctx context.Context, items []T, n int, fn func(T) error) error {
	if n <= 1 {
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(item); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, part := range Partition(items, n) {
		if len(part) == 0 {
			continue
		}
		part := part
		g.Go(func() error {
			for _, item := range part {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := fn(item); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
