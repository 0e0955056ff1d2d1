package consoleimg

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelMap calls fn for every index in [0, n) on a worker pool sized to
// the CPU count and returns the results in index order. Indices are handed
// out in contiguous chunks of max(1, n/NumCPU). A panicking worker is
// reported as a LockError tagged with name.
func parallelMap[T any](name string, n int, fn func(i int) (T, error)) ([]T, error) {
	out := make([]T, n)
	if n == 0 {
		return out, nil
	}

	workers := min(n, runtime.NumCPU())
	chunk := max(1, n/workers)

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = newLockError(name, r)
				}
			}()
			for i := start; i < end; i++ {
				v, ferr := fn(i)
				if ferr != nil {
					return ferr
				}
				out[i] = v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
