package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"drift/internal/ir"
)

// forEachFunction fans fn out over the job's worker pool, one call per
// function. Workers only read shared finalized artifacts and write to their
// own result slot, so no further synchronization is needed. Cancellation is
// checked before each function starts; in-flight functions run to
// completion.
func (m *Master) forEachFunction(ctx context.Context, fns *ir.Functions, fn func(i int, f *ir.Function) error) error {
	jobs := m.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, f := range fns.Funcs {
		i, f := i, f
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i, f)
		})
	}
	return g.Wait()
}
