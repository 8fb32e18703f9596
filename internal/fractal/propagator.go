package fractal

import (
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// propagator drives one frame across the levels of a store. Levels run in
// order; errgroup.Wait after each level is the barrier that publishes its
// writes before the next level reads them.
type propagator struct {
	workers   int
	batchSize int
}

func newPropagator(workers, batchSize int) propagator {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if batchSize <= 0 {
		batchSize = Branching
	}
	return propagator{workers: workers, batchSize: roundUpToSiblings(batchSize)}
}

// chunkSize returns how many consecutive parts of an n-part level one task
// handles. Chunks cover whole sibling groups.
func (p propagator) chunkSize(n int) int {
	perWorker := (n + p.workers - 1) / p.workers
	return roundUpToSiblings(max(p.batchSize, perWorker))
}

func roundUpToSiblings(n int) int {
	return (n + Branching - 1) / Branching * Branching
}

// step advances every level of s by dt.
func (p propagator) step(s *partStore, rt RootTransform, dt float32) {
	root := &s.levels[0]
	updateRoot(&root.parts[0], &root.matrices[0], rt, dt)

	scale := rt.Scale
	for k := 1; k < len(s.levels); k++ {
		scale *= LevelScale
		start := time.Now()
		p.runLevel(LevelUpdate{
			Scale:     scale,
			DeltaTime: dt,
			Parents:   s.levels[k-1].parts,
			Parts:     s.levels[k].parts,
			Matrices:  s.levels[k].matrices,
		})
		instrumentLevel(k, time.Since(start))
	}
}

// runLevel executes u over its whole level and returns once every index
// has been written.
func (p propagator) runLevel(u LevelUpdate) {
	n := len(u.Parts)
	chunk := p.chunkSize(n)
	if p.workers == 1 || chunk >= n {
		u.ExecuteRange(0, n)
		return
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			u.ExecuteRange(lo, hi)
			return nil
		})
	}
	// Tasks cannot fail; Wait is only the barrier.
	_ = g.Wait()
}
