package mc

import (
	"context"
	"sync"
)

// Ensemble runs independent simulations in parallel, one goroutine per run.
// Each run gets its own model instance and its own seeded generator, so runs
// share no mutable state.
type Ensemble struct {
	build     func() Model
	numRuns   int
	seedStart int64
}

func NewEnsemble(build func() Model, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			engine := New(e.build())
			results[idx], errs[idx] = engine.Run(ctx, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
