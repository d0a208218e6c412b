package mc

import (
	"context"
	"fmt"
	"math"
	"math/rand"
)

// Engine drives Metropolis sweeps over a spin model. Instances are not
// safe for concurrent use; run independent simulations on independent
// engines (see Ensemble).
type Engine struct {
	model     Model
	observers []Observer
}

func New(model Model) *Engine {
	return &Engine{model: model, observers: make([]Observer, 0)}
}

func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// Run executes the configured sweep schedule: EquilibrationSweeps sweeps of
// equilibration, then sampling until Sweeps total sweeps have completed,
// measuring estimators every SampleInterval-th sampling sweep.
//
// A sweep attempts one update at every site in sequential order 0..N-1, so
// each site is visited exactly once per sweep and a later update observes
// earlier accepted mutations within the same sweep. The context is checked
// between sweeps only, keeping sweep semantics atomic.
func (e *Engine) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	e.model.Init(rng)

	n := e.model.NumSites()
	sampling := cfg.Sweeps - cfg.EquilibrationSweeps
	result := &Result{
		Trace: make([]Sample, 0, sampling/cfg.SampleInterval+1),
	}

	phase := PhaseEquilibrating
	for sweep := 0; sweep < cfg.Sweeps; sweep++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if sweep >= cfg.EquilibrationSweeps {
			phase = PhaseSampling
		}

		for i := 0; i < n; i++ {
			eOld := e.model.SiteEnergy(i)
			eNew := e.model.Propose(i, rng)
			dE := eNew - eOld
			result.Attempted++

			// dE <= 0 short-circuits before the Boltzmann factor, so a
			// zero-temperature quench never divides by zero.
			if dE <= 0 {
				e.model.Accept(i)
				result.Accepted++
			} else if cfg.Temperature > 0 && rng.Float64() < math.Exp(-dE/cfg.Temperature) {
				e.model.Accept(i)
				result.Accepted++
			}
		}

		if phase == PhaseSampling && (sweep-cfg.EquilibrationSweeps+1)%cfg.SampleInterval == 0 {
			e.model.Measure(&result.Estimators)
			s := Sample{
				Sweep:         sweep + 1,
				Energy:        result.Estimators.Energy,
				Magnetization: result.Estimators.Magnetization,
				SpinVector:    cloneVectors(result.Estimators.SpinVector),
			}
			result.Trace = append(result.Trace, s)
			for _, o := range e.observers {
				o.OnSample(s)
			}

			if cfg.CheckState {
				if err := e.model.Check(); err != nil {
					return nil, &SweepError{Sweep: sweep + 1, Wrapped: fmt.Errorf("%w: %v", ErrInvalidState, err)}
				}
			}
		}

		for _, o := range e.observers {
			o.OnSweep(sweep+1, phase)
		}
	}

	result.FinalState = e.model.Snapshot()
	return result, nil
}

func cloneVectors(vs [][3]float64) [][3]float64 {
	if vs == nil {
		return nil
	}
	c := make([][3]float64, len(vs))
	copy(c, vs)
	return c
}
