package mc

import (
	"fmt"
	"math/rand"
)

// Phase tracks where a run is in its sweep schedule.
type Phase int

const (
	PhaseEquilibrating Phase = iota
	PhaseSampling
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseEquilibrating:
		return "equilibrating"
	case PhaseSampling:
		return "sampling"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Model is the capability interface a spin representation exposes to the
// engine. Both the Ising and Heisenberg variants implement it, so the
// Metropolis driver and the estimator accumulation consume one evaluation
// path regardless of representation.
//
// Propose draws a candidate value for site i and returns the local energy
// with the candidate hypothetically in place (neighbors unchanged); Accept
// commits that candidate. The pair must be called for the same site, which
// is the engine's only access pattern.
type Model interface {
	Name() string
	NumSites() int
	NumSublattices() int

	// Init draws a fresh random configuration.
	Init(rng *rand.Rand)

	// SiteEnergy returns the interaction energy attributable to site i,
	// summed over its neighbors.
	SiteEnergy(i int) float64

	// Propose draws a candidate spin value for site i and returns the
	// local energy it would have. O(degree), no state mutation.
	Propose(i int, rng *rand.Rand) float64

	// Accept writes the last proposed candidate into site i.
	Accept(i int)

	// TotalEnergy sums the per-site energies and halves the result to
	// correct for each undirected bond being counted from both endpoints.
	TotalEnergy() float64

	// Measure writes the current estimators: total energy, magnetization,
	// and per-sublattice spin vector sums.
	Measure(est *Estimators)

	// Snapshot returns the per-site spin components, one row per site.
	Snapshot() [][]float64

	// Check verifies the representation invariant (spins in {-1,+1} for
	// Ising, unit norms for Heisenberg). A failure is a programming error,
	// never silently corrected.
	Check() error
}

// Observer receives sweep-boundary notifications from a running engine.
type Observer interface {
	OnSweep(sweep int, phase Phase)
	OnSample(s Sample)
}

// Estimators holds the most recent full-lattice measurements. SpinVector is
// indexed by sublattice; each entry is the (x,y,z) sum over that
// sublattice's sites.
type Estimators struct {
	Energy        float64
	Magnetization float64
	SpinVector    [][3]float64
}

// Sample is one estimator measurement taken at a sweep boundary.
type Sample struct {
	Sweep         int
	Energy        float64
	Magnetization float64
	SpinVector    [][3]float64
}

// Config carries the caller-supplied run parameters. Temperature is in
// reduced units (k_B = 1); zero means a quench that only accepts
// non-increasing moves.
type Config struct {
	Sweeps              int
	EquilibrationSweeps int
	SampleInterval      int
	Temperature         float64
	Seed                int64
	CheckState          bool
}

func DefaultConfig() Config {
	return Config{
		Sweeps:              400,
		EquilibrationSweeps: 100,
		SampleInterval:      1,
		Temperature:         1.0,
		CheckState:          true,
	}
}

// Validate rejects configurations before any sweep runs.
func (c Config) Validate() error {
	if c.Sweeps <= 0 {
		return fmt.Errorf("%w: sweeps must be positive, got %d", ErrInvalidConfig, c.Sweeps)
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("%w: sample interval must be positive, got %d", ErrInvalidConfig, c.SampleInterval)
	}
	if c.Temperature < 0 {
		return fmt.Errorf("%w: temperature must be non-negative, got %g", ErrInvalidConfig, c.Temperature)
	}
	if c.EquilibrationSweeps < 0 || c.EquilibrationSweeps >= c.Sweeps {
		return fmt.Errorf("%w: equilibration sweeps %d outside [0,%d)", ErrInvalidConfig, c.EquilibrationSweeps, c.Sweeps)
	}
	return nil
}

// Result is the output of one run: the final estimators, the sample trace,
// acceptance counters, and the final spin configuration. Read-only once
// returned.
type Result struct {
	Estimators Estimators
	Trace      []Sample
	Attempted  int
	Accepted   int
	FinalState [][]float64
}

// AcceptanceRate returns the fraction of attempted moves that were accepted.
func (r *Result) AcceptanceRate() float64 {
	if r.Attempted == 0 {
		return 0
	}
	return float64(r.Accepted) / float64(r.Attempted)
}
